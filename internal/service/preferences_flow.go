package service

import (
	"context"
	"errors"
	"fmt"

	"vacancybot/internal/domain"
	"vacancybot/internal/i18n"
	"vacancybot/internal/session"
	"vacancybot/internal/view"

	"go.uber.org/zap"
)

// Request describes the user action being handled
type Request struct {
	UserID   int64
	ChatID   int64
	LangHint string
	// Message is the message the action came from: the message carrying
	// the pressed button, or the user's own text message.
	Message domain.MessageRef
	// FromButton is set for inline button presses; their message can be
	// edited in place.
	FromButton bool
}

// PreferencesFlow drives the preferences editing dialog.
// Every method runs as one transition of the user's session.
type PreferencesFlow struct {
	prefs     *PreferenceService
	renderer  *view.Renderer
	messenger Messenger
	lifecycle *Lifecycle
	sessions  *session.Store
	logger    *zap.Logger
}

// NewPreferencesFlow creates a new preferences flow
func NewPreferencesFlow(
	prefs *PreferenceService,
	renderer *view.Renderer,
	messenger Messenger,
	lifecycle *Lifecycle,
	sessions *session.Store,
	logger *zap.Logger,
) *PreferencesFlow {
	return &PreferencesFlow{
		prefs:     prefs,
		renderer:  renderer,
		messenger: messenger,
		lifecycle: lifecycle,
		sessions:  sessions,
		logger:    logger,
	}
}

// Session returns the current session of a user
func (f *PreferencesFlow) Session(userID int64) domain.Session {
	return f.sessions.Get(userID)
}

// OpenPreferences shows the preferences view and ends any editing in progress
func (f *PreferencesFlow) OpenPreferences(ctx context.Context, req Request) error {
	var err error
	f.sessions.Update(req.UserID, func(cur domain.Session) domain.Session {
		f.discard(ctx, cur)

		var user *domain.User
		user, err = f.loadUser(ctx, req)
		if err == nil {
			err = f.show(ctx, req, f.renderer.Preferences(user, req.LangHint))
		}
		return f.advance(req, cur, domain.EventNavigate, domain.IdleSession())
	})
	return err
}

// NavigateBack returns to the profile view and ends any editing in progress
func (f *PreferencesFlow) NavigateBack(ctx context.Context, req Request) error {
	var err error
	f.sessions.Update(req.UserID, func(cur domain.Session) domain.Session {
		f.discard(ctx, cur)

		var user *domain.User
		user, err = f.loadUser(ctx, req)
		if err == nil {
			err = f.show(ctx, req, f.renderer.Profile(user, req.LangHint))
		}
		return f.advance(req, cur, domain.EventNavigate, domain.IdleSession())
	})
	return err
}

// ShowProfile renders the profile view without touching the session
func (f *PreferencesFlow) ShowProfile(ctx context.Context, req Request) error {
	user, err := f.loadUser(ctx, req)
	if err != nil {
		return err
	}
	return f.show(ctx, req, f.renderer.Profile(user, req.LangHint))
}

// OpenLanguageMenu sends the language picker and waits for a choice
func (f *PreferencesFlow) OpenLanguageMenu(ctx context.Context, req Request) error {
	var err error
	f.sessions.Update(req.UserID, func(cur domain.Session) domain.Session {
		var user *domain.User
		user, err = f.loadUser(ctx, req)
		if err != nil {
			return cur
		}

		lang := f.renderer.Language(user, req.LangHint)
		if _, err = f.messenger.Send(ctx, req.ChatID, f.renderer.LanguageMenu(lang)); err != nil {
			err = fmt.Errorf("send language menu: %w", err)
			return cur
		}

		f.discard(ctx, cur)
		return f.advance(req, cur, domain.EventOpenLanguageMenu, domain.AwaitingLanguageChoice())
	})
	return err
}

// ChooseLanguage stores the picked language and shows the updated view.
// Buttons of an old menu keep working, so any state accepts a choice.
func (f *PreferencesFlow) ChooseLanguage(ctx context.Context, req Request, code string) error {
	var err error
	f.sessions.Update(req.UserID, func(cur domain.Session) domain.Session {
		var lang domain.Language
		lang, err = f.prefs.SetLanguage(ctx, req.UserID, code)
		switch {
		case errors.Is(err, domain.ErrUnsupportedLanguage):
			f.logger.Debug("Unsupported language chosen", zap.Int64("user_id", req.UserID), zap.String("code", code))
			err = f.notify(ctx, req, f.currentLanguage(ctx, req), i18n.KeyLangInvalid)
			return cur
		case errors.Is(err, domain.ErrUserNotFound):
			if nerr := f.notify(ctx, req, f.renderer.Language(nil, req.LangHint), i18n.KeyNoProfile); nerr != nil {
				err = nerr
			}
			return cur
		case err != nil:
			err = f.storeFailure(ctx, req, f.currentLanguage(ctx, req), err)
			return cur
		}

		name := f.renderer.Catalog().LanguageName(lang, lang)
		if err = f.notify(ctx, req, lang, i18n.KeyLangSaved, name); err != nil {
			f.logger.Warn("Failed to confirm language change", zap.Int64("user_id", req.UserID), zap.Error(err))
		}

		var user *domain.User
		user, err = f.loadUser(ctx, req)
		if err == nil {
			err = f.show(ctx, req, f.renderer.Preferences(user, req.LangHint))
		}

		f.discard(ctx, cur)
		return f.advance(req, cur, domain.EventChooseLanguage, domain.IdleSession())
	})
	return err
}

// RequestScheduleEdit asks for a new digest time. The message the button
// was pressed on becomes the anchor refreshed after a successful edit.
func (f *PreferencesFlow) RequestScheduleEdit(ctx context.Context, req Request) error {
	var err error
	f.sessions.Update(req.UserID, func(cur domain.Session) domain.Session {
		var user *domain.User
		user, err = f.loadUser(ctx, req)
		if err != nil {
			return cur
		}

		lang := f.renderer.Language(user, req.LangHint)
		var prompt domain.MessageRef
		prompt, err = f.messenger.Send(ctx, req.ChatID, f.renderer.Text(lang, i18n.KeySchedulePrompt))
		if err != nil {
			err = fmt.Errorf("send schedule prompt: %w", err)
			return cur
		}

		f.discard(ctx, cur)

		var anchor domain.MessageRef
		if req.FromButton {
			anchor = req.Message
		}
		return f.advance(req, cur, domain.EventRequestSchedule, domain.AwaitingScheduleTime(anchor, prompt))
	})
	return err
}

// TextInput handles free text. It reports false when no schedule time is
// awaited, leaving the text to other handlers.
func (f *PreferencesFlow) TextInput(ctx context.Context, req Request, raw string) (bool, error) {
	var (
		handled bool
		err     error
	)
	f.sessions.Update(req.UserID, func(cur domain.Session) domain.Session {
		if !cur.Can(domain.EventScheduleSaved) {
			return cur
		}
		handled = true

		var user *domain.User
		user, err = f.loadUser(ctx, req)
		if err != nil {
			return cur
		}
		lang := f.renderer.Language(user, req.LangHint)

		parsed, perr := domain.ParseScheduleTime(raw)
		if perr != nil {
			f.logger.Debug("Invalid schedule time", zap.Int64("user_id", req.UserID), zap.Error(perr))
			err = f.notify(ctx, req, lang, i18n.KeyScheduleInvalid)
			return cur
		}

		if err = f.prefs.SetScheduleTime(ctx, req.UserID, parsed); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				err = f.notify(ctx, req, lang, i18n.KeyNoProfile)
				return cur
			}
			err = f.storeFailure(ctx, req, lang, err)
			return cur
		}

		confirmation := f.renderer.Text(lang, i18n.KeyScheduleCleared)
		if !parsed.IsCleared() {
			confirmation = f.renderer.Text(lang, i18n.KeyScheduleSaved, parsed.String())
		}
		confirmRef, serr := f.messenger.Send(ctx, req.ChatID, confirmation)
		if serr != nil {
			f.logger.Warn("Failed to confirm schedule time", zap.Int64("user_id", req.UserID), zap.Error(serr))
		}

		prompt, _ := cur.Prompt()
		f.lifecycle.Cleanup(ctx, prompt, req.Message, confirmRef)

		anchor, _ := cur.Anchor()
		f.lifecycle.Refresh(ctx, anchor, req.UserID, req.LangHint)

		f.logger.Info("Schedule time updated",
			zap.Int64("user_id", req.UserID),
			zap.Bool("cleared", parsed.IsCleared()),
		)
		return f.advance(req, cur, domain.EventScheduleSaved, domain.IdleSession())
	})
	return handled, err
}

// loadUser fetches the profile and tells the user when it can't
func (f *PreferencesFlow) loadUser(ctx context.Context, req Request) (*domain.User, error) {
	user, err := f.prefs.Profile(ctx, req.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		lang := f.renderer.Language(nil, req.LangHint)
		if nerr := f.notify(ctx, req, lang, i18n.KeyNoProfile); nerr != nil {
			return nil, nerr
		}
		return nil, err
	}
	if err != nil {
		return nil, f.storeFailure(ctx, req, f.renderer.Language(nil, req.LangHint), err)
	}
	return user, nil
}

// currentLanguage resolves the user's language without reporting failures
func (f *PreferencesFlow) currentLanguage(ctx context.Context, req Request) domain.Language {
	user, err := f.prefs.Profile(ctx, req.UserID)
	if err != nil {
		return f.renderer.Language(nil, req.LangHint)
	}
	return f.renderer.Language(user, req.LangHint)
}

func (f *PreferencesFlow) storeFailure(ctx context.Context, req Request, lang domain.Language, err error) error {
	f.logger.Error("Preference store failure", zap.Int64("user_id", req.UserID), zap.Error(err))
	if nerr := f.notify(ctx, req, lang, i18n.KeyGenericError); nerr != nil {
		f.logger.Warn("Failed to send error message", zap.Int64("user_id", req.UserID), zap.Error(nerr))
	}
	return err
}

func (f *PreferencesFlow) notify(ctx context.Context, req Request, lang domain.Language, key string, args ...any) error {
	if _, err := f.messenger.Send(ctx, req.ChatID, f.renderer.Text(lang, key, args...)); err != nil {
		return fmt.Errorf("send %s: %w", key, err)
	}
	return nil
}

// show edits the button's message in place, falling back to a new message
func (f *PreferencesFlow) show(ctx context.Context, req Request, v view.View) error {
	if req.FromButton && !req.Message.IsZero() {
		err := f.messenger.Edit(ctx, req.Message, v)
		if err == nil || errors.Is(err, domain.ErrMessageNotModified) {
			return nil
		}
		f.logger.Debug("Failed to edit message, sending a new one",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
	}

	if _, err := f.messenger.Send(ctx, req.ChatID, v); err != nil {
		return fmt.Errorf("send view: %w", err)
	}
	return nil
}

// advance returns next when ev is allowed from cur and leads to next's step.
// A rejected event keeps the current session.
func (f *PreferencesFlow) advance(req Request, cur domain.Session, ev domain.SessionEvent, next domain.Session) domain.Session {
	dst, err := cur.Fire(ev)
	if err == nil && dst != next.State() {
		err = fmt.Errorf("%w: %s leads to %s, not %s", domain.ErrInvalidTransition, ev, dst, next.State())
	}
	if err != nil {
		f.logger.Warn("Session transition rejected", zap.Int64("user_id", req.UserID), zap.Error(err))
		return cur
	}
	return next
}

// discard removes the prompt of an abandoned schedule edit
func (f *PreferencesFlow) discard(ctx context.Context, cur domain.Session) {
	if prompt, ok := cur.Prompt(); ok {
		f.lifecycle.Cleanup(ctx, prompt)
	}
}
