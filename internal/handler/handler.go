package handler

import (
	"context"
	"errors"
	"time"

	"vacancybot/internal/domain"
	"vacancybot/internal/i18n"
	"vacancybot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const handlerTimeout = 30 * time.Second

// PreferencesFlow is the preferences dialog driven by bot updates
type PreferencesFlow interface {
	OpenPreferences(ctx context.Context, req service.Request) error
	OpenLanguageMenu(ctx context.Context, req service.Request) error
	ChooseLanguage(ctx context.Context, req service.Request, code string) error
	RequestScheduleEdit(ctx context.Context, req service.Request) error
	TextInput(ctx context.Context, req service.Request, raw string) (bool, error)
	NavigateBack(ctx context.Context, req service.Request) error
	ShowProfile(ctx context.Context, req service.Request) error
}

// ProfileService creates user profiles
type ProfileService interface {
	EnsureProfile(ctx context.Context, userID int64, lang domain.Language) error
}

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	flow     PreferencesFlow
	profiles ProfileService
	catalog  *i18n.Catalog
	logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	flow PreferencesFlow,
	profiles ProfileService,
	catalog *i18n.Catalog,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:      bot,
		flow:     flow,
		profiles: profiles,
		catalog:  catalog,
		logger:   logger,
	}
}

// Inline keyboard buttons, matched by their unique
var (
	btnPrefsMenu        = tele.Btn{Unique: domain.ActionPrefsMenu}
	btnPrefsLangMenu    = tele.Btn{Unique: domain.ActionPrefsLangMenu}
	btnPrefsSetLang     = tele.Btn{Unique: domain.ActionPrefsSetLang}
	btnPrefsSchedule    = tele.Btn{Unique: domain.ActionPrefsSchedule}
	btnPrefsBackProfile = tele.Btn{Unique: domain.ActionPrefsBackProfile}
)

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/profile", h.handleProfile)
	h.bot.Handle("/preferences", h.handlePreferences)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnPrefsMenu, h.handlePrefsMenu)
	h.bot.Handle(&btnPrefsLangMenu, h.handlePrefsLangMenu)
	h.bot.Handle(&btnPrefsSetLang, h.handlePrefsSetLang)
	h.bot.Handle(&btnPrefsSchedule, h.handlePrefsSchedule)
	h.bot.Handle(&btnPrefsBackProfile, h.handlePrefsBackProfile)

	// Generic callback handler for raw data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// requestFrom describes the update in c for the preferences flow
func requestFrom(c tele.Context) service.Request {
	var req service.Request
	if sender := c.Sender(); sender != nil {
		req.UserID = sender.ID
		req.LangHint = sender.LanguageCode
	}

	req.ChatID = req.UserID
	if chat := c.Chat(); chat != nil {
		req.ChatID = chat.ID
	}

	if cb := c.Callback(); cb != nil {
		req.FromButton = true
		if cb.Message != nil {
			req.Message = messageRef(cb.Message)
		}
		return req
	}
	if msg := c.Message(); msg != nil {
		req.Message = messageRef(msg)
	}
	return req
}

func messageRef(msg *tele.Message) domain.MessageRef {
	ref := domain.MessageRef{MessageID: msg.ID}
	if msg.Chat != nil {
		ref.ChatID = msg.Chat.ID
	}
	return ref
}

func (h *Handler) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

// result drops errors the user has already been told about
func (h *Handler) result(err error, req service.Request) error {
	if err == nil || errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	h.logger.Debug("Handler finished with error",
		zap.Int64("user_id", req.UserID),
		zap.Error(err),
	)
	return err
}
