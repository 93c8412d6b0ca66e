package handler

import (
	"context"
	"strings"
	"unicode"

	"vacancybot/internal/domain"
	"vacancybot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseCallbackData splits raw callback data into action and payload.
// It accepts both "\f<unique>|<payload>" and the plain "<action>:<payload>" form.
func parseCallbackData(data string) (string, string) {
	data = cleanCallbackData(data)
	if action, payload, ok := strings.Cut(data, "|"); ok {
		return action, payload
	}
	if action, payload, ok := strings.Cut(data, ":"); ok {
		return action, payload
	}
	return data, ""
}

// callback runs fn for a button press and always acknowledges the callback
func (h *Handler) callback(c tele.Context, fn func(context.Context, service.Request) error) error {
	req := requestFrom(c)

	ctx, cancel := h.context()
	defer cancel()

	err := fn(ctx, req)

	// Always acknowledge callback
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return h.result(err, req)
}

func (h *Handler) handlePrefsMenu(c tele.Context) error {
	return h.callback(c, h.flow.OpenPreferences)
}

func (h *Handler) handlePrefsLangMenu(c tele.Context) error {
	return h.callback(c, h.flow.OpenLanguageMenu)
}

func (h *Handler) handlePrefsSchedule(c tele.Context) error {
	return h.callback(c, h.flow.RequestScheduleEdit)
}

func (h *Handler) handlePrefsBackProfile(c tele.Context) error {
	return h.callback(c, h.flow.NavigateBack)
}

func (h *Handler) handlePrefsSetLang(c tele.Context) error {
	code := cleanCallbackData(c.Callback().Data)
	return h.chooseLanguage(c, code)
}

func (h *Handler) chooseLanguage(c tele.Context, code string) error {
	return h.callback(c, func(ctx context.Context, req service.Request) error {
		return h.flow.ChooseLanguage(ctx, req, code)
	})
}

// handleCallback handles callback queries no button handler matched
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	req := requestFrom(c)
	action, payload := parseCallbackData(callback.Data)
	if callback.Unique != "" {
		action, payload = callback.Unique, cleanCallbackData(callback.Data)
	}

	h.logger.Debug("handleCallback: Processing callback",
		zap.String("action", action),
		zap.String("payload", payload),
		zap.String("id", callback.ID),
		zap.Int64("user_id", req.UserID),
	)

	switch action {
	case domain.ActionPrefsMenu:
		return h.handlePrefsMenu(c)
	case domain.ActionPrefsLangMenu:
		return h.handlePrefsLangMenu(c)
	case domain.ActionPrefsSetLang:
		return h.chooseLanguage(c, payload)
	case domain.ActionPrefsSchedule:
		return h.handlePrefsSchedule(c)
	case domain.ActionPrefsBackProfile:
		return h.handlePrefsBackProfile(c)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("action", action),
		zap.String("data_raw", callback.Data),
	)
	return c.Respond()
}
