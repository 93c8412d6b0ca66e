package handler

import (
	"vacancybot/internal/i18n"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	req := requestFrom(c)

	var username string
	if sender := c.Sender(); sender != nil {
		username = sender.Username
	}
	h.logger.Info("User started bot",
		zap.Int64("user_id", req.UserID),
		zap.String("username", username),
	)

	ctx, cancel := h.context()
	defer cancel()

	// Ensure user exists in database
	lang := h.catalog.Detect("", req.LangHint)
	if err := h.profiles.EnsureProfile(ctx, req.UserID, lang); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(h.catalog.T(lang, i18n.KeyGenericError))
	}

	return h.result(h.flow.ShowProfile(ctx, req), req)
}

// handleProfile handles /profile command
func (h *Handler) handleProfile(c tele.Context) error {
	req := requestFrom(c)

	ctx, cancel := h.context()
	defer cancel()

	return h.result(h.flow.NavigateBack(ctx, req), req)
}

// handlePreferences handles /preferences command
func (h *Handler) handlePreferences(c tele.Context) error {
	req := requestFrom(c)

	ctx, cancel := h.context()
	defer cancel()

	return h.result(h.flow.OpenPreferences(ctx, req), req)
}
