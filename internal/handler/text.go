package handler

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText routes free text to the preferences flow
func (h *Handler) handleText(c tele.Context) error {
	text := c.Text()

	// Ignore commands (starting with /)
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return nil
	}

	req := requestFrom(c)

	ctx, cancel := h.context()
	defer cancel()

	handled, err := h.flow.TextInput(ctx, req, text)
	if !handled {
		h.logger.Debug("Text outside of an editing session", zap.Int64("user_id", req.UserID))
		return nil
	}
	return h.result(err, req)
}
