// Package telegram adapts the bot API to the chat transport used by services.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vacancybot/internal/domain"
	"vacancybot/internal/view"

	tele "gopkg.in/telebot.v3"
)

// botAPI is the part of *tele.Bot the messenger needs
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Messenger sends views as HTML messages with inline keyboards
type Messenger struct {
	bot botAPI
}

// NewMessenger creates a messenger on top of bot
func NewMessenger(bot botAPI) *Messenger {
	return &Messenger{bot: bot}
}

// Send posts a new message to chatID
func (m *Messenger) Send(ctx context.Context, chatID int64, v view.View) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, err
	}

	msg, err := m.bot.Send(tele.ChatID(chatID), v.Text, sendOptions(v))
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("send message to chat %d: %w", chatID, err)
	}

	ref := domain.MessageRef{ChatID: chatID, MessageID: msg.ID}
	if msg.Chat != nil {
		ref.ChatID = msg.Chat.ID
	}
	return ref, nil
}

// Edit replaces text and keyboard of an existing message.
// An edit that changes nothing returns domain.ErrMessageNotModified.
func (m *Messenger) Edit(ctx context.Context, ref domain.MessageRef, v view.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := m.bot.Edit(stored(ref), v.Text, sendOptions(v))
	if err != nil {
		if isNotModified(err) {
			return fmt.Errorf("edit message %d: %w", ref.MessageID, domain.ErrMessageNotModified)
		}
		return fmt.Errorf("edit message %d: %w", ref.MessageID, err)
	}
	return nil
}

// Delete removes a message
func (m *Messenger) Delete(ctx context.Context, ref domain.MessageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.bot.Delete(stored(ref)); err != nil {
		return fmt.Errorf("delete message %d: %w", ref.MessageID, err)
	}
	return nil
}

func stored(ref domain.MessageRef) tele.StoredMessage {
	return tele.StoredMessage{
		MessageID: strconv.Itoa(ref.MessageID),
		ChatID:    ref.ChatID,
	}
}

func sendOptions(v view.View) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if v.Keyboard != nil {
		opts.ReplyMarkup = Markup(v.Keyboard)
	}
	return opts
}

// isNotModified detects Telegram's "message is not modified" error
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
