package telegram

import (
	"vacancybot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Markup converts a keyboard into inline reply markup.
// Each button's action becomes its callback unique, Data its payload.
func Markup(kb *domain.Keyboard) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if kb == nil {
		return markup
	}

	rows := make([]tele.Row, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		btns := make([]tele.Btn, 0, len(r))
		for _, b := range r {
			if b.Data == "" {
				btns = append(btns, markup.Data(b.Text, b.Action))
			} else {
				btns = append(btns, markup.Data(b.Text, b.Action, b.Data))
			}
		}
		rows = append(rows, markup.Row(btns...))
	}
	markup.Inline(rows...)

	return markup
}
