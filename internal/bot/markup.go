package bot

import (
	"github.com/m3rciful/buylist/core/telegram/keyboard"
	"github.com/m3rciful/buylist/internal/shoplist"

	tele "gopkg.in/telebot.v4"
)

// Markup renders a view as an inline keyboard, one button per action.
func Markup(v shoplist.View) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(v.Rows))
	for _, row := range v.Rows {
		btns := make([]keyboard.InlineBtn, 0, len(row.Actions))
		for _, a := range row.Actions {
			text := row.Label
			if a.Kind == shoplist.ActionPrevPage || a.Kind == shoplist.ActionNextPage {
				text = shoplist.NavLabel(a.Kind)
			}
			btns = append(btns, keyboard.InlineBtn{Text: text, Unique: a.Unique(), Data: a.Payload()})
		}
		rows = append(rows, btns)
	}
	return keyboard.InlineButtonsRows(rows...)
}
