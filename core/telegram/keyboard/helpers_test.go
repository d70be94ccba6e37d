package keyboard

import "testing"

func TestReplyButtons(t *testing.T) {
	m := PersistentReplyButtons([]string{"Show list", "Show full list"}, []string{"Reset states"})
	if !m.ResizeKeyboard || !m.IsPersistent {
		t.Fatalf("flags = resize %v persistent %v", m.ResizeKeyboard, m.IsPersistent)
	}
	if len(m.ReplyKeyboard) != 2 || len(m.ReplyKeyboard[0]) != 2 || m.ReplyKeyboard[1][0].Text != "Reset states" {
		t.Fatalf("keyboard = %+v", m.ReplyKeyboard)
	}
}

func TestInlineButtonsRows(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "milk", Unique: "activate", Data: "full_list|0|0"}},
		nil,
		[]InlineBtn{{Text: "<<=", Unique: "show_previous"}, {Text: "=>>", Unique: "show_next"}},
	)
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(m.InlineKeyboard))
	}
	btn := m.InlineKeyboard[0][0]
	if btn.Text != "milk" || btn.Unique != "activate" || btn.Data != "full_list|0|0" {
		t.Fatalf("button = %+v", btn)
	}
	if len(m.InlineKeyboard[1]) != 2 {
		t.Fatalf("nav row = %+v", m.InlineKeyboard[1])
	}
}
