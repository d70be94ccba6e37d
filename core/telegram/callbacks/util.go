package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

const answeredKey = "cb_answered"

// ParseCallbackData splits Telebot's "\f<unique>|<payload>" encoding.
// When Telebot already matched a unique handler, Unique and Data are returned as is.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	unique := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}

// CallbackKey returns the unique part of the current callback.
func CallbackKey(c tele.Context) string {
	k, _ := ParseCallbackData(c.Callback())
	return k
}

// CallbackPayload returns the payload part of the current callback.
func CallbackPayload(c tele.Context) string {
	_, p := ParseCallbackData(c.Callback())
	return p
}

// Answer responds to the callback query once; later calls are ignored.
// An empty text just stops the client spinner.
func Answer(c tele.Context, text string) error {
	if c.Callback() == nil || Answered(c) {
		return nil
	}
	c.Set(answeredKey, true)
	if text == "" {
		return c.Respond()
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}

// Answered reports whether Answer already ran for this update.
func Answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}
