// Package tgtest runs an offline telebot against a recording Bot API stub.
package tgtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v4"
)

// Call is one recorded Bot API request.
type Call struct {
	Method string
	Params map[string]any
}

// Str returns a string parameter, or "" when absent.
func (c Call) Str(key string) string {
	switch v := c.Params[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// Server records every Bot API call and answers with a generic message.
type Server struct {
	mu    sync.Mutex
	calls []Call
	srv   *httptest.Server
}

// NewBot starts a stub server and returns a synchronous offline bot bound to it.
func NewBot(t *testing.T) (*tele.Bot, *Server) {
	t.Helper()
	s := &Server{}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)

	bot, err := tele.NewBot(tele.Settings{
		URL:         s.srv.URL,
		Token:       "TEST",
		Offline:     true,
		Synchronous: true,
	})
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return bot, s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	params := map[string]any{}
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &params)

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Params: params})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage", "editMessageText", "editMessageReplyMarkup":
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":100,"date":0,"chat":{"id":1,"type":"private"}}}`)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	}
}

// Calls returns a copy of the recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Methods returns the recorded method names in order.
func (s *Server) Methods() []string {
	var out []string
	for _, c := range s.Calls() {
		out = append(out, c.Method)
	}
	return out
}

// Last returns the last call with the given method.
func (s *Server) Last(method string) (Call, bool) {
	calls := s.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Reset forgets recorded calls.
func (s *Server) Reset() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

// TextUpdate builds a private-chat text message update.
func TextUpdate(id int, userID int64, text string) tele.Update {
	return tele.Update{
		ID: id,
		Message: &tele.Message{
			ID:     id,
			Sender: &tele.User{ID: userID, FirstName: "Ann"},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			Text:   text,
		},
	}
}

// CallbackUpdate builds a callback update carrying raw "\f<unique>|<payload>" data.
func CallbackUpdate(id int, userID int64, unique, payload string) tele.Update {
	data := "\f" + unique
	if payload != "" {
		data += "|" + payload
	}
	return tele.Update{
		ID: id,
		Callback: &tele.Callback{
			ID:     "cb-1",
			Sender: &tele.User{ID: userID, FirstName: "Ann"},
			Message: &tele.Message{
				ID:   7,
				Chat: &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			},
			Data: data,
		},
	}
}
