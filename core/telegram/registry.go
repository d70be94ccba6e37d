package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/core/telegram/callbacks"
	"github.com/m3rciful/buylist/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidRegistration covers empty names, missing handlers or descriptions.
	ErrInvalidRegistration = errors.New("telegram: invalid registration")
	// ErrDuplicate is returned when a command, alias or callback key is taken.
	ErrDuplicate = errors.New("telegram: already registered")
)

// Registry holds the commands, their text aliases and the callback handlers.
// The first registration of a name wins.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string // label -> command
	callbacks map[string]tele.HandlerFunc

	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry returns an empty registry whose unknown-callback handler just
// answers "Unsupported action".
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			return callbacks.Answer(c, "Unsupported action")
		},
	}
}

func wireSkip(event string, err error, attrs ...slog.Attr) error {
	attrs = append([]slog.Attr{slog.String("status", "skip"), slog.String("err", err.Error())}, attrs...)
	logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, event, attrs...)
	return err
}

// RegisterCommand adds cmd under name ("/list"). Names and aliases must be unique.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	handler := slog.String("handler", name)
	switch {
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		return wireSkip("register.command.skip", fmt.Errorf("%w: command %q needs a slash prefix", ErrInvalidRegistration, name), handler)
	case cmd.Handler == nil || cmd.Description == "":
		return wireSkip("register.command.skip", fmt.Errorf("%w: command %s needs a handler and a description", ErrInvalidRegistration, name), handler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.commands[name]; taken {
		return wireSkip("register.command.duplicate", fmt.Errorf("%w: command %s", ErrDuplicate, name), handler)
	}
	for _, alias := range cmd.Aliases {
		if owner, taken := r.aliases[alias]; taken {
			return wireSkip("register.command.duplicate", fmt.Errorf("%w: alias %q of %s", ErrDuplicate, alias, owner), handler)
		}
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = name
	}
	return nil
}

// ListCommands returns commands sorted by name for the Telegram menu.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for name, cmd := range r.commands {
		if visibleOnly && cmd.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: cmd.Description})
	}
	slices.SortFunc(list, func(a, b tele.Command) int { return strings.Compare(a.Text, b.Text) })
	return list
}

// LookupCommand resolves "/list", "list" or an exact alias such as a
// reply keyboard label.
func (r *Registry) LookupCommand(text string) (string, commands.Command, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", commands.Command{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := text
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	if owner, ok := r.aliases[strings.TrimPrefix(text, "/")]; ok {
		return owner, r.commands[owner], true
	}
	return "", commands.Command{}, false
}

// Commands returns a copy of the registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]commands.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// RegisterCallback binds handler to the callback unique key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	cbKey := slog.String("cb_key", key)
	if key == "" || handler == nil {
		return wireSkip("register.callback.skip", fmt.Errorf("%w: callback %q", ErrInvalidRegistration, key), cbKey)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.callbacks[key]; taken {
		return wireSkip("register.callback.duplicate", fmt.Errorf("%w: callback %s", ErrDuplicate, key), cbKey)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered keys sorted.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetCallbackNotFound replaces the handler for unknown callback keys; nil is ignored.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

func (r *Registry) CallbackNotFound() tele.HandlerFunc { return r.callbackNotFound }

// SetTextFallback handles text that matches no command or alias.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) { r.textFallback = h }

func (r *Registry) TextFallback() tele.HandlerFunc { return r.textFallback }

// InitBotCommands publishes the visible commands to the Telegram menu.
// Failure is logged; the bot keeps working without a menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelError, "register.commands.set_failed",
			slog.String("status", "fail"),
			slog.Int("commands", len(list)),
			slog.String("err", err.Error()),
		)
	}
}
