// Package bot maps Telegram commands, reply-keyboard labels and inline
// button presses onto the shopping list registry.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/buylist/core/logger"
	tg "github.com/m3rciful/buylist/core/telegram"
	"github.com/m3rciful/buylist/core/telegram/callbacks"
	"github.com/m3rciful/buylist/core/telegram/commands"
	tghelpers "github.com/m3rciful/buylist/core/telegram/helpers"
	"github.com/m3rciful/buylist/core/telegram/keyboard"
	"github.com/m3rciful/buylist/core/telegram/middleware"
	"github.com/m3rciful/buylist/core/telegram/router"
	"github.com/m3rciful/buylist/internal/shoplist"

	tele "gopkg.in/telebot.v4"
)

// Texts sent to users.
const (
	TextGreeting    = "Hello! It's your buying list bot!"
	TextResetDone   = "Reset is done!"
	TextDenied      = "Access denied."
	TextUnavailable = "Could not load the list, try again later."
	TextSlowDown    = "Too fast, try again in a moment."
)

// Reply keyboard labels. Each one is also an alias of its command.
const (
	LabelShowList = "Show list"
	LabelShowFull = "Show full list"
	LabelReset    = "Reset states"
)

// Options configure the handlers.
type Options struct {
	// AdminID is always allowed, even when missing from the source allow-list.
	AdminID int64
}

// Handlers serves one shared list.
type Handlers struct {
	list     *shoplist.Registry
	keyboard *tele.ReplyMarkup
	access   middleware.AccessOptions
}

// New returns handlers bound to list.
func New(list *shoplist.Registry, opts Options) *Handlers {
	h := &Handlers{
		list:     list,
		keyboard: keyboard.PersistentReplyButtons([]string{LabelShowList, LabelShowFull, LabelReset}),
	}
	h.access = middleware.AccessOptions{
		AdminID:  opts.AdminID,
		Allowed:  list.IsAuthorized,
		OnReject: h.onDenied,
	}
	return h
}

// Register adds the commands and the callback handlers to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	var errs []error
	for name, cmd := range map[string]commands.Command{
		"/start": {Handler: h.onStart, Description: "Show the list keyboard", Public: true},
		"/list":  {Handler: h.onList, Description: "Show items to buy", Aliases: []string{LabelShowList}},
		"/full":  {Handler: h.onFull, Description: "Show every item", Aliases: []string{LabelShowFull}},
		"/reset": {Handler: h.onReset, Description: "Reset items to their defaults", Aliases: []string{LabelReset}},
	} {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			errs = append(errs, err)
		}
	}
	for _, kind := range []shoplist.ActionKind{
		shoplist.ActionActivate,
		shoplist.ActionDeactivate,
		shoplist.ActionPrevPage,
		shoplist.ActionNextPage,
	} {
		if err := reg.RegisterCallback(string(kind), h.onAction); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Access restricts handlers to the current allow-list and the admin.
func (h *Handlers) Access() tele.MiddlewareFunc {
	return middleware.AccessMiddleware(h.access)
}

// Routes builds command, text and callback routes guarded by Access.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	access := h.Access()
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{Access: access})
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{Access: access})...)
	return append(routes, router.CallbackRoute(reg, router.CallbackOptions{Access: access}))
}

func (h *Handlers) onStart(c tele.Context) error {
	return c.Send(TextGreeting, h.keyboard)
}

func (h *Handlers) onList(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "list")
	if err := h.list.Refresh(ctx); err != nil {
		return h.unavailable(c, err)
	}
	v := h.list.ActiveView()
	return c.Send(greet(c, v.Title), Markup(v))
}

func (h *Handlers) onFull(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "full")
	if err := h.list.Refresh(ctx); err != nil {
		return h.unavailable(c, err)
	}
	v, ok := h.list.FullView(0)
	if !ok {
		return c.Send(fmt.Sprintf("Hello %s! The list is empty.", firstName(c)))
	}
	return c.Send(greet(c, v.Title), Markup(v))
}

func (h *Handlers) onReset(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "reset")
	if err := h.list.ResetAll(ctx); err != nil {
		return h.unavailable(c, err)
	}
	return c.Send(TextResetDone, h.keyboard)
}

// onAction handles every inline button. Unknown slots, malformed payloads
// and pages outside the list leave the message as it is.
func (h *Handlers) onAction(c tele.Context) error {
	key, payload := callbacks.ParseCallbackData(c.Callback())
	ctx := tghelpers.WithHandler(c, "callback."+key)
	a, err := shoplist.ParseAction(key, payload)
	if err != nil {
		logger.LogEvent(ctx, nil, slog.LevelDebug, "list.action",
			slog.String("status", "skip"),
			slog.String("cause", "bad_payload"),
			slog.String("cb_data", logger.SanitizeLimit(payload, 64)),
		)
		return nil
	}

	switch a.Kind {
	case shoplist.ActionActivate, shoplist.ActionDeactivate:
		name, ok := h.list.NameForSlot(a.Slot)
		if !ok {
			return nil
		}
		if !h.toggle(ctx, a.Kind, name) {
			return nil
		}
		if a.View == shoplist.ViewActive {
			return edit(c, h.list.ActiveView())
		}
	}

	v, ok := h.list.FullView(a.Page)
	if !ok {
		return nil
	}
	return edit(c, v)
}

func (h *Handlers) toggle(ctx context.Context, kind shoplist.ActionKind, name string) bool {
	if kind == shoplist.ActionActivate {
		return h.list.Activate(ctx, name)
	}
	return h.list.Deactivate(ctx, name)
}

// OnLimited answers a throttled button press so the client stops waiting.
// Throttled text messages are dropped silently.
func (h *Handlers) OnLimited(c tele.Context) error {
	if c.Callback() != nil {
		return callbacks.Answer(c, TextSlowDown)
	}
	return nil
}

func (h *Handlers) onDenied(c tele.Context) error {
	if c.Callback() != nil {
		return callbacks.Answer(c, TextDenied)
	}
	return c.Send(TextDenied)
}

// unavailable tells the user the read failed and hands err to the router summary.
func (h *Handlers) unavailable(c tele.Context, err error) error {
	if sendErr := c.Send(TextUnavailable); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return err
}

// edit replaces the pressed message with v. Telegram rejects identical
// content, which is not a failure here.
func edit(c tele.Context, v shoplist.View) error {
	err := c.Edit(v.Title, Markup(v))
	if errors.Is(err, tele.ErrMessageNotModified) {
		return nil
	}
	return err
}

func greet(c tele.Context, title string) string {
	return fmt.Sprintf("Hello %s! %s:", firstName(c), title)
}

func firstName(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return u.FirstName
	}
	return ""
}
