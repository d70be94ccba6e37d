package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "buylist.counters"

// counters tracks what a handler sent back for one update.
type counters struct {
	messages atomic.Int32
	keyboard atomic.Bool
}

func (n *counters) add(opts []interface{}) {
	n.messages.Add(1)
	if withMarkup(opts) {
		n.keyboard.Store(true)
	}
}

func withMarkup(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		}
	}
	return false
}

// countingContext wraps the outgoing calls the list handlers use.
type countingContext struct {
	tele.Context
	n *counters
}

func (c countingContext) count(err error, opts []interface{}) error {
	if err == nil {
		c.n.add(opts)
	}
	return err
}

func (c countingContext) Send(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Send(what, opts...), opts)
}

func (c countingContext) Reply(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Reply(what, opts...), opts)
}

func (c countingContext) Edit(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Edit(what, opts...), opts)
}

func (c countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.EditOrSend(what, opts...), opts)
}

func (c countingContext) EditOrReply(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.EditOrReply(what, opts...), opts)
}

// MessageMetricsMiddleware counts sent and edited messages for the handler
// summary log and the Prometheus middleware.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &counters{}
		c.Set(countersKey, n)
		return next(countingContext{Context: c, n: n})
	}
}

// GetCounters returns the number of messages sent for this update and
// whether any carried a keyboard. Zero values when the middleware is absent.
func GetCounters(c tele.Context) (int, bool) {
	n, ok := c.Get(countersKey).(*counters)
	if !ok || n == nil {
		return 0, false
	}
	return int(n.messages.Load()), n.keyboard.Load()
}
