package shoplist

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind names what a button does.
type ActionKind string

const (
	ActionActivate   ActionKind = "activate"
	ActionDeactivate ActionKind = "deactivate"
	ActionPrevPage   ActionKind = "show_previous"
	ActionNextPage   ActionKind = "show_next"
)

// ViewKind names the view a button belongs to.
type ViewKind string

const (
	ViewActive ViewKind = "active_list"
	ViewFull   ViewKind = "full_list"
)

// Toggle operation names reported to observers.
const (
	OpActivate   = "activate"
	OpDeactivate = "deactivate"
)

const payloadSep = "|"

// Action is the opaque token attached to a row button.
// For toggles Page is the page the view was rendered at; for navigation it is
// the target page start.
type Action struct {
	Kind ActionKind
	View ViewKind
	Slot int
	Page int
}

// Unique returns the callback key of the action.
func (a Action) Unique() string { return string(a.Kind) }

// Payload encodes view, slot and page as "view|slot|page".
func (a Action) Payload() string {
	return strings.Join([]string{
		string(a.View),
		strconv.Itoa(a.Slot),
		strconv.Itoa(a.Page),
	}, payloadSep)
}

// ParseAction decodes a callback key and payload produced by Unique and Payload.
func ParseAction(unique, payload string) (Action, error) {
	kind := ActionKind(strings.TrimSpace(unique))
	switch kind {
	case ActionActivate, ActionDeactivate, ActionPrevPage, ActionNextPage:
	default:
		return Action{}, fmt.Errorf("shoplist: unknown action %q", unique)
	}

	parts := strings.Split(payload, payloadSep)
	if len(parts) != 3 {
		return Action{}, fmt.Errorf("shoplist: malformed payload %q", payload)
	}
	view := ViewKind(parts[0])
	if view != ViewActive && view != ViewFull {
		return Action{}, fmt.Errorf("shoplist: unknown view %q", parts[0])
	}
	slot, err := strconv.Atoi(parts[1])
	if err != nil {
		return Action{}, fmt.Errorf("shoplist: bad slot in %q: %w", payload, err)
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return Action{}, fmt.Errorf("shoplist: bad page in %q: %w", payload, err)
	}
	return Action{Kind: kind, View: view, Slot: slot, Page: page}, nil
}
