package shoplist

import "fmt"

const (
	// ActiveTitle is the title of the active-only view.
	ActiveTitle = "To buy list"

	glyphActive   = "\U0001F7E2"
	glyphInactive = "\U0001F534"

	prevLabel = "<<="
	nextLabel = "=>>"
)

// Row is one keyboard row: a label and the actions offered on it.
// Item rows carry one action; the navigation row carries two.
type Row struct {
	Label   string
	Actions []Action
}

// View is a rendered list ready for the chat adapter.
type View struct {
	Title string
	Rows  []Row
}

// Label renders the state glyph followed by the item name.
func Label(name string, active bool) string {
	if active {
		return glyphActive + " " + name
	}
	return glyphInactive + " " + name
}

// NavLabel returns the button text for a navigation action.
func NavLabel(kind ActionKind) string {
	if kind == ActionPrevPage {
		return prevLabel
	}
	return nextLabel
}

// ActiveView lists every active item in slot order. Each row deactivates its
// item and returns to the active view.
func (r *Registry) ActiveView() View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := View{Title: ActiveTitle}
	for slot, it := range r.items {
		if !it.active {
			continue
		}
		v.Rows = append(v.Rows, Row{
			Label:   Label(it.name, true),
			Actions: []Action{{Kind: ActionDeactivate, View: ViewActive, Slot: slot}},
		})
	}
	return v
}

// FullView renders the page window starting at pageStart followed by a
// navigation row. It reports false when pageStart is outside [0, Len()).
func (r *Registry) FullView(pageStart int) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.items)
	if pageStart < 0 || pageStart >= total {
		return View{}, false
	}
	end := min(pageStart+r.pageSize, total)

	v := View{
		Title: fmt.Sprintf("Full list %d:%d", pageStart, end),
		Rows:  make([]Row, 0, end-pageStart+1),
	}
	for slot := pageStart; slot < end; slot++ {
		it := r.items[slot]
		kind := ActionActivate
		if it.active {
			kind = ActionDeactivate
		}
		v.Rows = append(v.Rows, Row{
			Label:   Label(it.name, it.active),
			Actions: []Action{{Kind: kind, View: ViewFull, Slot: slot, Page: pageStart}},
		})
	}
	v.Rows = append(v.Rows, Row{
		Actions: []Action{
			{Kind: ActionPrevPage, View: ViewFull, Slot: -1, Page: pageStart - r.pageSize},
			{Kind: ActionNextPage, View: ViewFull, Slot: -1, Page: pageStart + r.pageSize},
		},
	})
	return v, true
}
