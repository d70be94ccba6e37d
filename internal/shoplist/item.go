package shoplist

// Item is a single entry of the shared list.
type Item struct {
	name   string
	def    bool
	active bool
}

func newItem(name string, def bool) *Item {
	return &Item{name: name, def: def, active: def}
}

// Name returns the item key.
func (i *Item) Name() string { return i.name }

// Default reports the state the item resets to.
func (i *Item) Default() bool { return i.def }

// IsActive reports whether the item currently needs to be bought.
func (i *Item) IsActive() bool { return i.active }

// Activate marks the item as needed.
func (i *Item) Activate() { i.active = true }

// Deactivate marks the item as bought.
func (i *Item) Deactivate() { i.active = false }

// ResetToDefault restores the state from the source default column.
func (i *Item) ResetToDefault() { i.active = i.def }

// ItemState is a read-only copy of an item together with its current slot.
type ItemState struct {
	Name    string
	Default bool
	Active  bool
	Slot    int
}
