// Package shoplist holds the in-memory state of the shared buying list and
// renders it into chat-agnostic views.
//
// A Registry is refreshed from a Source before every list display. Refresh
// preserves the live active flag of items that survive, starts new items at
// their default and drops items the source no longer reports. Slot ids are
// positions in the current order and change whenever the order does.
package shoplist
