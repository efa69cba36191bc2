// Package tui provides a Bubble Tea terminal UI for the TerraCore engine.
package tui

// History keeps a bounded command history per seat, so players sharing a
// terminal each recall their own commands.
type History struct {
	entries map[string][]string
	max     int
	seat    string
	cursor  int // -1 = not navigating, 0..len-1 = position in the seat's entries
}

// NewHistory creates a history holding at most max commands per seat.
func NewHistory(max int) *History {
	return &History{
		entries: map[string][]string{},
		max:     max,
		cursor:  -1,
	}
}

// Seat switches navigation to the given seat's entries.
func (h *History) Seat(id string) {
	if h.seat != id {
		h.seat = id
		h.cursor = -1
	}
}

// Push records a command for the current seat. Consecutive duplicates are
// skipped.
func (h *History) Push(cmd string) {
	list := h.entries[h.seat]
	if len(list) > 0 && list[len(list)-1] == cmd {
		return
	}
	list = append(list, cmd)
	if len(list) > h.max {
		list = list[1:]
	}
	h.entries[h.seat] = list
}

// Prev returns the previous (older) entry for the current seat.
func (h *History) Prev() (string, bool) {
	list := h.entries[h.seat]
	if len(list) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(list) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return list[h.cursor], true
}

// Next returns the next (newer) entry. It reports false when moving past
// the most recent entry, back to fresh input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	list := h.entries[h.seat]
	h.cursor++
	if h.cursor >= len(list) {
		h.cursor = -1
		return "", false
	}
	return list[h.cursor], true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
}
