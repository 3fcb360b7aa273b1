// Package model holds view-side state that is pure logic: the message
// pagination window.
package model

import "github.com/mfigueira/echochat/internal/state"

// DefaultPageSize is how many messages each "load older" step reveals.
const DefaultPageSize = 20

// Window tracks which trailing slice of a room's message log is
// revealed. It counts from the newest end, so the window stays stable
// while new messages append at the tail: revealing 20 always means "the
// 20 most recent", however many arrive later.
type Window struct {
	pageSize int
	revealed int
}

// NewWindow creates a window with the given page size (or the default
// when size is not positive).
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Window{pageSize: size}
}

// Reset starts over for a freshly opened room: one page revealed.
func (w *Window) Reset() {
	w.revealed = w.pageSize
}

// HasMore reports whether older messages remain hidden given the room's
// total message count.
func (w *Window) HasMore(total int) bool {
	return w.revealed < total
}

// LoadMore reveals one more page of older messages. When nothing is
// hidden it is a no-op and reports false.
func (w *Window) LoadMore(total int) bool {
	if !w.HasMore(total) {
		return false
	}
	w.revealed += w.pageSize
	return true
}

// Revealed returns the current reveal count (may exceed the total).
func (w *Window) Revealed() int {
	return w.revealed
}

// Slice returns the visible tail of the log in chronological order.
func (w *Window) Slice(msgs []state.Message) []state.Message {
	start := len(msgs) - w.revealed
	if start < 0 {
		start = 0
	}
	return msgs[start:]
}
