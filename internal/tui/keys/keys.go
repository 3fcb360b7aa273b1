package keys

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Binding ties a key event to a handler.
type Binding struct {
	Key         tcell.Key
	Rune        rune
	Label       string
	Description string
	Handler     func()
	Hidden      bool
}

// Matches reports whether the event triggers this binding.
func (b *Binding) Matches(ev *tcell.EventKey) bool {
	if b.Key != tcell.KeyRune {
		return ev.Key() == b.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == b.Rune
}

// Hint renders the binding for the status bar, e.g. "<d> toggle theme".
func (b *Binding) Hint() string {
	return fmt.Sprintf("<%s> %s", b.Label, b.Description)
}

// Registry holds bindings per view scope plus a global scope.
// Bindings keep registration order so hints render deterministically.
type Registry struct {
	global []*Binding
	views  map[string][]*Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string][]*Binding)}
}

// Global registers a binding active in every view.
func (r *Registry) Global(b *Binding) {
	r.global = append(r.global, b)
}

// View registers a binding active only in the named view.
func (r *Registry) View(view string, b *Binding) {
	r.views[view] = append(r.views[view], b)
}

// Hints returns the visible hints for a view, view bindings first.
func (r *Registry) Hints(view string) []string {
	var hints []string
	for _, b := range r.views[view] {
		if !b.Hidden {
			hints = append(hints, b.Hint())
		}
	}
	for _, b := range r.global {
		if !b.Hidden {
			hints = append(hints, b.Hint())
		}
	}
	return hints
}

// Dispatch routes a key event, view bindings taking precedence.
// Returns true when a binding consumed the event.
func (r *Registry) Dispatch(view string, ev *tcell.EventKey) bool {
	for _, b := range r.views[view] {
		if b.Matches(ev) {
			b.Handler()
			return true
		}
	}
	for _, b := range r.global {
		if b.Matches(ev) {
			b.Handler()
			return true
		}
	}
	return false
}
