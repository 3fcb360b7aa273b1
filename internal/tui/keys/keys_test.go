package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestViewBindingTakesPrecedence(t *testing.T) {
	r := NewRegistry()
	var fired string
	r.Global(&Binding{Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "quit", Handler: func() { fired = "global" }})
	r.View("chat", &Binding{Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "back", Handler: func() { fired = "view" }})

	ev := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	if !r.Dispatch("chat", ev) {
		t.Fatal("expected dispatch to consume event")
	}
	if fired != "view" {
		t.Fatalf("fired = %q, want view", fired)
	}
	fired = ""
	if !r.Dispatch("dashboard", ev) {
		t.Fatal("expected global binding to match")
	}
	if fired != "global" {
		t.Fatalf("fired = %q, want global", fired)
	}
}

func TestDispatchUnmatched(t *testing.T) {
	r := NewRegistry()
	r.Global(&Binding{Key: tcell.KeyCtrlC, Label: "C-c", Description: "quit", Handler: func() {}})
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	if r.Dispatch("any", ev) {
		t.Fatal("unexpected match")
	}
}

func TestHintsOrderAndHidden(t *testing.T) {
	r := NewRegistry()
	r.Global(&Binding{Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "quit", Handler: func() {}})
	r.Global(&Binding{Key: tcell.KeyEscape, Label: "esc", Description: "back", Handler: func() {}, Hidden: true})
	r.View("dash", &Binding{Key: tcell.KeyRune, Rune: 'n', Label: "n", Description: "new chat", Handler: func() {}})

	hints := r.Hints("dash")
	want := []string{"<n> new chat", "<q> quit"}
	if len(hints) != len(want) {
		t.Fatalf("hints = %v, want %v", hints, want)
	}
	for i := range want {
		if hints[i] != want[i] {
			t.Fatalf("hints[%d] = %q, want %q", i, hints[i], want[i])
		}
	}
}
