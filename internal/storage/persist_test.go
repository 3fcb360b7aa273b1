package storage

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/state"
)

// testPersister builds a persister whose handleEvent is driven directly,
// avoiding the async subscription goroutine in tests.
func testPersister(t *testing.T) (*Persister, *state.Store) {
	t.Helper()
	db := testDB(t)
	b := bus.New()
	store := state.New(b)
	return NewPersister(db, store, b, zap.NewNop()), store
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	p, store := testPersister(t)

	store.Login(state.User{ID: 100, Phone: "+911234567890"})
	room, err := store.CreateRoom("general")
	if err != nil {
		t.Fatal(err)
	}
	store.AppendMessage(room.ID, state.Message{ID: 200, Content: "hello", Sender: state.SenderUser})
	store.SetDarkMode(true)

	p.handleEvent(bus.Event{Kind: bus.KindSessionChanged})
	p.handleEvent(bus.Event{Kind: bus.KindRoomsChanged})
	p.handleEvent(bus.Event{Kind: bus.KindMessagesChanged})
	p.handleEvent(bus.Event{Kind: bus.KindThemeChanged})

	snap := p.Load()
	if snap.User == nil || snap.User.Phone != "+911234567890" {
		t.Fatalf("user = %+v, want phone +911234567890", snap.User)
	}
	if len(snap.Rooms) != 1 || snap.Rooms[0].Title != "general" {
		t.Fatalf("rooms = %+v, want one room titled general", snap.Rooms)
	}
	msgs := snap.Messages[room.ID]
	if len(msgs) != 1 || msgs[0].Content != "hello" {
		t.Fatalf("messages = %+v, want one hello message", msgs)
	}
	if !snap.DarkMode {
		t.Error("dark mode not restored")
	}
}

func TestSessionClearedWipesSessionButKeepsTheme(t *testing.T) {
	p, store := testPersister(t)

	store.Login(state.User{ID: 1, Phone: "+15550001111"})
	store.SetDarkMode(true)
	p.handleEvent(bus.Event{Kind: bus.KindSessionChanged})
	p.handleEvent(bus.Event{Kind: bus.KindThemeChanged})

	store.Logout()
	p.handleEvent(bus.Event{Kind: bus.KindSessionCleared})

	snap := p.Load()
	if snap.User != nil {
		t.Error("user survived wipe")
	}
	if len(snap.Rooms) != 0 || len(snap.Messages) != 0 {
		t.Error("collections survived wipe")
	}
	if !snap.DarkMode {
		t.Error("theme preference should outlive the wipe")
	}
}

func TestCorruptBlobsFailOpen(t *testing.T) {
	p, _ := testPersister(t)

	// Hand-corrupt every JSON key; startup must fall back to defaults.
	for _, key := range []string{KeyUser, KeyChatrooms, KeyMessages} {
		if err := p.db.Set(key, "{not json"); err != nil {
			t.Fatal(err)
		}
	}

	snap := p.Load()
	if snap.User != nil {
		t.Error("corrupt user blob should load as absent")
	}
	if snap.Rooms != nil {
		t.Error("corrupt chatrooms blob should load as empty")
	}
	if snap.Messages != nil {
		t.Error("corrupt messages blob should load as empty")
	}
}

func TestLoadSkipsMalformedRoomKeys(t *testing.T) {
	p, _ := testPersister(t)

	if err := p.db.Set(KeyMessages, `{"12":[{"id":1,"content":"ok","sender":"user","timestamp":"2025-01-01T00:00:00Z"}],"oops":[]}`); err != nil {
		t.Fatal(err)
	}

	snap := p.Load()
	if len(snap.Messages) != 1 {
		t.Fatalf("got %d rooms, want 1 (malformed key skipped)", len(snap.Messages))
	}
	if len(snap.Messages[12]) != 1 {
		t.Errorf("room 12 messages = %d, want 1", len(snap.Messages[12]))
	}
}

func TestThemeLiteral(t *testing.T) {
	p, store := testPersister(t)

	store.SetDarkMode(true)
	p.handleEvent(bus.Event{Kind: bus.KindThemeChanged})
	value, _, _ := p.db.Get(KeyTheme)
	if value != "dark" {
		t.Errorf("theme = %q, want dark", value)
	}

	store.SetDarkMode(false)
	p.handleEvent(bus.Event{Kind: bus.KindThemeChanged})
	value, _, _ = p.db.Get(KeyTheme)
	if value != "light" {
		t.Errorf("theme = %q, want light", value)
	}
}
