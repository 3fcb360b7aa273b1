package state

import (
	"strings"
	"sync"
	"time"

	"github.com/mfigueira/echochat/internal/bus"
)

// Store is the single state container. Every mutation runs to completion
// under the lock (no interleaving inside a transition) and is announced
// on the bus afterwards; persistence subscribes there rather than being
// wired into UI code.
type Store struct {
	mu     sync.RWMutex
	state  State
	bus    *bus.Bus
	now    func() time.Time
	lastID int64
}

// New creates an empty store publishing change events on b.
func New(b *bus.Bus) *Store {
	return &Store{
		state: State{
			Messages: make(map[int64][]Message),
			Typing:   make(map[int64]bool),
		},
		bus: b,
		now: time.Now,
	}
}

// SetClock overrides the wall clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Seed installs persisted state at startup. It does not publish events;
// nothing has changed, the store is only catching up with disk.
func (s *Store) Seed(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.User != nil {
		s.state.Session = Session{User: snap.User, Authenticated: true}
		if snap.User.ID > s.lastID {
			s.lastID = snap.User.ID
		}
	}
	s.state.Rooms = snap.Rooms
	for _, r := range snap.Rooms {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	if snap.Messages != nil {
		s.state.Messages = snap.Messages
		for _, msgs := range snap.Messages {
			for _, m := range msgs {
				if m.ID > s.lastID {
					s.lastID = m.ID
				}
			}
		}
	}
	s.state.UI.DarkMode = snap.DarkMode
}

// Snapshot returns a read-consistent copy of the current state. Slices
// and maps are copy-on-write by the transitions, so sharing them with
// callers is safe.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AllocID issues a unique id. Ids are wall-clock milliseconds with a
// monotonic guard: two allocations in the same millisecond still differ.
func (s *Store) AllocID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocID()
}

func (s *Store) allocID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Login marks the user as the authenticated identity.
func (s *Store) Login(u User) {
	s.mu.Lock()
	s.state.Session = Session{User: &u, Authenticated: true}
	s.mu.Unlock()
	s.bus.Emit(bus.KindSessionChanged, u)
}

// Logout wipes the session, all rooms and all message logs, returning
// the store to its anonymous initial state. Persisted keys are cleared
// by the persistence subscriber. The dark mode flag is left alone; the
// theme preference belongs to the terminal, not the login.
func (s *Store) Logout() {
	s.mu.Lock()
	dark := s.state.UI.DarkMode
	s.state = State{
		Messages: make(map[int64][]Message),
		Typing:   make(map[int64]bool),
	}
	s.state.UI.DarkMode = dark
	s.mu.Unlock()
	s.bus.Emit(bus.KindSessionCleared, nil)
}

// CreateRoom allocates and appends a new chatroom. A blank title is
// rejected and leaves the collection untouched. On success the create
// modal is closed.
func (s *Store) CreateRoom(title string) (Chatroom, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Chatroom{}, ErrEmptyTitle
	}
	s.mu.Lock()
	room := Chatroom{
		ID:        s.allocID(),
		Title:     title,
		CreatedAt: s.now(),
	}
	s.state.Rooms = addRoom(s.state.Rooms, room)
	s.state.UI.ShowCreateModal = false
	s.mu.Unlock()
	s.bus.Emit(bus.KindRoomsChanged, room.ID)
	s.bus.Emit(bus.KindModalChanged, false)
	return room, nil
}

// DeleteRoom removes a chatroom. Deleting an absent id is a no-op. The
// room's message log is intentionally left behind (weak reference,
// tolerated by design).
func (s *Store) DeleteRoom(id int64) {
	s.mu.Lock()
	s.state.Rooms = removeRoom(s.state.Rooms, id)
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	s.mu.Unlock()
	s.bus.Emit(bus.KindRoomsChanged, id)
}

// SelectRoom sets the current chatroom pointer; nil returns to the
// dashboard.
func (s *Store) SelectRoom(r *Chatroom) {
	s.mu.Lock()
	s.state.Current = r
	s.mu.Unlock()
	s.bus.Emit(bus.KindRoomsSelected, r)
}

// ReplaceRooms bulk-sets the chatroom collection.
func (s *Store) ReplaceRooms(rooms []Chatroom) {
	s.mu.Lock()
	s.state.Rooms = rooms
	s.mu.Unlock()
	s.bus.Emit(bus.KindRoomsChanged, int64(0))
}

// SetMessages replaces the whole log for a room.
func (s *Store) SetMessages(roomID int64, msgs []Message) {
	s.mu.Lock()
	s.state.Messages = setMessages(s.state.Messages, roomID, msgs)
	s.mu.Unlock()
	s.bus.Emit(bus.KindMessagesChanged, roomID)
}

// AppendMessage appends m to the room's log, creating it lazily, and
// refreshes the room's last-message preview.
func (s *Store) AppendMessage(roomID int64, m Message) {
	s.mu.Lock()
	s.state.Messages = appendMessage(s.state.Messages, roomID, m)
	s.state.Rooms = setLastMessage(s.state.Rooms, roomID, preview(m))
	s.mu.Unlock()
	s.bus.Emit(bus.KindMessagesChanged, roomID)
	s.bus.Emit(bus.KindRoomsChanged, roomID)
}

// SetTyping flips the typing indicator for a room.
func (s *Store) SetTyping(roomID int64, on bool) {
	s.mu.Lock()
	s.state.Typing = setTyping(s.state.Typing, roomID, on)
	s.mu.Unlock()
	s.bus.Emit(bus.KindMessagesTyping, roomID)
}

// Typing reports whether a reply is pending for the room.
func (s *Store) Typing(roomID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Typing[roomID]
}

// SetDarkMode flips the theme flag.
func (s *Store) SetDarkMode(on bool) {
	s.mu.Lock()
	s.state.UI.DarkMode = on
	s.mu.Unlock()
	s.bus.Emit(bus.KindThemeChanged, on)
}

// SetSearchTerm updates the dashboard filter term.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	s.state.UI.SearchTerm = term
	s.mu.Unlock()
	s.bus.Emit(bus.KindSearchChanged, term)
}

// SetShowCreateModal toggles the create-chatroom modal flag.
func (s *Store) SetShowCreateModal(show bool) {
	s.mu.Lock()
	s.state.UI.ShowCreateModal = show
	s.mu.Unlock()
	s.bus.Emit(bus.KindModalChanged, show)
}

// Now returns the store's current wall-clock time.
func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}
