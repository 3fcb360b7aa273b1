package state

import "time"

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// MessageType distinguishes text from image messages. An empty value
// means text; only image messages carry an explicit type on the wire.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeImage MessageType = "image"
)

// User is the authenticated identity. At most one user is active.
type User struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`
}

// Chatroom is a named conversation thread. IDs are unique within the
// collection; ordering is insertion order.
type Chatroom struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"createdAt"`
	LastMessage *string   `json:"lastMessage"`
}

// Message is a single chat entry. Content is plain text, or a data URI
// for image messages. Messages are immutable once appended.
type Message struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type,omitempty"`
}

// Kind returns the effective message type, treating absent as text.
func (m Message) Kind() MessageType {
	if m.Type == "" {
		return TypeText
	}
	return m.Type
}

// Session holds the login state.
type Session struct {
	User          *User
	Authenticated bool
}

// UI holds ephemeral interface state. Only DarkMode is persisted, under
// its own key, independent of the session.
type UI struct {
	DarkMode        bool
	ShowCreateModal bool
	SearchTerm      string
}

// State is the full application state managed by the Store.
type State struct {
	Session  Session
	Rooms    []Chatroom
	Current  *Chatroom
	Messages map[int64][]Message
	Typing   map[int64]bool
	UI       UI
}

// Snapshot is the persisted subset of State, used to seed the store at
// startup.
type Snapshot struct {
	User     *User
	Rooms    []Chatroom
	Messages map[int64][]Message
	DarkMode bool
}
