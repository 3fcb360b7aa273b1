package bus

import "time"

// Event kinds published by the state store and the auth flow. Subscribers
// filter by prefix, e.g. "messages." catches every message event.
const (
	KindSessionChanged = "session.changed"
	KindSessionCleared = "session.cleared"

	KindRoomsChanged  = "rooms.changed"
	KindRoomsSelected = "rooms.selected"

	KindMessagesChanged = "messages.changed"
	KindMessagesTyping  = "messages.typing"

	KindThemeChanged  = "ui.theme_changed"
	KindSearchChanged = "ui.search_changed"
	KindModalChanged  = "ui.modal_changed"

	KindAuthStepChanged = "auth.step_changed"
)

// Event is a state-change notification published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
