package state

import (
	"errors"
	"strings"
)

// ErrEmptyTitle rejects chatroom creation with a blank title.
var ErrEmptyTitle = errors.New("chatroom title must not be empty")

// addRoom appends a room, preserving insertion order.
func addRoom(rooms []Chatroom, r Chatroom) []Chatroom {
	out := make([]Chatroom, len(rooms), len(rooms)+1)
	copy(out, rooms)
	return append(out, r)
}

// removeRoom drops the room with the given id. Removing an absent id is
// a no-op; the remaining order is unchanged.
func removeRoom(rooms []Chatroom, id int64) []Chatroom {
	out := make([]Chatroom, 0, len(rooms))
	for _, r := range rooms {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// setLastMessage returns the collection with the room's preview updated.
func setLastMessage(rooms []Chatroom, id int64, preview string) []Chatroom {
	out := make([]Chatroom, len(rooms))
	copy(out, rooms)
	for i := range out {
		if out[i].ID == id {
			p := preview
			out[i].LastMessage = &p
			break
		}
	}
	return out
}

// FilterRooms returns the rooms whose title contains term,
// case-insensitively. An empty term matches everything. This is a
// derived read, not stored state.
func FilterRooms(rooms []Chatroom, term string) []Chatroom {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rooms
	}
	var out []Chatroom
	for _, r := range rooms {
		if strings.Contains(strings.ToLower(r.Title), term) {
			out = append(out, r)
		}
	}
	return out
}
