package state

// previewLen bounds the last-message preview shown on the dashboard.
const previewLen = 80

// appendMessage returns the message map with m appended to the room's
// ordered log, creating the log lazily. Existing slices are copied so
// snapshots held by readers never observe in-place growth.
func appendMessage(byRoom map[int64][]Message, roomID int64, m Message) map[int64][]Message {
	out := make(map[int64][]Message, len(byRoom)+1)
	for k, v := range byRoom {
		out[k] = v
	}
	cur := out[roomID]
	next := make([]Message, len(cur), len(cur)+1)
	copy(next, cur)
	out[roomID] = append(next, m)
	return out
}

// setMessages replaces the entire log for a room.
func setMessages(byRoom map[int64][]Message, roomID int64, msgs []Message) map[int64][]Message {
	out := make(map[int64][]Message, len(byRoom)+1)
	for k, v := range byRoom {
		out[k] = v
	}
	out[roomID] = msgs
	return out
}

// setTyping returns the typing map with the room's flag updated. Rooms
// that are not typing carry no entry.
func setTyping(typing map[int64]bool, roomID int64, on bool) map[int64]bool {
	out := make(map[int64]bool, len(typing)+1)
	for k, v := range typing {
		out[k] = v
	}
	if on {
		out[roomID] = true
	} else {
		delete(out, roomID)
	}
	return out
}

// preview renders a message as a dashboard preview line.
func preview(m Message) string {
	if m.Kind() == TypeImage {
		return "[image]"
	}
	if len(m.Content) > previewLen {
		return m.Content[:previewLen]
	}
	return m.Content
}
