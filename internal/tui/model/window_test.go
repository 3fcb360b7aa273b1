package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/echochat/internal/state"
)

func messages(n int) []state.Message {
	msgs := make([]state.Message, n)
	for i := range msgs {
		msgs[i] = state.Message{ID: int64(i + 1)}
	}
	return msgs
}

func TestWindowPagesThroughHistory(t *testing.T) {
	msgs := messages(45)
	w := NewWindow(20)
	w.Reset()

	// Initial: the 20 most recent, chronological, more behind.
	visible := w.Slice(msgs)
	require.Len(t, visible, 20)
	assert.Equal(t, int64(26), visible[0].ID)
	assert.Equal(t, int64(45), visible[19].ID)
	assert.True(t, w.HasMore(len(msgs)))

	// First load: 40 visible, still more.
	assert.True(t, w.LoadMore(len(msgs)))
	visible = w.Slice(msgs)
	require.Len(t, visible, 40)
	assert.Equal(t, int64(6), visible[0].ID)
	assert.True(t, w.HasMore(len(msgs)))

	// Second load: all 45, nothing left.
	assert.True(t, w.LoadMore(len(msgs)))
	visible = w.Slice(msgs)
	require.Len(t, visible, 45)
	assert.Equal(t, int64(1), visible[0].ID)
	assert.False(t, w.HasMore(len(msgs)))

	// Third load is a no-op.
	assert.False(t, w.LoadMore(len(msgs)))
	assert.Len(t, w.Slice(msgs), 45)
}

func TestWindowSmallRoom(t *testing.T) {
	msgs := messages(5)
	w := NewWindow(20)
	w.Reset()

	assert.Len(t, w.Slice(msgs), 5)
	assert.False(t, w.HasMore(len(msgs)))
	assert.False(t, w.LoadMore(len(msgs)))
}

func TestWindowStableAcrossAppends(t *testing.T) {
	msgs := messages(45)
	w := NewWindow(20)
	w.Reset()
	w.LoadMore(len(msgs)) // 40 revealed

	// New messages arrive at the tail; the window keeps tracking the
	// trailing count, so the newest stays visible without a reset.
	msgs = append(msgs, state.Message{ID: 46}, state.Message{ID: 47})
	visible := w.Slice(msgs)
	require.Len(t, visible, 40)
	assert.Equal(t, int64(47), visible[39].ID)
	assert.True(t, w.HasMore(len(msgs)))
}

func TestWindowResetOnRoomSwitch(t *testing.T) {
	w := NewWindow(20)
	w.Reset()
	w.LoadMore(100)
	w.LoadMore(100)
	assert.Equal(t, 60, w.Revealed())

	w.Reset()
	assert.Equal(t, 20, w.Revealed())
}

func TestWindowDefaultPageSize(t *testing.T) {
	w := NewWindow(0)
	w.Reset()
	assert.Equal(t, DefaultPageSize, w.Revealed())
}
