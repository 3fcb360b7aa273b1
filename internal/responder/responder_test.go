package responder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/state"
)

type nopNotifier struct{ msgs []string }

func (n *nopNotifier) Success(msg string) { n.msgs = append(n.msgs, msg) }

func testResponder(t *testing.T) (*Responder, *state.Store, *nopNotifier) {
	t.Helper()
	store := state.New(bus.New())
	n := &nopNotifier{}
	r := New(store, n, zap.NewNop())
	r.SetDelayBounds(time.Millisecond, 2*time.Millisecond)
	return r, store, n
}

func awaitTask(t *testing.T, task *Task) (*state.Message, error) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}
	return task.Result()
}

func TestReverseWords(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello world", "world hello"},
		{"one", "one"},
		{"a b c d", "d c b a"},
		{"  spaced   out  ", "out spaced"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReverseWords(tt.in), "input %q", tt.in)
	}
}

func TestSendAppendsUserMessageSynchronously(t *testing.T) {
	r, store, n := testResponder(t)
	// Park the reply far in the future so the pre-reply state is stable.
	r.SetDelayBounds(time.Hour, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	task, err := r.Send(ctx, 1, "hello world")
	require.NoError(t, err)

	// Before the reply lands: user message appended, toast shown,
	// typing raised.
	msgs := store.Snapshot().Messages[1]
	require.Len(t, msgs, 1)
	assert.Equal(t, state.SenderUser, msgs[0].Sender)
	assert.Equal(t, "hello world", msgs[0].Content)
	assert.Equal(t, []string{"Message sent!"}, n.msgs)
	assert.True(t, store.Typing(1))

	cancel()
	_, _ = awaitTask(t, task)
}

func TestReplyEndsWithReversedWords(t *testing.T) {
	r, store, _ := testResponder(t)

	task, err := r.Send(context.Background(), 1, "hello world")
	require.NoError(t, err)

	reply, err := awaitTask(t, task)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, state.SenderAI, reply.Sender)
	assert.True(t, strings.HasSuffix(reply.Content, "world hello"),
		"reply %q should end with reversed words", reply.Content)

	msgs := store.Snapshot().Messages[1]
	require.Len(t, msgs, 2)
	assert.Equal(t, reply.ID, msgs[1].ID)
}

func TestTypingLifecycle(t *testing.T) {
	r, store, _ := testResponder(t)
	r.SetDelayBounds(time.Hour, 2*time.Hour)

	assert.False(t, store.Typing(1))

	ctx, cancel := context.WithCancel(context.Background())
	task, err := r.Send(ctx, 1, "ping")
	require.NoError(t, err)
	assert.True(t, store.Typing(1), "typing must be raised while the reply is pending")
	cancel()
	_, _ = awaitTask(t, task)

	// A completed send drops the flag again.
	r.SetDelayBounds(time.Millisecond, 2*time.Millisecond)
	task, err = r.Send(context.Background(), 1, "pong")
	require.NoError(t, err)
	_, err = awaitTask(t, task)
	require.NoError(t, err)
	assert.False(t, store.Typing(1), "typing must drop after the reply lands")
}

func TestSendRejectsBlankText(t *testing.T) {
	r, store, n := testResponder(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := r.Send(context.Background(), 1, text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, store.Snapshot().Messages[1])
	assert.Empty(t, n.msgs)
}

func TestCancelledSendLeavesNoReply(t *testing.T) {
	r, store, _ := testResponder(t)
	r.SetDelayBounds(time.Hour, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	task, err := r.Send(ctx, 1, "never answered")
	require.NoError(t, err)
	cancel()

	reply, err := awaitTask(t, task)
	assert.Nil(t, reply)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.Typing(1))
	assert.Len(t, store.Snapshot().Messages[1], 1, "only the user message should remain")
}

func TestConcurrentSendsAcrossRooms(t *testing.T) {
	r, store, _ := testResponder(t)

	t1, err := r.Send(context.Background(), 1, "room one")
	require.NoError(t, err)
	t2, err := r.Send(context.Background(), 2, "room two")
	require.NoError(t, err)

	_, err = awaitTask(t, t1)
	require.NoError(t, err)
	_, err = awaitTask(t, t2)
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Len(t, snap.Messages[1], 2)
	assert.Len(t, snap.Messages[2], 2)
	assert.True(t, strings.HasSuffix(snap.Messages[1][1].Content, "one room"))
	assert.True(t, strings.HasSuffix(snap.Messages[2][1].Content, "two room"))
	assert.False(t, store.Typing(1))
	assert.False(t, store.Typing(2))
}
