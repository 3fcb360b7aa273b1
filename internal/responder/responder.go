// Package responder simulates the assistant side of a conversation: one
// reply per user message, after a randomized delay, with a typing
// indicator held for the duration.
package responder

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/state"
)

// ErrEmptyMessage rejects a send whose text is blank after trimming.
var ErrEmptyMessage = errors.New("message must not be empty")

// Canned reply openers; the reversed user text is appended to whichever
// one is picked.
var replies = []string{
	"That's an interesting question! Let me think...",
	"I understand. Here's what I think...",
	"Based on my knowledge...",
	"Let me help you with that...",
}

// Delay bounds for the simulated model latency: uniform in [min, max).
const (
	minDelay = 1000 * time.Millisecond
	maxDelay = 3000 * time.Millisecond
)

// Notifier surfaces user-facing notifications. The TUI flash bar
// satisfies it.
type Notifier interface {
	Success(msg string)
}

// Task is one in-flight reply. It owns the typing flag for its room and
// exposes its completion for callers that want to await or observe it.
type Task struct {
	ID     uuid.UUID
	RoomID int64

	mu    sync.Mutex
	reply *state.Message
	err   error
	done  chan struct{}
}

// Done is closed when the task has finished, successfully or not.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the assistant message, or the error that ended the
// task. Only meaningful after Done is closed.
func (t *Task) Result() (*state.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reply, t.err
}

func (t *Task) finish(reply *state.Message, err error) {
	t.mu.Lock()
	t.reply = reply
	t.err = err
	t.mu.Unlock()
	close(t.done)
}

// Responder spawns reply tasks against the state store. Multiple sends
// may be in flight concurrently; each owns its own room's typing flag.
type Responder struct {
	store    *state.Store
	notifier Notifier
	logger   *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	min, max time.Duration
}

// New creates a responder with the production delay bounds.
func New(store *state.Store, notifier Notifier, logger *zap.Logger) *Responder {
	return &Responder{
		store:    store,
		notifier: notifier,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		min:      minDelay,
		max:      maxDelay,
	}
}

// SetDelayBounds overrides the latency window. Intended for tests.
func (r *Responder) SetDelayBounds(min, max time.Duration) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	r.min, r.max = min, max
}

// Send appends the user's message to the room, announces it, raises the
// room's typing flag and spawns the reply task. The user-visible steps
// (append, toast, typing on) complete synchronously before Send returns.
func (r *Responder) Send(ctx context.Context, roomID int64, text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	userMsg := state.Message{
		ID:        r.store.AllocID(),
		Content:   text,
		Sender:    state.SenderUser,
		Timestamp: r.store.Now(),
	}
	r.store.AppendMessage(roomID, userMsg)
	r.notifier.Success("Message sent!")
	r.store.SetTyping(roomID, true)

	task := &Task{
		ID:     uuid.New(),
		RoomID: roomID,
		done:   make(chan struct{}),
	}
	go r.await(ctx, task, text)
	return task, nil
}

func (r *Responder) await(ctx context.Context, task *Task, text string) {
	timer := time.NewTimer(r.delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		// Cancelled mid-delay: no reply lands, the indicator clears.
		r.store.SetTyping(task.RoomID, false)
		r.logger.Info("reply cancelled",
			zap.String("task", task.ID.String()),
			zap.Int64("room", task.RoomID))
		task.finish(nil, ctx.Err())
	case <-timer.C:
		reply := state.Message{
			ID:        r.store.AllocID(),
			Content:   r.compose(text),
			Sender:    state.SenderAI,
			Timestamp: r.store.Now(),
		}
		r.store.AppendMessage(task.RoomID, reply)
		r.store.SetTyping(task.RoomID, false)
		r.logger.Info("reply sent",
			zap.String("task", task.ID.String()),
			zap.Int64("room", task.RoomID))
		task.finish(&reply, nil)
	}
}

// compose builds the assistant text: a canned opener plus the user's
// words in reverse order, a deterministic stand-in for a real model.
func (r *Responder) compose(text string) string {
	return r.pick() + " " + ReverseWords(text)
}

func (r *Responder) pick() string {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return replies[r.rng.Intn(len(replies))]
}

func (r *Responder) delay() time.Duration {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	if r.max <= r.min {
		return r.min
	}
	return r.min + time.Duration(r.rng.Int63n(int64(r.max-r.min)))
}

// ReverseWords returns the words of s in reverse order, collapsing runs
// of whitespace.
func ReverseWords(s string) string {
	words := strings.Fields(s)
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return strings.Join(words, " ")
}
