package ui

import (
	"sync"
	"time"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashSuccess
	FlashErr
)

// DefaultFlashTTL is how long a toast stays up without being replaced
// or closed.
const DefaultFlashTTL = 3 * time.Second

// FlashMessage is a single toast.
type FlashMessage struct {
	Text  string
	Level FlashLevel
}

// Flash is a single-slot toast: a new message replaces the current one
// outright and re-arms the dismiss timer. Each message gets its own
// generation, so a timer left over from a replaced toast can never
// clear a newer one.
type Flash struct {
	mu      sync.Mutex
	current *FlashMessage
	gen     uint64
	timer   *time.Timer
	ttl     time.Duration
	watchCh chan struct{}
}

// NewFlash creates a flash slot. ttl <= 0 selects the default.
func NewFlash(ttl time.Duration) *Flash {
	if ttl <= 0 {
		ttl = DefaultFlashTTL
	}
	return &Flash{
		ttl:     ttl,
		watchCh: make(chan struct{}, 1),
	}
}

// Info shows an info-level toast.
func (f *Flash) Info(msg string) { f.set(msg, FlashInfo) }

// Success shows a success-level toast.
func (f *Flash) Success(msg string) { f.set(msg, FlashSuccess) }

// Error shows an error-level toast.
func (f *Flash) Error(msg string) { f.set(msg, FlashErr) }

func (f *Flash) set(text string, level FlashLevel) {
	f.mu.Lock()
	f.current = &FlashMessage{Text: text, Level: level}
	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.ttl, func() { f.expire(gen) })
	f.mu.Unlock()
	f.notify()
}

// expire clears the slot only if it still holds the toast the timer was
// armed for.
func (f *Flash) expire(gen uint64) {
	f.mu.Lock()
	if f.gen == gen {
		f.current = nil
	}
	f.mu.Unlock()
	f.notify()
}

// Close dismisses the current toast immediately.
func (f *Flash) Close() {
	f.mu.Lock()
	f.gen++
	f.current = nil
	if f.timer != nil {
		f.timer.Stop()
	}
	f.mu.Unlock()
	f.notify()
}

// Current returns the active toast, or nil.
func (f *Flash) Current() *FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil
	}
	m := *f.current
	return &m
}

// Watch signals whenever the slot changes, so the UI can redraw.
func (f *Flash) Watch() <-chan struct{} {
	return f.watchCh
}

func (f *Flash) notify() {
	select {
	case f.watchCh <- struct{}{}:
	default:
	}
}
