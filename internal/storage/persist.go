package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/state"
)

// Theme literals stored under KeyTheme.
const (
	themeDark  = "dark"
	themeLight = "light"
)

// Persister mirrors the store's persisted collections to the database.
// It subscribes to state-change events on the bus so that persistence
// stays a side-effecting observer, never inlined in UI code. Writes are
// synchronous and best-effort; they are not transactional across keys.
type Persister struct {
	db     *DB
	store  *state.Store
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewPersister creates a persister for the given store and database.
func NewPersister(db *DB, store *state.Store, b *bus.Bus, logger *zap.Logger) *Persister {
	return &Persister{
		db:     db,
		store:  store,
		bus:    b,
		logger: logger,
	}
}

// SetStore attaches the store the persister snapshots from. The store is
// itself seeded from Load, so it is attached after construction. Must be
// called before Start.
func (p *Persister) SetStore(store *state.Store) {
	p.store = store
}

// Start subscribes to state-change events and mirrors them to disk until
// the context is cancelled or Stop is called.
func (p *Persister) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	ch, unsub := p.bus.Subscribe("", 256)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				p.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the persister.
func (p *Persister) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Persister) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindSessionCleared:
		if err := p.db.Clear(); err != nil {
			p.logger.Error("failed to wipe persisted state", zap.Error(err))
		}
		// The theme preference is independent of the session and
		// outlives the wipe.
		p.persistTheme()
	case bus.KindSessionChanged:
		p.persistUser()
	case bus.KindRoomsChanged:
		p.persistRooms()
	case bus.KindMessagesChanged:
		p.persistMessages()
	case bus.KindThemeChanged:
		p.persistTheme()
	}
}

func (p *Persister) persistUser() {
	snap := p.store.Snapshot()
	if snap.Session.User == nil {
		if err := p.db.Delete(KeyUser); err != nil {
			p.logger.Error("failed to delete user key", zap.Error(err))
		}
		return
	}
	p.setJSON(KeyUser, snap.Session.User)
}

func (p *Persister) persistRooms() {
	snap := p.store.Snapshot()
	rooms := snap.Rooms
	if rooms == nil {
		rooms = []state.Chatroom{}
	}
	p.setJSON(KeyChatrooms, rooms)
}

func (p *Persister) persistMessages() {
	snap := p.store.Snapshot()
	// JSON objects are string-keyed; room ids are encoded in decimal.
	byRoom := make(map[string][]state.Message, len(snap.Messages))
	for id, msgs := range snap.Messages {
		byRoom[strconv.FormatInt(id, 10)] = msgs
	}
	p.setJSON(KeyMessages, byRoom)
}

func (p *Persister) persistTheme() {
	theme := themeLight
	if p.store.Snapshot().UI.DarkMode {
		theme = themeDark
	}
	if err := p.db.Set(KeyTheme, theme); err != nil {
		p.logger.Error("failed to persist theme", zap.Error(err))
	}
}

func (p *Persister) setJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("failed to encode state", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.db.Set(key, string(data)); err != nil {
		p.logger.Error("failed to persist state", zap.String("key", key), zap.Error(err))
	}
}

// Load reads the persisted snapshot used to seed the store at startup.
// A corrupt blob is treated as absent: startup falls open to the empty
// default rather than failing.
func (p *Persister) Load() state.Snapshot {
	var snap state.Snapshot

	if raw, ok, err := p.db.Get(KeyUser); err == nil && ok {
		var u state.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			p.logger.Warn("corrupt user blob, starting anonymous", zap.Error(err))
		} else {
			snap.User = &u
		}
	}

	if raw, ok, err := p.db.Get(KeyChatrooms); err == nil && ok {
		var rooms []state.Chatroom
		if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
			p.logger.Warn("corrupt chatrooms blob, starting empty", zap.Error(err))
		} else {
			snap.Rooms = rooms
		}
	}

	if raw, ok, err := p.db.Get(KeyMessages); err == nil && ok {
		var byRoom map[string][]state.Message
		if err := json.Unmarshal([]byte(raw), &byRoom); err != nil {
			p.logger.Warn("corrupt messages blob, starting empty", zap.Error(err))
		} else {
			snap.Messages = make(map[int64][]state.Message, len(byRoom))
			for key, msgs := range byRoom {
				id, err := strconv.ParseInt(key, 10, 64)
				if err != nil {
					p.logger.Warn("skipping malformed room key", zap.String("key", key))
					continue
				}
				snap.Messages[id] = msgs
			}
		}
	}

	if raw, ok, err := p.db.Get(KeyTheme); err == nil && ok {
		snap.DarkMode = raw == themeDark
	}

	return snap
}
