package room

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/chatrelay/internal/history"
	"github.com/nfrund/chatrelay/internal/pubsub"
)

// Manager is the lookup-by-name directory of room sessions. Sessions are
// created lazily on first reference and kept for the process lifetime.
type Manager struct {
	store       history.Store
	relay       *Relay
	defaultRoom string

	mu       sync.Mutex
	sessions map[string]*Session
	ctx      context.Context
}

// NewManager creates a manager that backs every session with the given store
// and relay. Rooms named "" resolve to defaultRoom.
func NewManager(store history.Store, relay *Relay, defaultRoom string) *Manager {
	return &Manager{
		store:       store,
		relay:       relay,
		defaultRoom: defaultRoom,
		sessions:    make(map[string]*Session),
	}
}

// Start wires the manager to the inbound bus. Frames published on the
// inbound topic are routed to their room's session in publish order.
func (m *Manager) Start(ctx context.Context, sub pubsub.Subscriber) error {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	return sub.Subscribe(ctx, pubsub.TopicInbound, m.handleInbound)
}

func (m *Manager) handleInbound(ctx context.Context, msg pubsub.Message) error {
	m.Get(msg.Room).Submit(msg.ClientID, string(msg.Payload))
	return nil
}

// Get returns the session for a room name, creating and starting it on first
// reference. An empty name resolves to the default room.
func (m *Manager) Get(name string) *Session {
	if name == "" {
		name = m.defaultRoom
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[name]; ok {
		return s
	}

	s := NewSession(name, m.store, m.relay)
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.Start(ctx)
	m.sessions[name] = s
	slog.Info("Created room session", "room", name, "rooms", len(m.sessions))
	return s
}
