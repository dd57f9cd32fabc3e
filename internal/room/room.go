package room

import (
	"log/slog"
	"sync"
)

// Conn is one live member connection of a room. Implementations must make
// Send safe to call concurrently; a returned error marks the connection dead.
type Conn interface {
	ID() string
	Send(payload []byte) error
}

// Room owns the set of currently connected members for one named chat room.
// It is reachable only through its own operations; there is no global
// connection registry.
type Room struct {
	name    string
	mu      sync.RWMutex
	members map[string]Conn
}

// NewRoom creates an empty room with the given name.
func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		members: make(map[string]Conn),
	}
}

// Name returns the room's name.
func (r *Room) Name() string {
	return r.name
}

// Join registers a connection as a broadcast target.
func (r *Room) Join(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[c.ID()] = c
	slog.Info("Member joined room", "room", r.name, "clientID", c.ID(), "members", len(r.members))
}

// Leave deregisters a connection. It is idempotent.
func (r *Room) Leave(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[clientID]; !ok {
		return
	}
	delete(r.members, clientID)
	slog.Info("Member left room", "room", r.name, "clientID", clientID, "members", len(r.members))
}

// MemberCount returns the number of currently connected members.
func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Broadcast sends a payload to every member, best-effort. A failed send to
// one member is swallowed, the member is evicted, and delivery to the others
// proceeds. The member set is snapshotted so join/leave during iteration is
// safe.
func (r *Room) Broadcast(payload []byte) {
	r.mu.RLock()
	snapshot := make([]Conn, 0, len(r.members))
	for _, c := range r.members {
		snapshot = append(snapshot, c)
	}
	r.mu.RUnlock()

	for _, c := range snapshot {
		if err := c.Send(payload); err != nil {
			slog.Warn("Dropping dead room member", "room", r.name, "clientID", c.ID(), "error", err)
			r.Leave(c.ID())
		}
	}
}
