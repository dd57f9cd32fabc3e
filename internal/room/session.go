package room

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nfrund/chatrelay/internal/history"
)

// AskPrefix is the reserved in-band command that routes a message to the
// assistant. Matching is case-sensitive and requires the trailing space.
const AskPrefix = "/ask "

// systemErrorNotice is broadcast when a message could not be persisted. The
// message itself is still delivered live; the notice makes the gap in history
// observable instead of silent.
const systemErrorNotice = AIPrefix + "Warning: the last message could not be saved to history."

// Session is the authoritative broadcast point and persistence coordinator
// for one room. All inbound messages funnel through a single goroutine, so
// the read-append-write cycle against the history store is serialized per
// room: two members sending at the same time can never clobber each other's
// history entry. Rooms stay independent of one another.
type Session struct {
	room  *Room
	store history.Store
	relay *Relay
	inbox chan submission
}

type submission struct {
	clientID string
	text     string
}

// NewSession creates a session for the named room. Start must be called
// before Submit.
func NewSession(name string, store history.Store, relay *Relay) *Session {
	return &Session{
		room:  NewRoom(name),
		store: store,
		relay: relay,
		inbox: make(chan submission, 256),
	}
}

// Room exposes the member set for join/leave and direct broadcast.
func (s *Session) Room() *Room {
	return s.room
}

// Join registers a connection as a broadcast target. No history is pushed to
// the new connection here; clients fetch a snapshot via the history endpoint
// before the socket takes over.
func (s *Session) Join(c Conn) {
	s.room.Join(c)
}

// Leave deregisters a connection, idempotent if already removed.
func (s *Session) Leave(clientID string) {
	s.room.Leave(clientID)
}

// Submit enqueues an inbound message for processing. It blocks if the room's
// inbox is full, applying backpressure to the producer rather than dropping.
func (s *Session) Submit(clientID, text string) {
	s.inbox <- submission{clientID: clientID, text: text}
}

// Start launches the session's single-writer loop. The loop runs until the
// context is canceled.
func (s *Session) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Session) run(ctx context.Context) {
	slog.Info("Room session started", "room", s.room.Name())
	for {
		select {
		case <-ctx.Done():
			slog.Info("Room session stopped", "room", s.room.Name())
			return
		case sub := <-s.inbox:
			s.handle(ctx, sub)
		}
	}
}

// handle is the hot path: persist, broadcast, and dispatch the assistant.
func (s *Session) handle(ctx context.Context, sub submission) {
	if err := s.persist(ctx, sub.text); err != nil {
		// Persistence failed for this message only. The session stays up and
		// the message is still delivered live, but the room is told.
		slog.Error("Failed to persist message", "room", s.room.Name(), "clientID", sub.clientID, "error", err)
		s.room.Broadcast([]byte(systemErrorNotice))
	}

	s.room.Broadcast([]byte(sub.text))

	if strings.HasPrefix(sub.text, AskPrefix) {
		// The prompt may be empty after the prefix; it is passed through
		// unchanged. The relay must never block the broadcast path.
		prompt := strings.TrimPrefix(sub.text, AskPrefix)
		go s.relay.Ask(ctx, s.room, prompt)
	}
}

func (s *Session) persist(ctx context.Context, text string) error {
	msgs, err := s.store.Get(ctx, s.room.Name())
	if err != nil {
		return err
	}
	msgs = append(msgs, history.NewMessage(text))
	return s.store.Put(ctx, s.room.Name(), msgs)
}
