package history

import (
	"context"
	"time"
)

// Message is a single chat message as stored in a room's history log.
// TS is milliseconds since the Unix epoch.
type Message struct {
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// NewMessage creates a Message stamped with the current time.
func NewMessage(text string) Message {
	return Message{Text: text, TS: time.Now().UnixMilli()}
}

// Store is the durable mapping from a room name to its ordered,
// append-only message log. Writes replace the whole value; a store
// must return either the previously written sequence or an empty one,
// never a partial write.
type Store interface {
	// Get returns the history for a room, oldest first. A never-written
	// room yields an empty slice and no error.
	Get(ctx context.Context, room string) ([]Message, error)

	// Put replaces the stored history for a room.
	Put(ctx context.Context, room string, msgs []Message) error

	// Clear resets the stored history for a room to empty.
	Clear(ctx context.Context, room string) error

	// Close releases any underlying resources.
	Close() error
}

// Key derives the storage key for a room name.
func Key(room string) string {
	return "room:" + room
}
