package pubsub

import (
	"context"
)

// Topics used on the bus. Inbound carries raw socket frames from any
// connection toward the room dispatcher.
const (
	TopicInbound = "chat.inbound"
)

// Message is the structure passed between components on the bus.
// It is intentionally simple to act as a wrapper for raw data.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "chat.inbound").
	Topic string
	// Room names the chat room the message belongs to.
	Room string
	// ClientID identifies the connection that produced the message.
	ClientID string
	// Payload contains the raw message data (chat text).
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context (e.g., timestamps).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with
	// the handler. Messages for one topic are handled in publish order.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
