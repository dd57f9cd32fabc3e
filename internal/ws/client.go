package ws

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/nfrund/chatrelay/internal/pubsub"
	"github.com/nfrund/chatrelay/internal/room"
)

var _ room.Conn = (*Client)(nil)

// Client represents a single connected WebSocket client. It belongs to
// exactly one room for its lifetime. Inbound frames are published to the
// bus; outbound payloads flow through a buffered send channel drained by
// the writePump.
type Client struct {
	id        string
	roomName  string
	conn      *websocket.Conn
	publisher pubsub.Publisher
	session   *room.Session

	mu   sync.RWMutex
	send chan []byte
}

// NewClient wraps an accepted connection.
func NewClient(id, roomName string, conn *websocket.Conn, publisher pubsub.Publisher, session *room.Session) *Client {
	return &Client{
		id:        id,
		roomName:  roomName,
		conn:      conn,
		publisher: publisher,
		session:   session,
		send:      make(chan []byte, 256),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// Send queues a payload for delivery. It never blocks: a closed client or a
// full send buffer returns an error so the room can evict the member.
func (c *Client) Send(payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.send == nil {
		return errors.New("client disconnected")
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return errors.New("client send buffer full")
	}
}

// close shuts the send channel exactly once, terminating the writePump.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

// readPump pumps frames from the connection onto the inbound bus. It owns
// the client's room membership: when the read loop ends, the client leaves.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.session.Leave(c.id)
		c.close()
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, payload, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("WebSocket closed by client", "clientID", c.id, "room", c.roomName)
			} else if err != io.EOF && ctx.Err() == nil {
				slog.Error("WebSocket read error", "clientID", c.id, "room", c.roomName, "error", err)
			}
			return
		}

		msg := pubsub.Message{
			Topic:    pubsub.TopicInbound,
			Room:     c.roomName,
			ClientID: c.id,
			Payload:  payload,
			Metadata: map[string]string{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		}
		if err := c.publisher.Publish(ctx, msg); err != nil {
			slog.Error("Failed to publish inbound frame", "clientID", c.id, "room", c.roomName, "error", err)
		}
	}
}

// writePump pumps payloads from the send channel to the connection.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for payload := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "clientID", c.id, "room", c.roomName, "error", err)
			return
		}
	}
}
