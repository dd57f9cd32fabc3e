package ws

import (
	"context"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/chatrelay/internal/pubsub"
	"github.com/nfrund/chatrelay/internal/room"
)

// Handler upgrades HTTP requests to WebSocket connections and hands them to
// their room's session.
type Handler struct {
	manager   *room.Manager
	publisher pubsub.Publisher
}

// NewHandler creates a new WebSocket handler.
func NewHandler(manager *room.Manager, publisher pubsub.Publisher) *Handler {
	return &Handler{manager: manager, publisher: publisher}
}

// Serve handles WebSocket upgrade requests. The room is addressed by the
// "room" query parameter; an absent parameter resolves to the default room.
func (h *Handler) Serve(c echo.Context) error {
	roomName := c.QueryParam("room")

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		// In production, check the origin to prevent cross-site hijacking.
		InsecureSkipVerify: true,
	})
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return err
	}

	session := h.manager.Get(roomName)
	client := NewClient(uuid.NewString(), session.Room().Name(), conn, h.publisher, session)
	session.Join(client)

	slog.Info("WebSocket connection established", "clientID", client.ID(), "room", session.Room().Name())

	// The request context ends when this handler returns, so the pumps run
	// on their own context and terminate via the connection itself.
	go client.writePump()
	go client.readPump(context.Background())

	return nil
}
