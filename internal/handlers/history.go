package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/chatrelay/internal/history"
)

// HistoryHandler serves snapshot reads and resets of a room's history.
type HistoryHandler struct {
	store       history.Store
	defaultRoom string
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(store history.Store, defaultRoom string) *HistoryHandler {
	return &HistoryHandler{store: store, defaultRoom: defaultRoom}
}

func (h *HistoryHandler) roomName(c echo.Context) string {
	if room := c.QueryParam("room"); room != "" {
		return room
	}
	return h.defaultRoom
}

// HistoryGet handles GET /api/history?room=. It returns the full ordered
// history as a JSON array, empty (never null) for an unwritten room.
func (h *HistoryHandler) HistoryGet(c echo.Context) error {
	room := h.roomName(c)

	msgs, err := h.store.Get(c.Request().Context(), room)
	if err != nil {
		slog.Error("Failed to read history", "room", room, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "store", Message: "failed to read history"})
	}
	if msgs == nil {
		msgs = []history.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// ClearPost handles POST /api/history/clear?room=. It resets the room's
// history to empty and acknowledges. No confirmation, no undo.
func (h *HistoryHandler) ClearPost(c echo.Context) error {
	room := h.roomName(c)

	if err := h.store.Clear(c.Request().Context(), room); err != nil {
		slog.Error("Failed to clear history", "room", room, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "store", Message: "failed to clear history"})
	}
	return c.JSON(http.StatusOK, ClearResponse{Cleared: room})
}
