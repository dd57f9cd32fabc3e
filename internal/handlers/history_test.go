package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/chatrelay/internal/handlers"
	"github.com/nfrund/chatrelay/internal/history"
)

func setupHistory(t *testing.T) (history.Store, *handlers.HistoryHandler, *echo.Echo) {
	t.Helper()

	store, err := history.NewFileStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	return store, handlers.NewHistoryHandler(store, "lobby"), echo.New()
}

func TestHistoryGet_EmptyRoomReturnsEmptyArray(t *testing.T) {
	_, h, e := setupHistory(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history?room=lobby", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HistoryGet(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHistoryGet_ReturnsStoredMessagesInOrder(t *testing.T) {
	store, h, e := setupHistory(t)

	require.NoError(t, store.Put(context.Background(), "lobby", []history.Message{
		{Text: "first", TS: 1000},
		{Text: "second", TS: 2000},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history?room=lobby", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HistoryGet(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"text":"first","ts":1000},{"text":"second","ts":2000}]`, rec.Body.String())
}

func TestHistoryGet_MissingRoomParamUsesDefault(t *testing.T) {
	store, h, e := setupHistory(t)

	require.NoError(t, store.Put(context.Background(), "lobby", []history.Message{
		{Text: "hi", TS: 1},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HistoryGet(e.NewContext(req, rec)))

	assert.JSONEq(t, `[{"text":"hi","ts":1}]`, rec.Body.String())
}

func TestClearPost_ResetsHistory(t *testing.T) {
	store, h, e := setupHistory(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "lobby", []history.Message{{Text: "old", TS: 1}}))

	req := httptest.NewRequest(http.MethodPost, "/api/history/clear?room=lobby", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ClearPost(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cleared":"lobby"}`, rec.Body.String())

	msgs, err := store.Get(ctx, "lobby")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
