package ws_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/chatrelay/internal/gateway"
	"github.com/nfrund/chatrelay/internal/history"
	"github.com/nfrund/chatrelay/internal/pubsub"
	"github.com/nfrund/chatrelay/internal/room"
	"github.com/nfrund/chatrelay/internal/ws"
)

// noopGateway satisfies gateway.Gateway for tests that never send "/ask".
type noopGateway struct{}

func (noopGateway) Complete(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func (noopGateway) Stream(ctx context.Context, prompt string) (gateway.Stream, error) {
	return nil, context.Canceled
}

type fixture struct {
	store  history.Store
	server *httptest.Server
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := history.NewFileStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { bridge.Close() })

	manager := room.NewManager(store, room.NewRelay(noopGateway{}, room.ReplyWhole), "lobby")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, manager.Start(ctx, bridge))

	e := echo.New()
	e.GET("/ws", ws.NewHandler(manager, bridge).Serve)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &fixture{store: store, server: server}
}

func (f *fixture) dial(t *testing.T, roomName string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	if roomName != "" {
		wsURL += "?room=" + roomName
	}
	conn, resp, err := websocket.Dial(context.Background(), wsURL, nil)
	require.NoError(t, err)
	require.Equal(t, 101, resp.StatusCode)
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "test complete")
	})
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	return string(payload)
}

func TestServe_BroadcastsToAllRoomMembersIncludingSender(t *testing.T) {
	f := setupFixture(t)

	alice := f.dial(t, "lobby")
	bob := f.dial(t, "lobby")

	// Let bob's join land before alice sends.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, alice.Write(context.Background(), websocket.MessageText, []byte("hello")))

	assert.Equal(t, "hello", readText(t, alice))
	assert.Equal(t, "hello", readText(t, bob))
}

func TestServe_RoomsAreIsolated(t *testing.T) {
	f := setupFixture(t)

	alice := f.dial(t, "alpha")
	eve := f.dial(t, "beta")

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, alice.Write(context.Background(), websocket.MessageText, []byte("secret")))

	assert.Equal(t, "secret", readText(t, alice))

	// Eve must not receive alpha's message.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, _, err := eve.Read(ctx)
	assert.Error(t, err)
}

func TestServe_MissingRoomParamUsesDefaultRoom(t *testing.T) {
	f := setupFixture(t)

	implicit := f.dial(t, "")
	explicit := f.dial(t, "lobby")

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, implicit.Write(context.Background(), websocket.MessageText, []byte("hi")))

	assert.Equal(t, "hi", readText(t, explicit))
}

func TestServe_PersistsMessagesToHistory(t *testing.T) {
	f := setupFixture(t)

	alice := f.dial(t, "lobby")
	require.NoError(t, alice.Write(context.Background(), websocket.MessageText, []byte("for the record")))

	require.Eventually(t, func() bool {
		msgs, err := f.store.Get(context.Background(), "lobby")
		return err == nil && len(msgs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	msgs, err := f.store.Get(context.Background(), "lobby")
	require.NoError(t, err)
	assert.Equal(t, "for the record", msgs[0].Text)
	assert.NotZero(t, msgs[0].TS)
}
