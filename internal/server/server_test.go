package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/chatrelay/internal/config"
	"github.com/nfrund/chatrelay/internal/gateway"
	"github.com/nfrund/chatrelay/internal/history"
	"github.com/nfrund/chatrelay/internal/server"
)

// scriptedGateway streams a fixed fragment sequence for every prompt.
type scriptedGateway struct {
	fragments []string
}

func (g scriptedGateway) Complete(ctx context.Context, prompt string) (string, error) {
	return strings.Join(g.fragments, ""), nil
}

func (g scriptedGateway) Stream(ctx context.Context, prompt string) (gateway.Stream, error) {
	return &scriptedStream{fragments: g.fragments}, nil
}

type scriptedStream struct {
	fragments []string
	pos       int
}

func (s *scriptedStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		return "", context.Canceled // not reached in these tests
	}
	frag := s.fragments[s.pos]
	s.pos++
	return frag, nil
}

func (s *scriptedStream) Close() error { return nil }

func setupServer(t *testing.T, gw gateway.Gateway) (*server.Server, *httptest.Server) {
	t.Helper()

	cfg := &config.Config{
		PIN:         "4321",
		DefaultRoom: "lobby",
		AIReplyMode: "whole",
	}
	store, err := history.NewFileStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	s := server.NewWithDeps(cfg, store, gw)
	s.RegisterRoutes()

	ts := httptest.NewServer(s.E)
	t.Cleanup(ts.Close)

	return s, ts
}

func TestServer_LoginEndpoint(t *testing.T) {
	_, ts := setupServer(t, scriptedGateway{})

	resp, err := http.Post(ts.URL+"/api/login", "application/json", strings.NewReader(`{"pin":"4321"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestServer_HealthEndpoint(t *testing.T) {
	_, ts := setupServer(t, scriptedGateway{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ChatRoundTripThroughHistoryEndpoint(t *testing.T) {
	s, ts := setupServer(t, scriptedGateway{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=integration"
	conn, _, err := websocket.Dial(context.Background(), wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, []byte("hello world")))

	require.Eventually(t, func() bool {
		msgs, err := s.Store().Get(context.Background(), "integration")
		return err == nil && len(msgs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(ts.URL + "/api/history?room=integration")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"text":"hello world"`)
}

func TestServer_AskCommandRelaysAssistantReply(t *testing.T) {
	_, ts := setupServer(t, scriptedGateway{fragments: []string{"4"}})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=ask"
	conn, _, err := websocket.Dial(context.Background(), wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, []byte("/ask what is 2+2")))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, first, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/ask what is 2+2", string(first))

	_, second, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[AI] 4", string(second))
}
