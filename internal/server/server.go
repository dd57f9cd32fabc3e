package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"

	"github.com/nfrund/chatrelay/internal/config"
	"github.com/nfrund/chatrelay/internal/gateway"
	"github.com/nfrund/chatrelay/internal/handlers"
	"github.com/nfrund/chatrelay/internal/history"
	"github.com/nfrund/chatrelay/internal/logging"
	"github.com/nfrund/chatrelay/internal/pubsub"
	"github.com/nfrund/chatrelay/internal/room"
	"github.com/nfrund/chatrelay/internal/ws"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	Cfg     *config.Config
	store   history.Store
	bus     *pubsub.WatermillBridge
	manager *room.Manager

	authHandler    *handlers.AuthHandler
	historyHandler *handlers.HistoryHandler
	wsHandler      *ws.Handler

	cancel context.CancelFunc
}

// New creates a fully wired Server instance from the environment.
func New() *Server {
	logging.New()
	cfg := config.New()

	store, err := NewStore(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize history store", "error", err)
		os.Exit(1)
	}

	gw := gateway.NewOpenAIGateway(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)

	return NewWithDeps(cfg, store, gw)
}

// NewWithDeps wires a Server around explicit collaborators. Tests use this
// to substitute the store and the gateway.
func NewWithDeps(cfg *config.Config, store history.Store, gw gateway.Gateway) *Server {
	bus := pubsub.NewWatermillBridge()

	relay := room.NewRelay(gw, room.ReplyMode(cfg.AIReplyMode))
	manager := room.NewManager(store, relay, cfg.DefaultRoom)

	ctx, cancel := context.WithCancel(context.Background())
	if err := manager.Start(ctx, bus); err != nil {
		slog.Error("Failed to start room manager", "error", err)
		cancel()
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Validator = handlers.NewValidator()

	return &Server{
		E:              e,
		Cfg:            cfg,
		store:          store,
		bus:            bus,
		manager:        manager,
		authHandler:    handlers.NewAuthHandler(cfg.PIN),
		historyHandler: handlers.NewHistoryHandler(store, cfg.DefaultRoom),
		wsHandler:      ws.NewHandler(manager, bus),
		cancel:         cancel,
	}
}

// NewStore builds the history store selected by HISTORY_BACKEND.
func NewStore(ctx context.Context, cfg *config.Config) (history.Store, error) {
	switch cfg.HistoryBackend {
	case "file":
		return history.NewFileStore(afero.NewOsFs(), cfg.HistoryDir)
	default:
		return history.NewRedisStore(ctx, cfg.RedisAddr)
	}
}

// Store is a getter for the server's history store, useful for testing.
func (s *Server) Store() history.Store {
	return s.store
}
