package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start runs the HTTP server until an interrupt or terminate signal arrives,
// then shuts everything down gracefully.
func (s *Server) Start() {
	go func() {
		if err := s.E.Start(s.Cfg.Addr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.Shutdown()
}

// Shutdown stops the room sessions, the bus, the store, and the HTTP server.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.cancel()
	if err := s.bus.Close(); err != nil {
		slog.Error("Failed to close pub/sub bridge", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("Failed to close history store", "error", err)
	}
	if err := s.E.Shutdown(ctx); err != nil {
		s.E.Logger.Fatal(err)
	}
}
