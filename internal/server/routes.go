package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	s.E.POST("/api/login", s.authHandler.LoginPost)
	s.E.GET("/api/history", s.historyHandler.HistoryGet)
	s.E.POST("/api/history/clear", s.historyHandler.ClearPost)

	s.E.GET("/ws", s.wsHandler.Serve)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
