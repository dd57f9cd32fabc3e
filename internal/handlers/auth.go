package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthHandler answers PIN checks against the process-wide shared secret.
// A mismatch is a boolean result, not an error: no lockout, no rate
// limiting, no hashing.
type AuthHandler struct {
	pin string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(pin string) *AuthHandler {
	return &AuthHandler{pin: pin}
}

// LoginPost handles POST /api/login. It binds {pin} and returns {ok}.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: "malformed body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation", Message: "pin is required"})
	}

	ok := subtle.ConstantTimeCompare([]byte(req.PIN), []byte(h.pin)) == 1
	return c.JSON(http.StatusOK, LoginResponse{OK: ok})
}
