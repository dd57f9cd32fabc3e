package handlers

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginResponse reports whether the submitted PIN matched.
type LoginResponse struct {
	OK bool `json:"ok"`
}

// ClearResponse acknowledges a history reset.
type ClearResponse struct {
	Cleared string `json:"cleared"`
}
