package dto

// AuthRequest describes login/password payload. Role is read on register only.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// TokenResponse carries a freshly issued auth token.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role,omitempty"`
}

// GateRequest is the shared password submitted to unlock staff pages.
type GateRequest struct {
	Password string `json:"password"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
