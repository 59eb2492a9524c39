package models

import "time"

// Session represents an authenticated bearer session. The token doubles as
// the lookup key; it is returned to the client once at login.
type Session struct {
	Token     string    `json:"-"` // Never expose in JSON
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	UserID    int64  `json:"user_id"`
}
