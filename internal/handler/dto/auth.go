// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// LoginRequest represents the request body for login.
// Username accepts either the email or the username as identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageDetail is a plain confirmation payload.
type MessageDetail struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error: a status code plus a short
// human-readable detail string.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
