// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/witple/witple/internal/handler/dto"
	"github.com/witple/witple/internal/model"
)

// UserStore is the persistence contract the user-facing handlers need.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
}

// MessageStore is the persistence contract the message handlers need.
// Implemented by *repository.Repository.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessageByID(ctx context.Context, id int64) (*model.Message, error)
	ListMessages(ctx context.Context, offset, limit int) ([]*model.Message, error)
	UpdateMessage(ctx context.Context, id int64, patch model.MessagePatch) (*model.Message, error)
	DeleteMessage(ctx context.Context, id int64) (bool, error)
}

// Handler wraps shared helpers for plain endpoints.
type Handler struct {
	appName    string
	appVersion string
}

// New creates a new Handler instance.
func New(appName, appVersion string) *Handler {
	return &Handler{appName: appName, appVersion: appVersion}
}

// Root is the welcome endpoint.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Welcome to " + h.appName + "!",
		"version": h.appVersion,
		"health":  "/api/v1/health",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with a short detail string.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, dto.ErrorResponse{Detail: detail})
}
