package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/witple/witple/internal/auth"
	"github.com/witple/witple/internal/handler/dto"
	"github.com/witple/witple/internal/model"
	"github.com/witple/witple/internal/repository"
)

// UserHandler handles profile and password endpoints.
type UserHandler struct {
	users  UserStore
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// GetProfile handles GET /api/v1/users/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/profile.
// Only fields present in the payload are applied. Email and username are
// checked for collisions with other users before the update; a password
// in the payload is re-hashed before storage.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := h.users.GetUserByEmail(r.Context(), *req.Email); err == nil {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			h.internalError(w, err)
			return
		}
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := h.users.GetUserByUsername(r.Context(), *req.Username); err == nil {
			writeError(w, http.StatusBadRequest, "Username already taken")
			return
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			h.internalError(w, err)
			return
		}
	}

	patch := req.ToUserPatch()

	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.internalError(w, err)
			return
		}
		patch.HashedPassword = &hashed
	}

	updated, err := h.users.UpdateUser(r.Context(), user.ID, patch)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.logger.Info("profile_updated", "user_id", user.ID)

	writeJSON(w, http.StatusOK, updated)
}

// ChangePassword handles POST /api/v1/users/change-password.
// The stored digest is only replaced after the current password verifies.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	match, err := auth.VerifyPassword(req.CurrentPassword, user.HashedPassword)
	if err != nil || !match {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.internalError(w, err)
		return
	}

	if _, err := h.users.UpdateUser(r.Context(), user.ID, model.UserPatch{HashedPassword: &hashed}); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.logger.Info("password_changed", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.MessageDetail{Message: "Password changed successfully"})
}

// handleStoreError maps repository errors to HTTP responses.
func (h *UserHandler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, repository.ErrUsernameExists):
		writeError(w, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		h.internalError(w, err)
	}
}

func (h *UserHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "An internal error occurred")
}
