package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/witple/witple/internal/auth"
	"github.com/witple/witple/internal/handler/dto"
	"github.com/witple/witple/internal/model"
	"github.com/witple/witple/internal/repository"
)

// TokenRevoker stores revoked tokens until their natural expiry.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenHash string, remaining time.Duration) error
}

// AuthHandler handles registration, login, logout and the me endpoint.
type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenIssuer
	// revoker may be nil; logout is then a client-side discard.
	revoker TokenRevoker
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users UserStore, tokens *auth.TokenIssuer, revoker TokenRevoker, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
	}
}

// Register handles POST /api/v1/auth/register.
// Duplicate email or username yields 400; the created record never
// includes the password digest.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, username and password are required")
		return
	}

	// Pre-check both unique fields so the caller gets a specific detail
	// string. The unique constraints still backstop concurrent inserts.
	if _, err := h.users.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.internalError(w, err)
		return
	}

	if _, err := h.users.GetUserByUsername(r.Context(), req.Username); err == nil {
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.internalError(w, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, err)
		return
	}

	user := &model.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Bio:            req.Bio,
		IsActive:       true,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, user)
}

// Login handles POST /api/v1/auth/login.
// The identifier field matches either email or username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetUserByIdentifier(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeBadCredentials(w)
			return
		}
		h.internalError(w, err)
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.HashedPassword)
	if err != nil || !match {
		h.writeBadCredentials(w)
		return
	}

	if !user.IsActive {
		writeError(w, http.StatusBadRequest, "Inactive user")
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout handles POST /api/v1/auth/logout.
// When a denylist is configured the caller's token is revoked for its
// remaining lifetime; otherwise this is a confirmation of a client-side
// discard.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	if h.revoker != nil {
		token := auth.TokenFromContext(r.Context())
		if _, remaining, err := h.tokens.Verify(token); err == nil {
			if err := h.revoker.RevokeToken(r.Context(), auth.QuickHash(token), remaining); err != nil {
				h.internalError(w, err)
				return
			}
		}
	}

	h.logger.Info("user_logged_out",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.MessageDetail{Message: "Successfully logged out"})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// writeBadCredentials writes the uniform 401 for login failures.
// The same message covers unknown identifiers and wrong passwords to
// prevent account enumeration.
func (h *AuthHandler) writeBadCredentials(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "Incorrect username or password")
}

// handleStoreError maps repository errors to HTTP responses.
func (h *AuthHandler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, repository.ErrUsernameExists):
		writeError(w, http.StatusBadRequest, "Username already taken")
	default:
		h.internalError(w, err)
	}
}

func (h *AuthHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "An internal error occurred")
}
