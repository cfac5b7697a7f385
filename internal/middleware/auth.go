package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/witple/witple/internal/auth"
	"github.com/witple/witple/internal/model"
)

// UserLookup resolves a token subject to a user record.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// TokenDenylist reports whether a token has been revoked by logout.
type TokenDenylist interface {
	IsTokenRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenIssuer
	Users  UserLookup
	// Denylist may be nil when no cache is configured; tokens are then
	// purely stateless and logout is a client-side discard.
	Denylist TokenDenylist
}

// Auth returns a middleware that authenticates bearer-token requests.
// It verifies the token signature and expiry, checks the denylist,
// resolves the subject to a user, and injects both the user and the raw
// token into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeAuthError(w)
				return
			}

			subject, _, err := cfg.Tokens.Verify(token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeAuthError(w)
				return
			}

			if cfg.Denylist != nil {
				revoked, err := cfg.Denylist.IsTokenRevoked(r.Context(), auth.QuickHash(token))
				if err != nil {
					cfg.Logger.Error("denylist check failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthError(w)
					return
				}
				if revoked {
					logAuthFailure(cfg.Logger, r, "revoked_token")
					writeAuthError(w)
					return
				}
			}

			user, err := cfg.Users.GetUserByUsername(r.Context(), subject)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "unknown_subject")
				writeAuthError(w)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.Int64("user_id", user.ID),
				slog.String("username", user.Username),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithUser(r.Context(), user)
			ctx = auth.ContextWithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActive returns a middleware that rejects inactive callers.
// Must run after Auth.
func RequireActive() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if user == nil {
				writeAuthError(w)
				return
			}
			if !user.IsActive {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"detail":"Inactive user"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// extractBearerToken pulls the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
}
