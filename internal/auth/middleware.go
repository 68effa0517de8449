package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/evently-labs/event-booking-api/internal/model"
)

// Subject is the authenticated principal attached to a request.
type Subject struct {
	UserID string
	Role   string
}

type subjectKey struct{}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (*Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(*Subject)
	return s, ok
}

// Protect rejects requests without a valid bearer token and attaches the
// authenticated subject to the request context.
func Protect(manager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				msg := "not authorized, token failed"
				if errors.Is(err, ErrExpiredToken) {
					msg = "not authorized, token expired"
				}
				writeAuthError(w, http.StatusUnauthorized, msg)
				return
			}

			subject := &Subject{UserID: claims.UserID, Role: claims.Role}
			ctx := context.WithValue(r.Context(), subjectKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose subject lacks one of the
// allowed roles. Must be mounted after Protect.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "not authorized")
				return
			}
			for _, role := range roles {
				if subject.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "role "+subject.Role+" is not authorized to access this route")
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}
