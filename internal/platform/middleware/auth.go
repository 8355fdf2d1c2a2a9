// Package middleware holds the HTTP middlewares shared by all routes.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
)

type contextKeyUserID struct{}

// GetUserID retrieves the authenticated owner from the context. Nil outside
// an authenticated request.
func GetUserID(ctx context.Context) id.UserID {
	userID, ok := ctx.Value(contextKeyUserID{}).(id.UserID)
	if !ok {
		return id.UserID{}
	}
	return userID
}

// WithUserID is exposed for handler tests that bypass token issuance.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, contextKeyUserID{}, userID)
}

// RequireAuth validates the Bearer token issued by the auth service and
// resolves the owner id from its subject. Session management stays with the
// auth service; this layer only trusts the signature.
func RequireAuth(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			userID, err := subjectFromToken(token, signingKey)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}

func subjectFromToken(token, signingKey string) (id.UserID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		return id.UserID{}, err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return id.UserID{}, err
	}
	return id.ParseUserID(sub)
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = fmt.Fprintf(w, `{"error":"unauthorized","error_description":%q}`, description)
}
