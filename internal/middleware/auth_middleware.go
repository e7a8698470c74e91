package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID   = contextKey("userID")
	ContextKeyUserRole = contextKey("userRole")
)

// AuthMiddleware validates the Bearer token and stashes the caller's id and
// role in the request context. Missing or invalid tokens yield 401.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			tok, vErr := ValidateToken(tokenStr, pub)
			if vErr != nil || !tok.Valid {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
				)
				return
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid claims", nil,
				)
				return
			}
			sub, ok := claims["sub"].(string)
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing subject", nil,
				)
				return
			}
			role, ok := claims["role"].(string)
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing role claim", nil,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, sub)
			ctx = context.WithValue(ctx, ContextKeyUserRole, models.UserRole(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles gates a subrouter to the listed roles. Runs after
// AuthMiddleware; an authenticated caller with the wrong role gets 403.
func RequireRoles(roles ...models.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(ContextKeyUserRole).(models.UserRole)
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No role in context", nil,
				)
				return
			}
			if _, ok := allowed[role]; !ok {
				utils.RespondErrorWithCode(
					w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil,
				)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helper: read the token from the Authorization header
func extractAccessToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}
