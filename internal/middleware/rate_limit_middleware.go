package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/simlok-project/backend/internal/services"
	"github.com/simlok-project/backend/internal/utils"
)

// RateLimitMiddleware enforces the per-identity request budget before any
// business logic runs. Runs after AuthMiddleware so the identity is known.
func RateLimitMiddleware(limiter services.RateLimiterService, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(ContextKeyUserID).(string)
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
				)
				return
			}

			if err := limiter.CheckVerifyRateLimit(r.Context(), userID); err != nil {
				if errors.Is(err, utils.ErrRateLimitExceeded) {
					retryAfter := int(window.Seconds())
					w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
					w.Header().Set("X-RateLimit-Window", fmt.Sprintf("%ds", retryAfter))
					w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
					utils.RespondErrorWithCode(
						w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded,
						"Too many verification requests, slow down",
						map[string]any{"retryAfter": retryAfter},
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusInternalServerError, utils.ErrCodeInternal,
					"Rate limit check failed", nil, err,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
