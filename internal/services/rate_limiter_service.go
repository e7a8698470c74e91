package services

import (
	"context"
	"fmt"
	"time"

	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

// RateLimiterService provides a high-level interface for checking request-rate budgets.
type RateLimiterService interface {
	// CheckVerifyRateLimit enforces the per-identity budget for the verify
	// endpoint family.
	CheckVerifyRateLimit(ctx context.Context, userID string) error
}

type rateLimiterService struct {
	repo   repositories.RateLimitRepository
	limit  int
	window time.Duration
}

func NewRateLimiterService(repo repositories.RateLimitRepository, limit int, window time.Duration) RateLimiterService {
	return &rateLimiterService{repo: repo, limit: limit, window: window}
}

func (s *rateLimiterService) CheckVerifyRateLimit(ctx context.Context, userID string) error {
	key := fmt.Sprintf("verify:user:%s", userID)
	allowed, err := s.repo.IncrementAndCheck(ctx, key, s.limit, s.window)
	if err != nil {
		return err
	}
	if !allowed {
		utils.Logger.Warnf("Verify rate limit exceeded (key: %s)", key)
		return utils.ErrRateLimitExceeded
	}
	return nil
}
