package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/simlok-project/backend/internal/config"
	"github.com/simlok-project/backend/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	return &App{
		Config: cfg,
		DB:     dbPool,
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}

// newDBPool constructs the pgx pool with production-safe settings:
// idle sockets retired before the edge proxy kills them, and a cheap
// background health check keeping every conn warm.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
