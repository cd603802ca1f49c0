package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kook-app/mining-service/src/internal/logger"
)

// Open connects to PostgreSQL and sizes the pool for per-account row locks
// held by concurrent requests and the team activity workers.
func Open(ctx context.Context, dsn string, workers int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	maxOpen := 30 + workers
	db.SetMaxIdleConns(20)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(15 * time.Minute)

	logger.Info("postgres connection established", logger.Fields{
		"maxOpenConns": maxOpen,
	})

	return db, nil
}
