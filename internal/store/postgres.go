package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// DatabaseQuerier interface for database operations
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// NewPool opens a PostgreSQL connection pool and verifies it responds.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	logger.Info("PostgreSQL connection established")
	return pool, nil
}

// RatingsStore reads rating events from the densified ratings table, the
// relational twin of the CSV export. The table already carries dense user
// and item indices aligned with the catalog encoders, so rows map straight
// onto models.Rating.
type RatingsStore struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

func NewRatingsStore(db DatabaseQuerier, logger *logrus.Logger) *RatingsStore {
	return &RatingsStore{db: db, logger: logger}
}

// LoadRatings fetches every rating event. Rows come back ordered by event
// time so later ratings overwrite earlier ones when the matrix is built.
func (s *RatingsStore) LoadRatings(ctx context.Context) ([]models.Rating, error) {
	query := `
		SELECT user_idx, item_idx, rating, rated_at
		FROM ratings
		ORDER BY rated_at, user_idx, item_idx`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ratings query failed: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Value, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ratings iteration failed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"ratings": len(ratings),
	}).Info("Ratings loaded from PostgreSQL")

	return ratings, nil
}

// MaxItemIndex returns the highest item index present in the ratings
// table, used to sanity check the table against the catalog before an
// engine is built on top of both.
func (s *RatingsStore) MaxItemIndex(ctx context.Context) (int, error) {
	rows, err := s.db.Query(ctx, `SELECT COALESCE(MAX(item_idx), -1) FROM ratings`)
	if err != nil {
		return 0, fmt.Errorf("max item index query failed: %w", err)
	}
	defer rows.Close()

	maxIdx := -1
	if rows.Next() {
		if err := rows.Scan(&maxIdx); err != nil {
			return 0, fmt.Errorf("failed to scan max item index: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return maxIdx, nil
}
