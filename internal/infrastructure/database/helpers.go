package database

import (
	"context"
	"errors"
	"fmt"
)

var ErrPoolClosed = errors.New("database pool is not initialized")

// PoolStats is the pool snapshot reported by /health
type PoolStats struct {
	Total    int32 `json:"total"`
	Idle     int32 `json:"idle"`
	Acquired int32 `json:"acquired"`
	Max      int32 `json:"max"`
}

// Ping bounded by ConnectTimeout
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return ErrPoolClosed
	}

	if db.Config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.Config.ConnectTimeout)
		defer cancel()
	}

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (db *PostgresDB) Stats() (PoolStats, error) {
	if db.Pool == nil {
		return PoolStats{}, ErrPoolClosed
	}
	s := db.Pool.Stat()
	return PoolStats{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		Acquired: s.AcquiredConns(),
		Max:      s.MaxConns(),
	}, nil
}

// Close is idempotent; api and worker both defer it through the container
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}
	db.Pool.Close()
	db.Pool = nil
	return nil
}
