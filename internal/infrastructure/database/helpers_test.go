package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDB_NotConnected(t *testing.T) {
	db := NewPostgresDB(&DBConfig{Host: "localhost", Port: 5432, DBName: "lecture"})

	assert.ErrorIs(t, db.Ping(context.Background()), ErrPoolClosed)

	_, err := db.Stats()
	assert.ErrorIs(t, err, ErrPoolClosed)

	assert.NoError(t, db.Close())
	assert.NoError(t, db.Close())
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := &DBConfig{
		Host:     "db",
		Port:     5433,
		Username: "lecture",
		Password: "p@ss word",
		DBName:   "lecture",
	}

	assert.Equal(t, "postgresql://lecture:p%40ss%20word@db:5433/lecture?sslmode=disable", cfg.DSN())
}
