package config

import (
	"time"

	"lecture-backend/internal/infrastructure/database"
)

// healthCheckFloor giữ health check của pool không quá dày khi store timeout nhỏ
const healthCheckFloor = 10 * time.Second

// PoolConfig maps the database section onto the pgxpool settings.
// Idle connections are health-checked at a multiple of the lecture store
// timeout so a dead connection is noticed before it eats a request's budget.
func (c *Config) PoolConfig() *database.DBConfig {
	db := c.Database

	healthCheck := 20 * c.Lecture.StoreTimeout
	if healthCheck < healthCheckFloor {
		healthCheck = healthCheckFloor
	}

	return &database.DBConfig{
		Host:              db.Host,
		Port:              db.Port,
		Username:          db.User,
		Password:          db.Password,
		DBName:            db.Database,
		SSLMode:           db.SSLMode,
		ApplicationName:   c.App.Name,
		MaxConns:          int32(db.MaxConns),
		MinConns:          int32(db.MinConns),
		MaxConnLifetime:   db.MaxConnLifetime,
		MaxConnIdleTime:   db.MaxConnIdleTime,
		HealthCheckPeriod: healthCheck,
		MaxRetries:        db.MaxRetries,
		RetryDelay:        db.RetryDelay,
		ConnectTimeout:    db.ConnectTimeout,
	}
}
