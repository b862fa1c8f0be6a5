package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"lecture-backend/internal/domains/account/model"
	"lecture-backend/pkg/cache"
	"lecture-backend/pkg/database"
)

const rolesKeyPrefix = "roles:"

// RolesCacheKey is the cache key holding the roles of username
func RolesCacheKey(username string) string {
	return rolesKeyPrefix + username
}

type postgresRepository struct {
	pool     *pgxpool.Pool
	cache    cache.Cache
	rolesTTL time.Duration
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache, rolesTTL time.Duration) RepositoryInterface {
	return &postgresRepository{
		pool:     pool,
		cache:    cache,
		rolesTTL: rolesTTL,
	}
}

func (r *postgresRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.pool)
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Account) error {
	query := `
		INSERT INTO accounts (username, password_hash, roles)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.conn(ctx).QueryRow(ctx, query,
		a.Username,
		a.PasswordHash,
		a.Roles,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &model.UsernameExistsError{Username: a.Username}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	// stale negative lookups must not survive a create
	if r.cache != nil {
		if err := r.cache.Delete(ctx, RolesCacheKey(a.Username)); err != nil {
			log.Warn().Err(err).Str("username", a.Username).Msg("Failed to invalidate roles cache")
		}
	}
	return nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	query := `
		SELECT username, password_hash, roles, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`

	var a model.Account
	err := r.conn(ctx).QueryRow(ctx, query, username).Scan(
		&a.Username,
		&a.PasswordHash,
		&a.Roles,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) FindRoles(ctx context.Context, username string) ([]string, error) {
	key := RolesCacheKey(username)

	if r.cache != nil {
		var roles []string
		found, err := r.cache.Get(ctx, key, &roles)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Roles cache read failed")
		} else if found {
			log.Trace().Str("username", username).Msg("Roles cache hit")
			return roles, nil
		}
	}

	a, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, a.Roles, r.rolesTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Roles cache write failed")
		}
	}
	return a.Roles, nil
}
