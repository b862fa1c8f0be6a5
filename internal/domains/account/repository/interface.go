package repository

import (
	"context"

	"lecture-backend/internal/domains/account/model"
)

type RepositoryInterface interface {
	// Create returns *model.UsernameExistsError on collision
	Create(ctx context.Context, account *model.Account) error

	// FindByUsername returns model.ErrAccountNotFound when absent
	FindByUsername(ctx context.Context, username string) (*model.Account, error)

	// FindRoles is cache-aside on top of FindByUsername
	FindRoles(ctx context.Context, username string) ([]string, error)
}
