package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"lecture-backend/internal/domains/account/model"
	"lecture-backend/internal/domains/account/repository"
	"lecture-backend/pkg/cache"
	"lecture-backend/pkg/jwt"
)

const (
	bcryptCost       = 12
	maxFailedLogins  = 5
	failedLoginLock  = 15 * time.Minute
	failedLoginStart = "login:failed:"
)

type ServiceInterface interface {
	// RolesOf returns found=false when the account does not exist
	RolesOf(ctx context.Context, username string) (roles []string, found bool, err error)

	// CreateAccount returns *model.UsernameExistsError on collision
	CreateAccount(ctx context.Context, username, password string, roles []string) (*model.Account, error)

	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

type accountService struct {
	repo       repository.RepositoryInterface
	cache      cache.Cache
	jwtManager *jwt.Manager
}

func NewAccountService(repo repository.RepositoryInterface, cache cache.Cache, jwtManager *jwt.Manager) ServiceInterface {
	return &accountService{
		repo:       repo,
		cache:      cache,
		jwtManager: jwtManager,
	}
}

func (s *accountService) RolesOf(ctx context.Context, username string) ([]string, bool, error) {
	roles, err := s.repo.FindRoles(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find roles: %w", err)
	}
	return roles, true, nil
}

func (s *accountService) CreateAccount(ctx context.Context, username, password string, roles []string) (*model.Account, error) {
	if username == "" || password == "" {
		return nil, model.ErrInvalidAccountInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	log.Debug().Str("username", username).Strs("roles", roles).Msg("Account created")
	return account, nil
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *accountService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := failedLoginStart + req.Username
	if s.isLocked(ctx, key) {
		return nil, model.ErrTooManyAttempts
	}

	account, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			s.recordFailure(ctx, key)
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, key)
		return nil, model.ErrInvalidCredentials
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, key)
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(account.Username, account.Roles)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Username:    account.Username,
		Roles:       account.Roles,
	}, nil
}

func (s *accountService) isLocked(ctx context.Context, key string) bool {
	if s.cache == nil {
		return false
	}
	var count int
	found, err := s.cache.Get(ctx, key, &count)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed login counter unreadable")
		return false
	}
	return found && count >= maxFailedLogins
}

func (s *accountService) recordFailure(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	count, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to track failed login")
		return
	}
	if count == 1 {
		if err := s.cache.Expire(ctx, key, failedLoginLock); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to set failed login window")
		}
	}
	log.Info().Str("key", key).Int64("attempts", count).Msg("Failed login recorded")
}
