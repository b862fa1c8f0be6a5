package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lecture-backend/internal/domains/account/model"
	infraCache "lecture-backend/internal/infrastructure/cache"
	"lecture-backend/pkg/jwt"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, a *model.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	args := m.Called(ctx, username)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) FindRoles(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	if r, ok := args.Get(0).([]string); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(t *testing.T) (*accountService, *mockRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	repo := &mockRepo{}
	svc := NewAccountService(
		repo,
		infraCache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
		jwt.NewManager("test-secret", time.Hour),
	).(*accountService)
	return svc, repo, mr
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRolesOf(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("FindRoles", ctx, "anna").Return([]string{"lecture"}, nil)
	repo.On("FindRoles", ctx, "ghost").Return(nil, model.ErrAccountNotFound)
	repo.On("FindRoles", ctx, "broken").Return(nil, errors.New("connection reset"))

	roles, found, err := svc.RolesOf(ctx, "anna")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"lecture"}, roles)

	_, found, err = svc.RolesOf(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = svc.RolesOf(ctx, "broken")
	assert.Error(t, err)
}

func TestCreateAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	t.Run("hashes password", func(t *testing.T) {
		repo.On("Create", ctx, mock.MatchedBy(func(a *model.Account) bool {
			return a.Username == "anna"
		})).Return(nil).Once()

		account, err := svc.CreateAccount(ctx, "anna", "geheim123", []string{"lecture"})
		require.NoError(t, err)
		assert.NotEqual(t, "geheim123", account.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("geheim123")))
	})

	t.Run("username exists", func(t *testing.T) {
		repo.On("Create", ctx, mock.MatchedBy(func(a *model.Account) bool {
			return a.Username == "admin"
		})).Return(&model.UsernameExistsError{Username: "admin"}).Once()

		_, err := svc.CreateAccount(ctx, "admin", "p", nil)
		assert.ErrorIs(t, err, model.ErrUsernameExists)
		assert.EqualError(t, err, "the username admin already exists")
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, "", "p", nil)
		assert.ErrorIs(t, err, model.ErrInvalidAccountInput)
	})
}

func TestLogin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("FindByUsername", ctx, "admin").Return(&model.Account{
		Username:     "admin",
		PasswordHash: hashed(t, "p"),
		Roles:        []string{"admin", "lecture"},
	}, nil)
	repo.On("FindByUsername", ctx, "ghost").Return(nil, model.ErrAccountNotFound)

	resp, err := svc.Login(ctx, model.LoginRequest{Username: "admin", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.jwtManager.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "lecture"}, claims.Roles)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "ghost", Password: "p"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "admin"})
	assert.Error(t, err)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	svc, repo, mr := newTestService(t)
	ctx := context.Background()

	repo.On("FindByUsername", ctx, "admin").Return(&model.Account{
		Username:     "admin",
		PasswordHash: hashed(t, "p"),
	}, nil)

	for i := 0; i < maxFailedLogins; i++ {
		_, err := svc.Login(ctx, model.LoginRequest{Username: "admin", Password: "wrong"})
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	}

	// correct password is rejected while locked
	_, err := svc.Login(ctx, model.LoginRequest{Username: "admin", Password: "p"})
	assert.ErrorIs(t, err, model.ErrTooManyAttempts)

	mr.FastForward(failedLoginLock + time.Second)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "admin", Password: "p"})
	assert.NoError(t, err)
	assert.False(t, mr.Exists(failedLoginStart+"admin"))
}
