package service

import (
	"context"
	"maps"

	"github.com/stretchr/testify/mock"

	accountModel "lecture-backend/internal/domains/account/model"
	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/repository"
)

type mockAccess struct {
	mock.Mock
}

func (m *mockAccess) RolesOf(ctx context.Context, username string) ([]string, bool, error) {
	args := m.Called(ctx, username)
	var roles []string
	if r := args.Get(0); r != nil {
		roles = r.([]string)
	}
	return roles, args.Bool(1), args.Error(2)
}

func (m *mockAccess) CreateAccount(ctx context.Context, username, password string, roles []string) (*accountModel.Account, error) {
	args := m.Called(ctx, username, password, roles)
	if a := args.Get(0); a != nil {
		return a.(*accountModel.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyCreated(ctx context.Context, lecture *model.Lecture) error {
	return m.Called(ctx, lecture).Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Download(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	var data []byte
	if d := args.Get(0); d != nil {
		data = d.([]byte)
	}
	return data, args.String(1), args.Error(2)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	var keys []string
	if k := args.Get(0); k != nil {
		keys = k.([]string)
	}
	return keys, args.Error(1)
}

func (m *mockStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

type mockThumbnailer struct {
	mock.Mock
}

func (m *mockThumbnailer) Thumbnail(data []byte) ([]byte, error) {
	args := m.Called(data)
	var out []byte
	if d := args.Get(0); d != nil {
		out = d.([]byte)
	}
	return out, args.Error(1)
}

// slowRepository blocks reads until the context expires
type slowRepository struct {
	repository.RepositoryInterface
}

func (r slowRepository) FindOne(ctx context.Context, _ ...*model.Criterion) (*model.Lecture, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (r slowRepository) FindAll(ctx context.Context, _ ...*model.Criterion) ([]*model.Lecture, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (r slowRepository) Exists(ctx context.Context, _ ...*model.Criterion) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

// inlineTransactor runs fn without a transaction, like the memory store
type inlineTransactor struct{}

func (inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type pendingKey struct{}

// stagingAccess keeps accounts created inside a stagingTransactor pending
// until that transaction commits
type stagingAccess struct {
	accounts map[string][]string
}

func newStagingAccess() *stagingAccess {
	return &stagingAccess{accounts: map[string][]string{}}
}

func (a *stagingAccess) RolesOf(_ context.Context, username string) ([]string, bool, error) {
	roles, ok := a.accounts[username]
	return roles, ok, nil
}

func (a *stagingAccess) CreateAccount(ctx context.Context, username, _ string, roles []string) (*accountModel.Account, error) {
	pending, inTx := ctx.Value(pendingKey{}).(map[string][]string)
	if _, ok := a.accounts[username]; ok {
		return nil, &accountModel.UsernameExistsError{Username: username}
	}
	if _, ok := pending[username]; ok {
		return nil, &accountModel.UsernameExistsError{Username: username}
	}

	if inTx {
		pending[username] = roles
	} else {
		a.accounts[username] = roles
	}
	return &accountModel.Account{Username: username, Roles: roles}, nil
}

type stagingTransactor struct {
	access    *stagingAccess
	commits   int
	rollbacks int
}

func (t *stagingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	pending := map[string][]string{}
	if err := fn(context.WithValue(ctx, pendingKey{}, pending)); err != nil {
		t.rollbacks++
		return err
	}
	maps.Copy(t.access.accounts, pending)
	t.commits++
	return nil
}

// failingInsertRepository fails every Insert and records whether it ran inside a transaction
type failingInsertRepository struct {
	repository.RepositoryInterface
	err      error
	inTx     bool
	attempts int
}

func (r *failingInsertRepository) Insert(ctx context.Context, _ *model.Lecture) (*model.Lecture, error) {
	r.attempts++
	_, r.inTx = ctx.Value(pendingKey{}).(map[string][]string)
	return nil, r.err
}
