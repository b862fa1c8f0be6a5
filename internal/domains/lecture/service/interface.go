package service

import (
	"context"
	"io"
	"iter"

	"github.com/google/uuid"

	accountModel "lecture-backend/internal/domains/account/model"
	"lecture-backend/internal/domains/lecture/model"
)

// =====================================================
// PORTS
// =====================================================

// AccessPort resolves roles and creates the account owning a new lecture
type AccessPort interface {
	// RolesOf reports found=false for unknown accounts
	RolesOf(ctx context.Context, username string) (roles []string, found bool, err error)
	CreateAccount(ctx context.Context, username, password string, roles []string) (*accountModel.Account, error)
}

// Notifier is told about every created lecture. Failures are logged only.
type Notifier interface {
	NotifyCreated(ctx context.Context, lecture *model.Lecture) error
}

// Transactor runs fn in one store transaction carried by the ctx passed to fn.
// Account and lecture writes made with that ctx commit or roll back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ObjectStorage holds multimedia objects
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Download returns storage.ErrObjectNotFound for missing keys
	Download(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Thumbnailer derives a preview image from an upload
type Thumbnailer interface {
	Thumbnail(data []byte) ([]byte, error)
}

// =====================================================
// LECTURE SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// FindByID returns the lecture to its owner or to an admin
	FindByID(ctx context.Context, id uuid.UUID, username string) (*model.Lecture, error)

	// Find lists all lectures for empty params, otherwise filters by query criteria
	Find(ctx context.Context, params map[string][]string) ([]*model.Lecture, error)

	Stream(ctx context.Context) iter.Seq2[*model.Lecture, error]

	Create(ctx context.Context, candidate *model.Lecture) (*model.Lecture, error)

	// Update applies candidate when version matches the stored version
	Update(ctx context.Context, candidate *model.Lecture, id uuid.UUID, version string) (*model.Lecture, error)

	DeleteByID(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByName(ctx context.Context, name string) (int64, error)

	// Export writes all lectures as an xlsx workbook
	Export(ctx context.Context, w io.Writer) error
}

type ValuesServiceInterface interface {
	FindNamesByPrefix(ctx context.Context, prefix string) ([]string, error)
	FindVersionByID(ctx context.Context, id uuid.UUID) (int, error)
}

type MultimediaServiceInterface interface {
	Upload(ctx context.Context, id uuid.UUID, data []byte, contentType string) error
	Download(ctx context.Context, id uuid.UUID, variant string) (*model.Media, error)
	// CleanupOrphans removes media of lectures that no longer exist
	CleanupOrphans(ctx context.Context) (int, error)
}
