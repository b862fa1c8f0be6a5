package repository

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"lecture-backend/internal/domains/lecture/model"
)

// =====================================================
// LECTURE REPOSITORY INTERFACE
// =====================================================

// RepositoryInterface is the lecture store port. Criteria are combined
// conjunctively; an empty list matches every lecture.
type RepositoryInterface interface {
	// FindOne returns model.ErrLectureNotFound when nothing matches
	FindOne(ctx context.Context, criteria ...*model.Criterion) (*model.Lecture, error)

	FindAll(ctx context.Context, criteria ...*model.Criterion) ([]*model.Lecture, error)

	// Stream yields lectures lazily; the sequence can be ranged over once
	Stream(ctx context.Context, criteria ...*model.Criterion) iter.Seq2[*model.Lecture, error]

	Exists(ctx context.Context, criteria ...*model.Criterion) (bool, error)

	// Insert assigns id, version 0 and timestamps
	Insert(ctx context.Context, lecture *model.Lecture) (*model.Lecture, error)

	// CompareAndSwap replaces the mutable fields of the stored lecture with
	// lecture.ID when its version equals expectedVersion and advances the
	// version by one. Stale versions yield model.ErrOptimisticLock, unknown
	// ids model.ErrLectureNotFound.
	CompareAndSwap(ctx context.Context, lecture *model.Lecture, expectedVersion int) (*model.Lecture, error)

	// RemoveMatching returns the number of removed lectures
	RemoveMatching(ctx context.Context, criteria ...*model.Criterion) (int64, error)

	// ========================================
	// VALUES
	// ========================================

	// FindNamesByPrefix returns distinct names, case-insensitive prefix, sorted
	FindNamesByPrefix(ctx context.Context, prefix string) ([]string, error)

	FindVersionByID(ctx context.Context, id uuid.UUID) (int, error)
}
