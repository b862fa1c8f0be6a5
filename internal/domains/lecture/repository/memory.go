package repository

import (
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lecture-backend/internal/domains/lecture/model"
)

// =====================================================
// IN-MEMORY REPOSITORY
// =====================================================

// memoryRepository keeps lectures in insertion order behind a mutex.
// Test double for the Postgres store; it has no transactions.
type memoryRepository struct {
	mu       sync.RWMutex
	lectures []*model.Lecture
	now      func() time.Time
}

func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{now: time.Now}
}

func (r *memoryRepository) FindOne(ctx context.Context, criteria ...*model.Criterion) (*model.Lecture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.lectures {
		if model.MatchesAll(l, criteria) {
			return l.Clone(), nil
		}
	}
	return nil, model.ErrLectureNotFound
}

func (r *memoryRepository) FindAll(ctx context.Context, criteria ...*model.Criterion) ([]*model.Lecture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Lecture, 0)
	for _, l := range r.lectures {
		if model.MatchesAll(l, criteria) {
			result = append(result, l.Clone())
		}
	}
	return result, nil
}

func (r *memoryRepository) Stream(ctx context.Context, criteria ...*model.Criterion) iter.Seq2[*model.Lecture, error] {
	return func(yield func(*model.Lecture, error) bool) {
		lectures, err := r.FindAll(ctx, criteria...)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, l := range lectures {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(l, nil) {
				return
			}
		}
	}
}

func (r *memoryRepository) Exists(ctx context.Context, criteria ...*model.Criterion) (bool, error) {
	_, err := r.FindOne(ctx, criteria...)
	if err == model.ErrLectureNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *memoryRepository) Insert(ctx context.Context, lecture *model.Lecture) (*model.Lecture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := lecture.Clone()
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Version = 0
	stored.Account = nil
	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.lectures = append(r.lectures, stored)
	return stored.Clone(), nil
}

func (r *memoryRepository) CompareAndSwap(ctx context.Context, lecture *model.Lecture, expectedVersion int) (*model.Lecture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.lectures {
		if stored.ID != lecture.ID {
			continue
		}
		if stored.Version != expectedVersion {
			return nil, model.ErrOptimisticLock
		}
		stored.ApplyMutable(lecture)
		stored.Version++
		stored.UpdatedAt = r.now()
		return stored.Clone(), nil
	}
	return nil, model.ErrLectureNotFound
}

func (r *memoryRepository) RemoveMatching(ctx context.Context, criteria ...*model.Criterion) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.lectures[:0]
	var removed int64
	for _, l := range r.lectures {
		if model.MatchesAll(l, criteria) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	r.lectures = kept
	return removed, nil
}

func (r *memoryRepository) FindNamesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	lectures, err := r.FindAll(ctx, model.HasPrefix(model.FieldName, prefix))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(lectures))
	names := make([]string, 0, len(lectures))
	for _, l := range lectures {
		if _, ok := seen[l.Name]; ok {
			continue
		}
		seen[l.Name] = struct{}{}
		names = append(names, l.Name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

func (r *memoryRepository) FindVersionByID(ctx context.Context, id uuid.UUID) (int, error) {
	l, err := r.FindOne(ctx, model.ByID(id))
	if err != nil {
		return 0, err
	}
	return l.Version, nil
}
