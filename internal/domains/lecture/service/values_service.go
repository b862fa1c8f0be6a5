package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/repository"
)

// valuesService answers lookups of single attributes
type valuesService struct {
	repo         repository.RepositoryInterface
	storeTimeout time.Duration
}

func NewValuesService(repo repository.RepositoryInterface, storeTimeout time.Duration) ValuesServiceInterface {
	return &valuesService{repo: repo, storeTimeout: storeTimeout}
}

// FindNamesByPrefix returns ErrLectureNotFound when no name matches
func (s *valuesService) FindNamesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	names, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) ([]string, error) {
		return s.repo.FindNamesByPrefix(ctx, prefix)
	})
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, model.ErrLectureNotFound
	}
	return names, nil
}

func (s *valuesService) FindVersionByID(ctx context.Context, id uuid.UUID) (int, error) {
	version, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (int, error) {
		return s.repo.FindVersionByID(ctx, id)
	})
	if errors.Is(err, model.ErrLectureNotFound) {
		return 0, model.NewLectureNotFoundError(id.String())
	}
	return version, err
}
