package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type lectureService struct {
	repo         repository.RepositoryInterface
	access       AccessPort
	notifier     Notifier
	tx           Transactor
	storeTimeout time.Duration
}

func NewLectureService(
	repo repository.RepositoryInterface,
	access AccessPort,
	notifier Notifier,
	tx Transactor,
	storeTimeout time.Duration,
) ServiceInterface {
	return &lectureService{
		repo:         repo,
		access:       access,
		notifier:     notifier,
		tx:           tx,
		storeTimeout: storeTimeout,
	}
}

// bounded runs fn with the store timeout and maps an expired deadline to StoreUnavailable
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		var zero T
		return zero, model.NewStoreUnavailableError(err)
	}
	return v, err
}

// =====================================================
// READ
// =====================================================

func (s *lectureService) FindByID(ctx context.Context, id uuid.UUID, username string) (*model.Lecture, error) {
	log.Debug().Str("id", id.String()).Str("username", username).Msg("FindByID")

	lecture, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (*model.Lecture, error) {
		return s.repo.FindOne(ctx, model.ByID(id))
	})
	if err != nil {
		if errors.Is(err, model.ErrLectureNotFound) {
			return nil, model.NewLectureNotFoundError(id.String())
		}
		return nil, err
	}

	if lecture.OwnedBy(username) {
		return lecture, nil
	}

	roles, found, err := s.access.RolesOf(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}
	if !found {
		// unknown accounts see the same answer as for a missing lecture
		log.Debug().Str("username", username).Msg("FindByID: account not found")
		return nil, model.NewLectureNotFoundError(id.String())
	}
	if !slices.Contains(roles, model.RoleAdmin) {
		return nil, &model.AccessForbiddenError{Roles: roles}
	}

	return lecture, nil
}

func (s *lectureService) Find(ctx context.Context, params map[string][]string) ([]*model.Lecture, error) {
	if len(params) == 0 {
		return bounded(ctx, s.storeTimeout, func(ctx context.Context) ([]*model.Lecture, error) {
			return s.repo.FindAll(ctx)
		})
	}

	criteria := model.BuildCriteria(params)
	if model.HasInvalid(criteria) {
		log.Debug().Interface("params", params).Msg("Find: invalid criteria, empty result")
		return []*model.Lecture{}, nil
	}

	lectures, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) ([]*model.Lecture, error) {
		return s.repo.FindAll(ctx, criteria...)
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(lectures)).Msg("Find")
	return lectures, nil
}

// Stream is unbounded; it lives as long as the caller's context
func (s *lectureService) Stream(ctx context.Context) iter.Seq2[*model.Lecture, error] {
	return s.repo.Stream(ctx)
}

// =====================================================
// CREATE
// =====================================================

func (s *lectureService) Create(ctx context.Context, candidate *model.Lecture) (*model.Lecture, error) {
	// Step 1: Validate all fields
	if err := model.ValidateLecture(candidate); err != nil {
		return nil, err
	}

	// Step 2: Account payload
	account := candidate.Account
	if account == nil || account.Username == "" || account.Password == "" {
		return nil, model.NewInvalidAccountError()
	}

	// Step 3: Unique name
	exists, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (bool, error) {
		return s.repo.Exists(ctx, model.ByName(candidate.Name))
	})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewNameExistsError(candidate.Name)
	}

	// Step 4 + 5: account và lecture commit cùng nhau hoặc không gì cả
	var lecture *model.Lecture
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// username collisions propagate as-is
		created, err := s.access.CreateAccount(ctx, account.Username, account.Password, []string{model.RoleLecture})
		if err != nil {
			return err
		}

		toInsert := candidate.Clone()
		toInsert.ID = uuid.Nil
		toInsert.Account = nil
		toInsert.Username = &created.Username

		lecture, err = s.repo.Insert(ctx, toInsert)
		if err != nil {
			return fmt.Errorf("insert lecture: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 6: Notify, never fails the create
	if s.notifier != nil {
		if err := s.notifier.NotifyCreated(ctx, lecture); err != nil {
			log.Error().Err(err).Str("id", lecture.ID.String()).Msg("Failed to notify about new lecture")
		}
	}

	log.Debug().Str("id", lecture.ID.String()).Str("name", lecture.Name).Msg("Lecture created")
	return lecture, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *lectureService) Update(ctx context.Context, candidate *model.Lecture, id uuid.UUID, version string) (*model.Lecture, error) {
	log.Debug().Str("id", id.String()).Str("version", version).Msg("Update")

	if err := model.ValidateLecture(candidate); err != nil {
		return nil, err
	}

	stored, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (*model.Lecture, error) {
		return s.repo.FindOne(ctx, model.ByID(id))
	})
	if err != nil {
		if errors.Is(err, model.ErrLectureNotFound) {
			return nil, model.NewLectureNotFoundError(id.String())
		}
		return nil, err
	}

	expected, err := strconv.Atoi(version)
	if err != nil {
		return nil, model.NewInvalidVersionError(version)
	}

	if candidate.Name != stored.Name {
		exists, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (bool, error) {
			return s.repo.Exists(ctx, model.ByName(candidate.Name))
		})
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.NewNameExistsError(candidate.Name)
		}
	}

	toSave := stored.Clone()
	toSave.ApplyMutable(candidate)

	updated, err := s.repo.CompareAndSwap(ctx, toSave, expected)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrOptimisticLock):
			return nil, model.NewPreconditionFailedError(expected)
		case errors.Is(err, model.ErrLectureNotFound):
			return nil, model.NewLectureNotFoundError(id.String())
		}
		return nil, err
	}

	log.Debug().Str("id", id.String()).Int("version", updated.Version).Msg("Lecture updated")
	return updated, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *lectureService) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := s.repo.RemoveMatching(ctx, model.ByID(id))
	if err != nil {
		return 0, fmt.Errorf("delete lecture %s: %w", id, err)
	}
	log.Debug().Str("id", id.String()).Int64("removed", n).Msg("DeleteByID")
	return n, nil
}

func (s *lectureService) DeleteByName(ctx context.Context, name string) (int64, error) {
	n, err := s.repo.RemoveMatching(ctx, model.ByName(name))
	if err != nil {
		return 0, fmt.Errorf("delete lecture %q: %w", name, err)
	}
	log.Debug().Str("name", name).Int64("removed", n).Msg("DeleteByName")
	return n, nil
}
