package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/repository"
	"lecture-backend/internal/infrastructure/storage"
)

// =====================================================
// MULTIMEDIA SERVICE
// =====================================================

type multimediaService struct {
	repo         repository.RepositoryInterface
	storage      ObjectStorage
	thumbnailer  Thumbnailer
	storeTimeout time.Duration
	maxSize      int64
}

func NewMultimediaService(
	repo repository.RepositoryInterface,
	storage ObjectStorage,
	thumbnailer Thumbnailer,
	storeTimeout time.Duration,
	maxSize int64,
) MultimediaServiceInterface {
	return &multimediaService{
		repo:         repo,
		storage:      storage,
		thumbnailer:  thumbnailer,
		storeTimeout: storeTimeout,
		maxSize:      maxSize,
	}
}

func (s *multimediaService) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return bounded(ctx, s.storeTimeout, func(ctx context.Context) (bool, error) {
		return s.repo.Exists(ctx, model.ByID(id))
	})
}

// Upload replaces the media of a lecture. A missing lecture is ErrInvalidMedia.
func (s *multimediaService) Upload(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	if len(data) == 0 || contentType == "" {
		return fmt.Errorf("%w: empty body or content type", model.ErrInvalidMedia)
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return fmt.Errorf("%w: exceeds %d bytes", model.ErrInvalidMedia, s.maxSize)
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: no lecture with id %s", model.ErrInvalidMedia, id)
	}

	if _, err := s.storage.Upload(ctx, model.MediaKey(id, model.VariantOriginal), data, contentType); err != nil {
		return fmt.Errorf("upload media: %w", err)
	}

	// A stale thumbnail must not outlive its original
	if err := s.storage.Delete(ctx, model.MediaKey(id, model.VariantThumbnail)); err != nil {
		log.Warn().Err(err).Str("id", id.String()).Msg("Failed to delete old thumbnail")
	}

	if s.thumbnailer != nil && storage.IsImage(contentType) {
		thumb, err := s.thumbnailer.Thumbnail(data)
		if err != nil {
			log.Warn().Err(err).Str("id", id.String()).Msg("Thumbnail generation failed")
		} else if _, err := s.storage.Upload(ctx, model.MediaKey(id, model.VariantThumbnail), thumb, "image/jpeg"); err != nil {
			log.Warn().Err(err).Str("id", id.String()).Msg("Failed to upload thumbnail")
		}
	}

	log.Debug().Str("id", id.String()).Str("content_type", contentType).Int("size", len(data)).Msg("Media uploaded")
	return nil
}

func (s *multimediaService) Download(ctx context.Context, id uuid.UUID, variant string) (*model.Media, error) {
	if variant == "" {
		variant = model.VariantOriginal
	}
	if variant != model.VariantOriginal && variant != model.VariantThumbnail {
		return nil, fmt.Errorf("%w: unknown variant %s", model.ErrInvalidMedia, variant)
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewLectureNotFoundError(id.String())
	}

	data, contentType, err := s.storage.Download(ctx, model.MediaKey(id, variant))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, model.ErrMediaNotFound
		}
		return nil, fmt.Errorf("download media: %w", err)
	}

	if strings.Contains(contentType, "*") || contentType == "" {
		contentType = "image/png"
	}

	return &model.Media{Data: data, ContentType: contentType}, nil
}

// CleanupOrphans deletes media folders whose lecture was deleted
func (s *multimediaService) CleanupOrphans(ctx context.Context) (int, error) {
	keys, err := s.storage.ListKeys(ctx, "lectures/")
	if err != nil {
		return 0, fmt.Errorf("list media: %w", err)
	}

	checked := make(map[uuid.UUID]struct{})
	removed := 0
	for _, key := range keys {
		// lectures/<id>/<variant>
		parts := strings.Split(key, "/")
		if len(parts) < 3 {
			continue
		}
		id, err := uuid.Parse(parts[1])
		if err != nil {
			continue
		}
		if _, ok := checked[id]; ok {
			continue
		}
		checked[id] = struct{}{}

		exists, err := s.exists(ctx, id)
		if err != nil {
			return removed, err
		}
		if exists {
			continue
		}

		if err := s.storage.DeleteByPrefix(ctx, model.MediaPrefix(id)); err != nil {
			return removed, fmt.Errorf("delete media of %s: %w", id, err)
		}
		removed++
	}

	log.Info().Int("removed", removed).Msg("Orphan media cleanup finished")
	return removed, nil
}
