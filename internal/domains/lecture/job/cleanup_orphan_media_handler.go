package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	lectureService "lecture-backend/internal/domains/lecture/service"
)

// CleanupOrphanMediaHandler xóa multimedia của các lecture đã bị xóa
type CleanupOrphanMediaHandler struct {
	multimediaService lectureService.MultimediaServiceInterface
}

func NewCleanupOrphanMediaHandler(multimediaService lectureService.MultimediaServiceInterface) *CleanupOrphanMediaHandler {
	return &CleanupOrphanMediaHandler{
		multimediaService: multimediaService,
	}
}

func (h *CleanupOrphanMediaHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	log.Info().Str("task", task.Type()).Msg("Cleaning up orphan media")

	removed, err := h.multimediaService.CleanupOrphans(ctx)
	if err != nil {
		log.Error().Err(err).Int("removed", removed).Msg("Orphan media cleanup failed")
		return fmt.Errorf("cleanup orphan media: %w", err)
	}

	log.Info().Int("removed", removed).Msg("Orphan media cleanup done")
	return nil
}
