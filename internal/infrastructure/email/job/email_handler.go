package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/infrastructure/email"
)

// ============================================
// Lecture Created Email Handler
// ============================================

type LectureCreatedEmailHandler struct {
	emailService email.EmailService
}

func NewLectureCreatedEmailHandler(emailService email.EmailService) *LectureCreatedEmailHandler {
	return &LectureCreatedEmailHandler{
		emailService: emailService,
	}
}

func (h *LectureCreatedEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.LectureCreatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal LectureCreated payload")
		// malformed payloads never succeed on retry
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("lecture_id", payload.ID.String()).
		Msg("Processing lecture created email")

	data := email.LectureCreatedData{
		ID:         payload.ID.String(),
		Name:       payload.Name,
		Instructor: payload.Instructor,
		Building:   payload.Building,
		RoomNumber: payload.RoomNumber,
		Owner:      payload.Owner,
	}
	if err := h.emailService.SendLectureCreatedEmail(ctx, data); err != nil {
		log.Error().Err(err).Str("lecture_id", payload.ID.String()).Msg("Failed to send lecture created email")
		return fmt.Errorf("send lecture created email: %w", err)
	}

	log.Info().
		Str("lecture_id", payload.ID.String()).
		Msg("Lecture created email sent successfully")

	return nil
}
