package main

import (
	"github.com/hibiken/asynq"

	lectureJob "lecture-backend/internal/domains/lecture/job"
	"lecture-backend/internal/infrastructure/email"
	emailjob "lecture-backend/internal/infrastructure/email/job"
	"lecture-backend/internal/shared"
	"lecture-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Notification handlers
	lectureCreated *emailjob.LectureCreatedEmailHandler

	// Maintenance handlers
	cleanupOrphanMedia *lectureJob.CleanupOrphanMediaHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.Email)

	return &HandlerRegistry{
		lectureCreated:     emailjob.NewLectureCreatedEmailHandler(emailSvc),
		cleanupOrphanMedia: lectureJob.NewCleanupOrphanMediaHandler(c.MultimediaService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeLectureCreated, h.lectureCreated.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupOrphanMedia, h.cleanupOrphanMedia.ProcessTask)
}
