package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"lecture-backend/internal/shared"
	"lecture-backend/pkg/container"
	"lecture-backend/pkg/logger"
)

// asynqServer wraps asynq.Server
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the Asynq server and runs it in the background
func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		c.RedisClientOpt(),
		asynq.Config{
			Queues:          shared.Queues,
			Concurrency:     10,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("[Asynq] ❌ Task failed - Type: "+task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to ShutdownTimeout
func (s *asynqServer) Shutdown() {
	log.Println("[Worker] Shutting down (waiting max 30s)...")
	s.Server.Shutdown()
	log.Println("[Worker] ✓ Gracefully stopped")
}
