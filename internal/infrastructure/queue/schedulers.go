package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"lecture-backend/internal/config"
	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/shared"
	"lecture-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterCleanupJobs() error {
	return s.registerCleanupOrphanMediaJob()
}

// ================================================
// JOB: Cleanup Orphan Media (daily at 3 AM by default)
// ================================================
func (s *Scheduler) registerCleanupOrphanMediaJob() error {
	payload, err := json.Marshal(model.CleanupOrphanMediaPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupOrphanMedia, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.OrphanMediaCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CleanupOrphanMedia job", err)
		return err
	}

	logger.Info("✓ Registered CleanupOrphanMedia", map[string]interface{}{
		"cron": s.jobConfig.OrphanMediaCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
