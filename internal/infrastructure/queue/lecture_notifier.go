package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/shared"
)

// Enqueuer is the part of *asynq.Client the notifier needs
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// LectureNotifier hands "lecture created" mails to the worker
type LectureNotifier struct {
	client Enqueuer
}

func NewLectureNotifier(client Enqueuer) *LectureNotifier {
	return &LectureNotifier{client: client}
}

func (n *LectureNotifier) NotifyCreated(ctx context.Context, lecture *model.Lecture) error {
	payload, err := json.Marshal(model.NewLectureCreatedPayload(lecture))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeLectureCreated, payload)
	_, err = n.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueNotification),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeLectureCreated, err)
	}
	return nil
}
