package job

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/shared"
)

type stubMultimedia struct {
	removed int
	err     error
	calls   int
}

func (s *stubMultimedia) Upload(context.Context, uuid.UUID, []byte, string) error { return nil }

func (s *stubMultimedia) Download(context.Context, uuid.UUID, string) (*model.Media, error) {
	return nil, model.ErrMediaNotFound
}

func (s *stubMultimedia) CleanupOrphans(context.Context) (int, error) {
	s.calls++
	return s.removed, s.err
}

func TestCleanupOrphanMediaHandler(t *testing.T) {
	task := asynq.NewTask(shared.TypeCleanupOrphanMedia, nil)

	ok := &stubMultimedia{removed: 2}
	assert.NoError(t, NewCleanupOrphanMediaHandler(ok).ProcessTask(context.Background(), task))
	assert.Equal(t, 1, ok.calls)

	failing := &stubMultimedia{err: errors.New("minio down")}
	assert.ErrorContains(t, NewCleanupOrphanMediaHandler(failing).ProcessTask(context.Background(), task), "minio down")
}
