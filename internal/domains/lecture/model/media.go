package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Media variants stored per lecture
const (
	VariantOriginal  = "original"
	VariantThumbnail = "thumbnail"
)

var (
	ErrMediaNotFound = errors.New("multimedia not found")
	ErrInvalidMedia  = errors.New("invalid multimedia upload")
)

// Media is a binary attachment of a lecture
type Media struct {
	Data        []byte
	ContentType string
}

// MediaKey is the object key of a lecture's media variant
func MediaKey(id uuid.UUID, variant string) string {
	return fmt.Sprintf("lectures/%s/%s", id, variant)
}

// MediaPrefix covers every variant of a lecture
func MediaPrefix(id uuid.UUID) string {
	return fmt.Sprintf("lectures/%s/", id)
}

// =====================================================
// TASK PAYLOADS
// =====================================================

// LectureCreatedPayload is enqueued after a lecture was created
type LectureCreatedPayload struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Instructor string    `json:"instructor"`
	Building   string    `json:"building"`
	RoomNumber string    `json:"room_number"`
	Owner      string    `json:"owner"`
}

func NewLectureCreatedPayload(l *Lecture) LectureCreatedPayload {
	s := NewLectureSummary(l)
	return LectureCreatedPayload{
		ID:         s.ID,
		Name:       s.Name,
		Instructor: s.Instructor,
		Building:   s.Building,
		RoomNumber: s.RoomNumber,
		Owner:      s.Owner,
	}
}

// CleanupOrphanMediaPayload drives the scheduled media cleanup
type CleanupOrphanMediaPayload struct{}
