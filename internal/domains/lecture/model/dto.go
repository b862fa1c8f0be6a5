package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// LectureRequest is the body of POST and PUT.
// Account is required on create and ignored on update.
type LectureRequest struct {
	Name       string          `json:"name"`
	Instructor Instructor      `json:"instructor"`
	Room       Room            `json:"room"`
	Account    *AccountPayload `json:"account,omitempty"`
}

func (r *LectureRequest) ToLecture() *Lecture {
	return &Lecture{
		Name:       r.Name,
		Instructor: r.Instructor,
		Room:       r.Room,
		Account:    r.Account,
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// LectureSummary is one row of the export and the stream
type LectureSummary struct {
	ID         uuid.UUID `json:"id"`
	Version    int       `json:"version"`
	Name       string    `json:"name"`
	Instructor string    `json:"instructor"`
	Building   string    `json:"building"`
	RoomNumber string    `json:"room_number"`
	Owner      string    `json:"owner"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewLectureSummary(l *Lecture) LectureSummary {
	owner := ""
	if l.Username != nil {
		owner = *l.Username
	}
	return LectureSummary{
		ID:         l.ID,
		Version:    l.Version,
		Name:       l.Name,
		Instructor: l.Instructor.FirstName + " " + l.Instructor.LastName,
		Building:   l.Room.Building,
		RoomNumber: l.Room.RoomNumber,
		Owner:      owner,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// ETagFor formats a version as a strong validator: "3"
func ETagFor(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}
