package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles known to the lecture domain
const (
	RoleAdmin   = "admin"
	RoleLecture = "lecture"
)

// =====================================================
// LECTURE ENTITY
// =====================================================

// Lecture is the only mutable entity of the service.
// ID, Version and the timestamps are assigned by the store.
type Lecture struct {
	ID         uuid.UUID  `json:"id"`
	Version    int        `json:"version"`
	Name       string     `json:"name"`
	Instructor Instructor `json:"instructor"`
	Room       Room       `json:"room"`
	Username   *string    `json:"owning_username,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Account is only carried on create and never persisted
	Account *AccountPayload `json:"-"`
}

type Instructor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Room struct {
	Building   string `json:"building"`
	RoomNumber string `json:"room_number"`
}

// AccountPayload carries the credentials of the account created together with a lecture
type AccountPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// OwnedBy reports whether username owns the lecture
func (l *Lecture) OwnedBy(username string) bool {
	return l.Username != nil && *l.Username == username
}

// Clone returns a deep copy; stores hand out clones so callers cannot mutate stored state
func (l *Lecture) Clone() *Lecture {
	if l == nil {
		return nil
	}
	c := *l
	if l.Username != nil {
		u := *l.Username
		c.Username = &u
	}
	if l.Account != nil {
		a := *l.Account
		c.Account = &a
	}
	return &c
}

// ApplyMutable copies the caller-editable fields of src onto l
func (l *Lecture) ApplyMutable(src *Lecture) {
	l.Name = src.Name
	l.Instructor = src.Instructor
	l.Room = src.Room
}

// ETag is the strong validator derived from the version
func (l *Lecture) ETag() string {
	return ETagFor(l.Version)
}
