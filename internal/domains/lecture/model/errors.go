package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeLectureNotFound     = "LEC001"
	ErrCodeConstraintViolation = "LEC002"
	ErrCodeInvalidAccount      = "LEC003"
	ErrCodeNameExists          = "LEC004"
	ErrCodeInvalidVersion      = "LEC005"
	ErrCodePreconditionFailed  = "LEC006"
	ErrCodeAccessForbidden     = "LEC007"
	ErrCodeStoreUnavailable    = "LEC008"
)

// Errors
var (
	ErrLectureNotFound     = errors.New("lecture not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidAccount      = errors.New("account payload missing")
	ErrNameExists          = errors.New("name already exists")
	ErrInvalidVersion      = errors.New("invalid version number")
	ErrPreconditionFailed  = errors.New("stale version number")
	ErrAccessForbidden     = errors.New("access forbidden")
	ErrStoreUnavailable    = errors.New("store unavailable")

	// ErrOptimisticLock is returned by stores when the expected version is stale
	ErrOptimisticLock = errors.New("optimistic lock failure")
)

// LectureError custom error type
type LectureError struct {
	Code    string
	Message string
	Err     error
}

func (e *LectureError) Error() string {
	return e.Message
}

func (e *LectureError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewLectureNotFoundError(id string) *LectureError {
	return &LectureError{
		Code:    ErrCodeLectureNotFound,
		Message: fmt.Sprintf("no lecture with id %s", id),
		Err:     ErrLectureNotFound,
	}
}

func NewInvalidAccountError() *LectureError {
	return &LectureError{
		Code:    ErrCodeInvalidAccount,
		Message: "a lecture requires an account with username and password",
		Err:     ErrInvalidAccount,
	}
}

func NewNameExistsError(name string) *LectureError {
	return &LectureError{
		Code:    ErrCodeNameExists,
		Message: fmt.Sprintf("the name %s already exists", name),
		Err:     ErrNameExists,
	}
}

func NewInvalidVersionError(version string) *LectureError {
	return &LectureError{
		Code:    ErrCodeInvalidVersion,
		Message: fmt.Sprintf("invalid version number: %s", version),
		Err:     ErrInvalidVersion,
	}
}

func NewPreconditionFailedError(version int) *LectureError {
	return &LectureError{
		Code:    ErrCodePreconditionFailed,
		Message: fmt.Sprintf("stale version number: %d", version),
		Err:     ErrPreconditionFailed,
	}
}

func NewStoreUnavailableError(err error) *LectureError {
	return &LectureError{
		Code:    ErrCodeStoreUnavailable,
		Message: "lecture store did not respond in time",
		Err:     errors.Join(ErrStoreUnavailable, err),
	}
}

// =====================================================
// ACCESS FORBIDDEN
// =====================================================

// AccessForbiddenError carries the caller's roles for diagnostics
type AccessForbiddenError struct {
	Roles []string
}

func (e *AccessForbiddenError) Error() string {
	return fmt.Sprintf("access forbidden for roles [%s]", strings.Join(e.Roles, ", "))
}

func (e *AccessForbiddenError) Unwrap() error {
	return ErrAccessForbidden
}

// =====================================================
// CONSTRAINT VIOLATIONS
// =====================================================

// Violation is one failed rule on one field path, e.g. instructor.first_name
type Violation struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

type ConstraintViolationError struct {
	Violations []Violation
}

func (e *ConstraintViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Property+": "+v.Message)
	}
	return "constraint violations: " + strings.Join(parts, "; ")
}

func (e *ConstraintViolationError) Unwrap() error {
	return ErrConstraintViolation
}
