package model

import (
	"errors"
	"fmt"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Account is a login identity with a set of roles
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Account) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// ========================================
// DTOs
// ========================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	Roles       []string  `json:"roles"`
}

type RolesResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// ========================================
// ERRORS
// ========================================

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrUsernameExists      = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
	ErrInvalidAccountInput = errors.New("username and password are required")
)

// UsernameExistsError names the colliding username
type UsernameExistsError struct {
	Username string
}

func (e *UsernameExistsError) Error() string {
	return fmt.Sprintf("the username %s already exists", e.Username)
}

func (e *UsernameExistsError) Unwrap() error {
	return ErrUsernameExists
}
