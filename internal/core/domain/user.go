package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrAuthenticationRequired = errors.New("authentication required")
var ErrAuthorizationDenied = errors.New("authorization denied")

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// User models a registered account. The password hash never leaves the
// process boundary: it is excluded from JSON serialization entirely.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
