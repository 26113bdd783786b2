package entity

import "time"

// User represents a live row of the `users` table; every query filters
// on deleted_at IS NULL. PasswordHash never leaves the service boundary.
type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"user_name"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"first_name"`
	LastName     *string   `json:"last_name"`
	Status       int       `json:"status"` // 0 = active
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthView is the projection used for credential checks.
type AuthView struct {
	ID           int64
	UserName     string
	PasswordHash string
	Status       int
}

// NewUser holds the columns written on registration.
type NewUser struct {
	UserName     string
	PasswordHash string
	FirstName    *string
	LastName     *string
}

// Patch lists the columns an update may touch; nil fields are left alone.
type Patch struct {
	UserName     *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
}
