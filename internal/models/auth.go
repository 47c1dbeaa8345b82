package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system. PasswordHash is empty for
// accounts created through Google sign-in.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	PictureURL   *string   `json:"picture" db:"picture_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
