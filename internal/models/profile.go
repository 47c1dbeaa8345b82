package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the travel-facing details a user fills in after signing up.
// Gender drives capacity matching when the user requests to join a trip; the
// ledger snapshots it per request, so editing it here never reclassifies a
// request that was already submitted.
type Profile struct {
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Age            *int      `json:"age" db:"age"`
	Gender         *string   `json:"gender" db:"gender"` // male | female | other
	PhoneNumber    *string   `json:"phone_number" db:"phone_number"`
	College        *string   `json:"college" db:"college"`
	Course         *string   `json:"course" db:"course"`
	GraduationYear *int      `json:"graduation_year" db:"graduation_year"`
	Location       *string   `json:"location" db:"location"`
	Bio            *string   `json:"bio" db:"bio"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
