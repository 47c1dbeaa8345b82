package models

import (
	"time"

	"github.com/google/uuid"
)

// Join request status values. A request moves from pending to approved or
// denied exactly once and is never deleted afterwards.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)

// JoinRequest represents a non-creator's request to join a trip.
// RequestedGender is a snapshot of the requester's profile gender at
// submission time; later profile edits do not reclassify the request.
type JoinRequest struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TripID          uuid.UUID  `json:"trip_id" db:"trip_id"`
	RequesterID     uuid.UUID  `json:"requester_id" db:"requester_id"`
	RequestedGender string     `json:"requested_gender" db:"requested_gender"`
	Status          string     `json:"status" db:"status"`
	RequestedAt     time.Time  `json:"requested_at" db:"requested_at"`
	DecidedAt       *time.Time `json:"decided_at" db:"decided_at"`
}

// PendingRequest is a join request joined with the requester's identity and
// the trip it targets, as shown on the creator's requests tab.
type PendingRequest struct {
	JoinRequest
	TripDestination string `json:"trip_destination"`
	RequesterName   string `json:"requester_name"`
	RequesterEmail  string `json:"requester_email"`
}
