// Package store persists trips and join requests. The Postgres
// implementation backs the server; the in-memory implementation backs unit
// tests and mirrors the same atomicity guarantees.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
)

var (
	// ErrNotFound is returned when a trip or request does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateRequest is returned by CreateRequest when the requester
	// already has a pending or approved request for the trip.
	ErrDuplicateRequest = errors.New("store: active request already exists")

	// ErrAlreadyDecided is returned when approving or denying a request
	// that is no longer pending.
	ErrAlreadyDecided = errors.New("store: request already decided")

	// ErrCapacityFull is returned by ApproveRequest when the atomic
	// compare-and-increment finds no remaining slot for the request's
	// gender. The request stays pending.
	ErrCapacityFull = errors.New("store: capacity full")

	// ErrCapacityBelowFilled is returned by UpdateTrip when the new
	// capacities would drop below the filled counters, which can happen
	// when an approval lands between the caller's read and its write.
	ErrCapacityBelowFilled = errors.New("store: capacity below filled")
)

// Store is the persistence contract for the trip and join-request ledger.
// ApproveRequest is the only writer of the filled counters and must
// serialize against itself per trip: of two approvals racing for a last
// slot, exactly one may succeed.
type Store interface {
	CreateTrip(ctx context.Context, t *models.Trip) error
	GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	// UpdateTrip rewrites the creator-editable fields plus status and
	// updated_at. Filled counters are not touched, and the write fails
	// with ErrCapacityBelowFilled if the new capacities undercut them.
	UpdateTrip(ctx context.Context, t *models.Trip) error
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	ListTripsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Trip, error)
	// ListOpenUpcomingTrips returns open trips starting after now, soonest
	// first, for the discovery feed.
	ListOpenUpcomingTrips(ctx context.Context, now time.Time, limit, offset int) ([]models.Trip, error)
	// ListPastTripsForUser returns trips the user created or joined whose
	// end date is before now, most recent first.
	ListPastTripsForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Trip, error)
	// SetItinerary overwrites the trip's itinerary text.
	SetItinerary(ctx context.Context, tripID uuid.UUID, text string, updatedAt time.Time) error

	CreateRequest(ctx context.Context, r *models.JoinRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)
	// HasActiveRequest reports whether the requester already has a pending
	// or approved request for the trip.
	HasActiveRequest(ctx context.Context, tripID, requesterID uuid.UUID) (bool, error)
	// ApproveRequest atomically increments the filled counter matching the
	// request's snapshotted gender, provided a slot remains, marks the
	// request approved and recomputes the trip status. On ErrCapacityFull
	// nothing changes and the request remains pending.
	ApproveRequest(ctx context.Context, requestID uuid.UUID, decidedAt time.Time) error
	// DenyRequest marks a pending request denied. No trip mutation.
	DenyRequest(ctx context.Context, requestID uuid.UUID, decidedAt time.Time) error
	// ListPendingByCreator returns pending requests across all trips owned
	// by the creator, oldest first, joined with requester identity.
	ListPendingByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.PendingRequest, error)
	// IsParticipant reports whether the user is the trip's creator or an
	// approved member.
	IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}
