package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/store"
)

// TripService owns trip records: creation, creator-only updates, closing and
// listing. Occupancy counters are never written here; that is the request
// ledger's job.
type TripService struct {
	store store.Store
}

func NewTripService(st store.Store) *TripService {
	return &TripService{store: st}
}

// TripParams are the creator-editable fields of a trip.
type TripParams struct {
	Destination     string
	BudgetPerPerson int
	StartDate       time.Time
	EndDate         time.Time
	FemaleAllowed   bool
	MaleCapacity    int
	FemaleCapacity  int
}

// TripPatch carries optional updates; nil fields keep their current value.
type TripPatch struct {
	Destination     *string
	BudgetPerPerson *int
	StartDate       *time.Time
	EndDate         *time.Time
	FemaleAllowed   *bool
	MaleCapacity    *int
	FemaleCapacity  *int
}

func validateTrip(t *models.Trip) error {
	if strings.TrimSpace(t.Destination) == "" {
		return &ValidationError{Msg: "destination is required"}
	}
	if t.BudgetPerPerson < 0 {
		return &ValidationError{Msg: "budget_per_person cannot be negative"}
	}
	if t.EndDate.Before(t.StartDate) {
		return &ValidationError{Msg: "end_date cannot be before start_date"}
	}
	if t.MaleCapacity < 0 || t.FemaleCapacity < 0 {
		return &ValidationError{Msg: "capacities cannot be negative"}
	}
	if !t.FemaleAllowed && t.FemaleCapacity > 0 {
		return &ValidationError{Msg: "female_capacity must be 0 when females are not allowed"}
	}
	if t.MaleCapacity < t.MaleFilled {
		return &ValidationError{Msg: "male_capacity cannot shrink below approved members"}
	}
	if t.FemaleCapacity < t.FemaleFilled {
		return &ValidationError{Msg: "female_capacity cannot shrink below approved members"}
	}
	return nil
}

// Create opens a new trip owned by creatorID with zero filled slots.
func (s *TripService) Create(ctx context.Context, creatorID uuid.UUID, p TripParams) (*models.Trip, error) {
	now := time.Now()
	t := &models.Trip{
		ID:              uuid.New(),
		CreatorID:       creatorID,
		Destination:     strings.TrimSpace(p.Destination),
		BudgetPerPerson: p.BudgetPerPerson,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		FemaleAllowed:   p.FemaleAllowed,
		MaleCapacity:    p.MaleCapacity,
		FemaleCapacity:  p.FemaleCapacity,
		Status:          models.TripStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateTrip(t); err != nil {
		return nil, err
	}
	t.Status = t.DeriveStatus()
	if err := s.store.CreateTrip(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TripService) Get(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	t, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapStoreErr(err, "trip")
	}
	return t, nil
}

// Update applies a patch to a trip the actor owns. Closed trips are frozen.
// The status is recomputed so raising capacity re-opens a full trip.
func (s *TripService) Update(ctx context.Context, tripID, actorID uuid.UUID, p TripPatch) (*models.Trip, error) {
	t, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapStoreErr(err, "trip")
	}
	if t.CreatorID != actorID {
		return nil, &AuthorizationError{Msg: "only the creator can update this trip"}
	}
	if t.Status == models.TripStatusClosed {
		return nil, &ConflictError{Msg: "trip is closed"}
	}

	if p.Destination != nil {
		t.Destination = strings.TrimSpace(*p.Destination)
	}
	if p.BudgetPerPerson != nil {
		t.BudgetPerPerson = *p.BudgetPerPerson
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.FemaleAllowed != nil {
		t.FemaleAllowed = *p.FemaleAllowed
	}
	if p.MaleCapacity != nil {
		t.MaleCapacity = *p.MaleCapacity
	}
	if p.FemaleCapacity != nil {
		t.FemaleCapacity = *p.FemaleCapacity
	}
	if err := validateTrip(t); err != nil {
		return nil, err
	}
	t.Status = t.DeriveStatus()
	t.UpdatedAt = time.Now()
	if err := s.store.UpdateTrip(ctx, t); err != nil {
		if errors.Is(err, store.ErrCapacityBelowFilled) {
			return nil, &ValidationError{Msg: "capacity cannot shrink below approved members"}
		}
		return nil, mapStoreErr(err, "trip")
	}
	return t, nil
}

// Close marks a trip closed. Terminal: no further updates or submissions.
func (s *TripService) Close(ctx context.Context, tripID, actorID uuid.UUID) (*models.Trip, error) {
	t, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapStoreErr(err, "trip")
	}
	if t.CreatorID != actorID {
		return nil, &AuthorizationError{Msg: "only the creator can close this trip"}
	}
	if t.Status == models.TripStatusClosed {
		return nil, &ConflictError{Msg: "trip is already closed"}
	}
	t.Status = models.TripStatusClosed
	t.UpdatedAt = time.Now()
	if err := s.store.UpdateTrip(ctx, t); err != nil {
		return nil, mapStoreErr(err, "trip")
	}
	return t, nil
}

func (s *TripService) Delete(ctx context.Context, tripID, actorID uuid.UUID) error {
	t, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return mapStoreErr(err, "trip")
	}
	if t.CreatorID != actorID {
		return &AuthorizationError{Msg: "only the creator can delete this trip"}
	}
	return mapStoreErr(s.store.DeleteTrip(ctx, tripID), "trip")
}

func (s *TripService) ListMine(ctx context.Context, creatorID uuid.UUID) ([]models.Trip, error) {
	return s.store.ListTripsByCreator(ctx, creatorID)
}

func (s *TripService) ListUpcoming(ctx context.Context, limit, offset int) ([]models.Trip, error) {
	return s.store.ListOpenUpcomingTrips(ctx, time.Now(), limit, offset)
}

func (s *TripService) ListPast(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	return s.store.ListPastTripsForUser(ctx, userID, time.Now())
}

func mapStoreErr(err error, resource string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return err
}
