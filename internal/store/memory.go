package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the service
// tests and keeps the same guarantees as the Postgres implementation: the
// approval path is a critical section, so a last-slot race has exactly one
// winner.
type MemoryStore struct {
	mu       sync.Mutex
	trips    map[uuid.UUID]*models.Trip
	requests map[uuid.UUID]*models.JoinRequest
	// requester identity for ListPendingByCreator joins, keyed by user id
	users map[uuid.UUID][2]string // name, email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:    make(map[uuid.UUID]*models.Trip),
		requests: make(map[uuid.UUID]*models.JoinRequest),
		users:    make(map[uuid.UUID][2]string),
	}
}

// PutUser registers requester identity used when listing pending requests.
func (s *MemoryStore) PutUser(id uuid.UUID, name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = [2]string{name, email}
}

func (s *MemoryStore) CreateTrip(ctx context.Context, t *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) UpdateTrip(ctx context.Context, t *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.trips[t.ID]
	if !ok {
		return ErrNotFound
	}
	// Re-check against the live counters: an approval may have landed since
	// the caller's snapshot.
	if t.MaleCapacity < cur.MaleFilled || t.FemaleCapacity < cur.FemaleFilled {
		return ErrCapacityBelowFilled
	}
	cur.Destination = t.Destination
	cur.BudgetPerPerson = t.BudgetPerPerson
	cur.StartDate = t.StartDate
	cur.EndDate = t.EndDate
	cur.FemaleAllowed = t.FemaleAllowed
	cur.MaleCapacity = t.MaleCapacity
	cur.FemaleCapacity = t.FemaleCapacity
	cur.Status = t.Status
	cur.UpdatedAt = t.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return ErrNotFound
	}
	delete(s.trips, id)
	for rid, r := range s.requests {
		if r.TripID == id {
			delete(s.requests, rid)
		}
	}
	return nil
}

func (s *MemoryStore) ListTripsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trip, 0)
	for _, t := range s.trips {
		if t.CreatorID == creatorID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *MemoryStore) ListOpenUpcomingTrips(ctx context.Context, now time.Time, limit, offset int) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trip, 0)
	for _, t := range s.trips {
		if t.Status == models.TripStatusOpen && t.StartDate.After(now) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	if offset >= len(out) {
		return []models.Trip{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListPastTripsForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	joined := make(map[uuid.UUID]bool)
	for _, r := range s.requests {
		if r.RequesterID == userID && r.Status == models.RequestStatusApproved {
			joined[r.TripID] = true
		}
	}
	out := make([]models.Trip, 0)
	for _, t := range s.trips {
		if t.EndDate.Before(now) && (t.CreatorID == userID || joined[t.ID]) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.After(out[j].EndDate) })
	return out, nil
}

func (s *MemoryStore) SetItinerary(ctx context.Context, tripID uuid.UUID, text string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	t.Itinerary = &text
	t.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) CreateRequest(ctx context.Context, r *models.JoinRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.TripID == r.TripID && existing.RequesterID == r.RequesterID &&
			existing.Status != models.RequestStatusDenied {
			return ErrDuplicateRequest
		}
	}
	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *MemoryStore) HasActiveRequest(ctx context.Context, tripID, requesterID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.TripID == tripID && r.RequesterID == requesterID &&
			r.Status != models.RequestStatusDenied {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetRequest(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ApproveRequest(ctx context.Context, requestID uuid.UUID, decidedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return ErrNotFound
	}
	if r.Status != models.RequestStatusPending {
		return ErrAlreadyDecided
	}
	t, ok := s.trips[r.TripID]
	if !ok {
		return ErrNotFound
	}
	if r.RequestedGender == models.GenderMale {
		if t.MaleFilled >= t.MaleCapacity {
			return ErrCapacityFull
		}
		t.MaleFilled++
	} else {
		if !t.FemaleAllowed || t.FemaleFilled >= t.FemaleCapacity {
			return ErrCapacityFull
		}
		t.FemaleFilled++
	}
	r.Status = models.RequestStatusApproved
	d := decidedAt
	r.DecidedAt = &d
	t.Status = t.DeriveStatus()
	t.UpdatedAt = decidedAt
	return nil
}

func (s *MemoryStore) DenyRequest(ctx context.Context, requestID uuid.UUID, decidedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return ErrNotFound
	}
	if r.Status != models.RequestStatusPending {
		return ErrAlreadyDecided
	}
	r.Status = models.RequestStatusDenied
	d := decidedAt
	r.DecidedAt = &d
	return nil
}

func (s *MemoryStore) ListPendingByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PendingRequest, 0)
	for _, r := range s.requests {
		if r.Status != models.RequestStatusPending {
			continue
		}
		t, ok := s.trips[r.TripID]
		if !ok || t.CreatorID != creatorID {
			continue
		}
		ident := s.users[r.RequesterID]
		out = append(out, models.PendingRequest{
			JoinRequest:     *r,
			TripDestination: t.Destination,
			RequesterName:   ident[0],
			RequesterEmail:  ident[1],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (s *MemoryStore) IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return false, nil
	}
	if t.CreatorID == userID {
		return true, nil
	}
	for _, r := range s.requests {
		if r.TripID == tripID && r.RequesterID == userID && r.Status == models.RequestStatusApproved {
			return true, nil
		}
	}
	return false, nil
}
