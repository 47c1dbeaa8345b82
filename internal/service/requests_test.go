package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/policy"
	"TRIPMATE_BACK-END/internal/store"
)

type fixture struct {
	store   *store.MemoryStore
	trips   *TripService
	reqs    *RequestService
	creator uuid.UUID
}

func newFixture(t *testing.T, p TripParams) (*fixture, *models.Trip) {
	t.Helper()
	st := store.NewMemoryStore()
	f := &fixture{
		store:   st,
		trips:   NewTripService(st),
		reqs:    NewRequestService(st),
		creator: uuid.New(),
	}
	trip, err := f.trips.Create(context.Background(), f.creator, p)
	if err != nil {
		t.Fatalf("Create trip: %v", err)
	}
	return f, trip
}

func TestSubmitRequest(t *testing.T) {
	f, trip := newFixture(t, validParams())
	requester := uuid.New()

	req, err := f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderFemale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want %q", req.Status, models.RequestStatusPending)
	}
	if req.RequestedGender != models.GenderFemale {
		t.Errorf("requested_gender = %q, want %q", req.RequestedGender, models.GenderFemale)
	}

	// Submission never touches the counters.
	got, _ := f.trips.Get(context.Background(), trip.ID)
	if got.MaleFilled != 0 || got.FemaleFilled != 0 {
		t.Errorf("Submit mutated counters: male=%d female=%d", got.MaleFilled, got.FemaleFilled)
	}
}

func TestSubmitByCreator(t *testing.T) {
	f, trip := newFixture(t, validParams())

	_, err := f.reqs.Submit(context.Background(), trip.ID, f.creator, models.GenderMale)
	var aErr *AuthorizationError
	if !errors.As(err, &aErr) {
		t.Errorf("Submit() error = %v, want AuthorizationError", err)
	}
}

func TestSubmitWithoutGender(t *testing.T) {
	f, trip := newFixture(t, validParams())

	for _, gender := range []string{"", models.GenderOther, "unknown"} {
		_, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), gender)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Submit(gender=%q) error = %v, want ValidationError", gender, err)
		}
	}
}

func TestSubmitDuplicatePending(t *testing.T) {
	f, trip := newFixture(t, validParams())
	requester := uuid.New()

	if _, err := f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderMale); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderMale)
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Errorf("duplicate Submit error = %v, want ConflictError", err)
	}
}

func TestSubmitAfterApprovalIsConflict(t *testing.T) {
	p := validParams()
	p.FemaleCapacity = 1
	f, trip := newFixture(t, p)
	requester := uuid.New()

	req, err := f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderFemale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.reqs.Resolve(context.Background(), req.ID, f.creator, DecisionApprove); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// The approval consumed the female slot but the trip stays open through
	// the male bucket. Resubmitting must surface the existing membership,
	// not a capacity rejection.
	tr, _ := f.trips.Get(context.Background(), trip.ID)
	if tr.Status != models.TripStatusOpen {
		t.Fatalf("status = %q, want open", tr.Status)
	}
	_, err = f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderFemale)
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Errorf("resubmit after approval error = %v, want ConflictError", err)
	}
}

func TestSubmitAfterDenialAllowed(t *testing.T) {
	f, trip := newFixture(t, validParams())
	requester := uuid.New()

	req, err := f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.reqs.Resolve(context.Background(), req.ID, f.creator, DecisionDeny); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if _, err := f.reqs.Submit(context.Background(), trip.ID, requester, models.GenderMale); err != nil {
		t.Errorf("Submit after denial: %v, want success", err)
	}
}

func TestSubmitGenderNotAllowed(t *testing.T) {
	p := validParams()
	p.FemaleAllowed = false
	p.FemaleCapacity = 0
	f, trip := newFixture(t, p)

	_, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderFemale)
	var pErr *PolicyError
	if !errors.As(err, &pErr) {
		t.Fatalf("Submit() error = %v, want PolicyError", err)
	}
	if pErr.Reason != policy.ReasonGenderNotAllowed {
		t.Errorf("reason = %q, want %q", pErr.Reason, policy.ReasonGenderNotAllowed)
	}
}

func TestSubmitToNonOpenTrip(t *testing.T) {
	f, trip := newFixture(t, validParams())
	if _, err := f.trips.Close(context.Background(), trip.ID, f.creator); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Errorf("Submit() error = %v, want ConflictError", err)
	}
}

func TestApproveIncrementsCounterAndDerivesStatus(t *testing.T) {
	p := validParams()
	p.MaleCapacity = 1
	p.FemaleCapacity = 1
	f, trip := newFixture(t, p)

	maleReq, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := f.reqs.Resolve(context.Background(), maleReq.ID, f.creator, DecisionApprove)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Status != models.RequestStatusApproved || got.DecidedAt == nil {
		t.Errorf("approved request = %+v", got)
	}

	tr, _ := f.trips.Get(context.Background(), trip.ID)
	if tr.MaleFilled != 1 {
		t.Errorf("male_filled = %d, want 1", tr.MaleFilled)
	}
	if tr.Status != models.TripStatusOpen {
		t.Errorf("status = %q, want open while female slot remains", tr.Status)
	}

	femaleReq, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderFemale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.reqs.Resolve(context.Background(), femaleReq.ID, f.creator, DecisionApprove); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tr, _ = f.trips.Get(context.Background(), trip.ID)
	if tr.Status != models.TripStatusFull {
		t.Errorf("status = %q, want %q after last slot", tr.Status, models.TripStatusFull)
	}
}

func TestDenyDoesNotTouchCounters(t *testing.T) {
	f, trip := newFixture(t, validParams())

	req, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := f.reqs.Resolve(context.Background(), req.ID, f.creator, DecisionDeny)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Status != models.RequestStatusDenied {
		t.Errorf("status = %q, want %q", got.Status, models.RequestStatusDenied)
	}

	tr, _ := f.trips.Get(context.Background(), trip.ID)
	if tr.MaleFilled != 0 || tr.FemaleFilled != 0 {
		t.Errorf("deny mutated counters: male=%d female=%d", tr.MaleFilled, tr.FemaleFilled)
	}
}

func TestResolveByNonCreator(t *testing.T) {
	f, trip := newFixture(t, validParams())

	req, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err = f.reqs.Resolve(context.Background(), req.ID, uuid.New(), DecisionApprove)
	var aErr *AuthorizationError
	if !errors.As(err, &aErr) {
		t.Errorf("Resolve() error = %v, want AuthorizationError", err)
	}
}

func TestResolveTwice(t *testing.T) {
	f, trip := newFixture(t, validParams())

	req, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.reqs.Resolve(context.Background(), req.ID, f.creator, DecisionApprove); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	_, err = f.reqs.Resolve(context.Background(), req.ID, f.creator, DecisionDeny)
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Errorf("second Resolve error = %v, want ConflictError", err)
	}
}

func TestResolveInvalidDecision(t *testing.T) {
	f, trip := newFixture(t, validParams())

	req, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err = f.reqs.Resolve(context.Background(), req.ID, f.creator, "maybe")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Resolve() error = %v, want ValidationError", err)
	}
}

func TestApproveWhenCapacityConsumed(t *testing.T) {
	p := validParams()
	p.MaleCapacity = 1
	f, trip := newFixture(t, p)

	first, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.reqs.Resolve(context.Background(), first.ID, f.creator, DecisionApprove); err != nil {
		t.Fatalf("Resolve first: %v", err)
	}

	_, err = f.reqs.Resolve(context.Background(), second.ID, f.creator, DecisionApprove)
	var pErr *PolicyError
	if !errors.As(err, &pErr) {
		t.Fatalf("Resolve second error = %v, want PolicyError", err)
	}
	if pErr.Reason != policy.ReasonCapacityFull {
		t.Errorf("reason = %q, want %q", pErr.Reason, policy.ReasonCapacityFull)
	}

	// The losing request is still pending: the creator can deny it or retry
	// after raising capacity.
	pending, err := f.reqs.ListPending(context.Background(), f.creator)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("pending after losing approval = %+v, want the second request", pending)
	}
}

func TestConcurrentApprovalsLastSlot(t *testing.T) {
	p := validParams()
	p.MaleCapacity = 1
	p.FemaleAllowed = false
	p.FemaleCapacity = 0
	f, trip := newFixture(t, p)

	const contenders = 8
	ids := make([]uuid.UUID, 0, contenders)
	for i := 0; i < contenders; i++ {
		req, err := f.reqs.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids = append(ids, req.ID)
	}

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for _, id := range ids {
		wg.Add(1)
		go func(requestID uuid.UUID) {
			defer wg.Done()
			_, err := f.reqs.Resolve(context.Background(), requestID, f.creator, DecisionApprove)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	approved := 0
	for err := range results {
		if err == nil {
			approved++
			continue
		}
		var pErr *PolicyError
		if !errors.As(err, &pErr) || pErr.Reason != policy.ReasonCapacityFull {
			t.Errorf("loser error = %v, want PolicyError(capacity_full)", err)
		}
	}
	if approved != 1 {
		t.Fatalf("approved = %d, want exactly 1 winner for the last slot", approved)
	}

	tr, _ := f.trips.Get(context.Background(), trip.ID)
	if tr.MaleFilled != 1 {
		t.Errorf("male_filled = %d, want 1 (no over-admission)", tr.MaleFilled)
	}
	if tr.Status != models.TripStatusFull {
		t.Errorf("status = %q, want %q", tr.Status, models.TripStatusFull)
	}
}

func TestListPendingOrderedOldestFirst(t *testing.T) {
	f, trip := newFixture(t, validParams())

	// Explicit timestamps: back-to-back time.Now() calls can collide on a
	// coarse clock, leaving the order undefined.
	base := time.Now()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		req := &models.JoinRequest{
			ID:              uuid.New(),
			TripID:          trip.ID,
			RequesterID:     uuid.New(),
			RequestedGender: models.GenderMale,
			Status:          models.RequestStatusPending,
			RequestedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := f.store.CreateRequest(context.Background(), req); err != nil {
			t.Fatalf("CreateRequest %d: %v", i, err)
		}
		ids = append(ids, req.ID)
	}

	pending, err := f.reqs.ListPending(context.Background(), f.creator)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("len(pending) = %d, want 3", len(pending))
	}
	for i := range pending {
		if pending[i].ID != ids[i] {
			t.Errorf("pending[%d] = %s, want %s (oldest first)", i, pending[i].ID, ids[i])
		}
	}
	if pending[0].TripDestination != trip.Destination {
		t.Errorf("trip_destination = %q, want %q", pending[0].TripDestination, trip.Destination)
	}
}
