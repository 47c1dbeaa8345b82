package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/store"
)

func validParams() TripParams {
	start := time.Now().AddDate(0, 1, 0)
	return TripParams{
		Destination:     "Manali",
		BudgetPerPerson: 12000,
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 4),
		FemaleAllowed:   true,
		MaleCapacity:    3,
		FemaleCapacity:  2,
	}
}

func TestCreateTrip(t *testing.T) {
	svc := NewTripService(store.NewMemoryStore())
	creator := uuid.New()

	trip, err := svc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trip.Status != models.TripStatusOpen {
		t.Errorf("status = %q, want %q", trip.Status, models.TripStatusOpen)
	}
	if trip.MaleFilled != 0 || trip.FemaleFilled != 0 {
		t.Errorf("new trip has filled slots: male=%d female=%d", trip.MaleFilled, trip.FemaleFilled)
	}
	if trip.CreatorID != creator {
		t.Errorf("creator = %s, want %s", trip.CreatorID, creator)
	}
}

func TestCreateTripValidation(t *testing.T) {
	svc := NewTripService(store.NewMemoryStore())
	creator := uuid.New()

	tests := []struct {
		name   string
		mutate func(*TripParams)
	}{
		{"empty destination", func(p *TripParams) { p.Destination = "  " }},
		{"negative budget", func(p *TripParams) { p.BudgetPerPerson = -1 }},
		{"end before start", func(p *TripParams) { p.EndDate = p.StartDate.AddDate(0, 0, -1) }},
		{"negative male capacity", func(p *TripParams) { p.MaleCapacity = -1 }},
		{"negative female capacity", func(p *TripParams) { p.FemaleCapacity = -2 }},
		{"female capacity without female slots allowed", func(p *TripParams) {
			p.FemaleAllowed = false
			p.FemaleCapacity = 2
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := svc.Create(context.Background(), creator, p)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Create() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateTripZeroCapacityIsFull(t *testing.T) {
	svc := NewTripService(store.NewMemoryStore())

	p := validParams()
	p.FemaleAllowed = false
	p.FemaleCapacity = 0
	p.MaleCapacity = 0

	trip, err := svc.Create(context.Background(), uuid.New(), p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trip.Status != models.TripStatusFull {
		t.Errorf("status = %q, want %q", trip.Status, models.TripStatusFull)
	}
}

func TestUpdateTrip(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewTripService(st)
	creator := uuid.New()

	trip, err := svc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dest := "Goa"
	budget := 15000
	got, err := svc.Update(context.Background(), trip.ID, creator, TripPatch{
		Destination:     &dest,
		BudgetPerPerson: &budget,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Destination != "Goa" || got.BudgetPerPerson != 15000 {
		t.Errorf("patch not applied: %+v", got)
	}
	// untouched fields survive
	if got.MaleCapacity != 3 || !got.FemaleAllowed {
		t.Errorf("unpatched fields changed: %+v", got)
	}
}

func TestUpdateTripNonCreator(t *testing.T) {
	svc := NewTripService(store.NewMemoryStore())
	trip, err := svc.Create(context.Background(), uuid.New(), validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dest := "Goa"
	_, err = svc.Update(context.Background(), trip.ID, uuid.New(), TripPatch{Destination: &dest})
	var aErr *AuthorizationError
	if !errors.As(err, &aErr) {
		t.Errorf("Update() error = %v, want AuthorizationError", err)
	}
}

func TestUpdateClosedTrip(t *testing.T) {
	svc := NewTripService(store.NewMemoryStore())
	creator := uuid.New()
	trip, err := svc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Close(context.Background(), trip.ID, creator); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dest := "Goa"
	_, err = svc.Update(context.Background(), trip.ID, creator, TripPatch{Destination: &dest})
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Errorf("Update() error = %v, want ConflictError", err)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	svc := NewTripService(store.NewMemoryStore())
	creator := uuid.New()
	trip, err := svc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	closed, err := svc.Close(context.Background(), trip.ID, creator)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != models.TripStatusClosed {
		t.Errorf("status = %q, want %q", closed.Status, models.TripStatusClosed)
	}

	_, err = svc.Close(context.Background(), trip.ID, creator)
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Errorf("second Close error = %v, want ConflictError", err)
	}
}

func TestUpdateRaisingCapacityReopensFullTrip(t *testing.T) {
	st := store.NewMemoryStore()
	tripSvc := NewTripService(st)
	reqSvc := NewRequestService(st)
	creator := uuid.New()

	p := validParams()
	p.MaleCapacity = 1
	p.FemaleAllowed = false
	p.FemaleCapacity = 0
	trip, err := tripSvc.Create(context.Background(), creator, p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req, err := reqSvc.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := reqSvc.Resolve(context.Background(), req.ID, creator, DecisionApprove); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got, err := tripSvc.Get(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.TripStatusFull {
		t.Fatalf("status after filling last slot = %q, want %q", got.Status, models.TripStatusFull)
	}

	cap := 2
	updated, err := tripSvc.Update(context.Background(), trip.ID, creator, TripPatch{MaleCapacity: &cap})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.TripStatusOpen {
		t.Errorf("status after raising capacity = %q, want %q", updated.Status, models.TripStatusOpen)
	}
}

func TestUpdateCannotShrinkBelowFilled(t *testing.T) {
	st := store.NewMemoryStore()
	tripSvc := NewTripService(st)
	reqSvc := NewRequestService(st)
	creator := uuid.New()

	trip, err := tripSvc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	req, err := reqSvc.Submit(context.Background(), trip.ID, uuid.New(), models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := reqSvc.Resolve(context.Background(), req.ID, creator, DecisionApprove); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	zero := 0
	_, err = tripSvc.Update(context.Background(), trip.ID, creator, TripPatch{MaleCapacity: &zero})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Update() error = %v, want ValidationError", err)
	}
}

func TestDeleteTrip(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewTripService(st)
	creator := uuid.New()
	trip, err := svc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), trip.ID, uuid.New()); err == nil {
		t.Error("Delete by non-creator succeeded, want AuthorizationError")
	}

	if err := svc.Delete(context.Background(), trip.ID, creator); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = svc.Get(context.Background(), trip.ID)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("Get after delete error = %v, want NotFoundError", err)
	}
}

func TestListUpcomingExcludesClosed(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewTripService(st)
	creator := uuid.New()

	// open future trip
	if _, err := svc.Create(context.Background(), creator, validParams()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// closed future trip
	closedTrip, err := svc.Create(context.Background(), creator, validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Close(context.Background(), closedTrip.ID, creator); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := svc.ListUpcoming(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ListUpcoming returned %d trips, want 1 (closed trips excluded)", len(got))
	}
}
