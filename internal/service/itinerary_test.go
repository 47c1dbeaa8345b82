package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
)

// fakeGenerator returns canned text or a canned error and records the
// preferences it was called with.
type fakeGenerator struct {
	text  string
	err   error
	calls int
	prefs string
}

func (g *fakeGenerator) Generate(ctx context.Context, trip *models.Trip, preferences string) (string, error) {
	g.calls++
	g.prefs = preferences
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("%s: %s", trip.Destination, g.text), nil
}

func TestGenerateItinerary(t *testing.T) {
	f, trip := newFixture(t, validParams())
	gen := &fakeGenerator{text: "day 1 hike, day 2 cafes"}
	svc := NewItineraryService(f.store, gen, time.Second)

	text, err := svc.Generate(context.Background(), trip.ID, f.creator, "vegetarian food")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text == "" {
		t.Fatal("Generate returned empty text")
	}
	if gen.prefs != "vegetarian food" {
		t.Errorf("preferences = %q, want %q", gen.prefs, "vegetarian food")
	}

	got, _ := f.trips.Get(context.Background(), trip.ID)
	if got.Itinerary == nil || *got.Itinerary != text {
		t.Errorf("stored itinerary = %v, want %q", got.Itinerary, text)
	}
}

func TestGenerateItineraryByApprovedMember(t *testing.T) {
	f, trip := newFixture(t, validParams())
	member := uuid.New()

	req, err := f.reqs.Submit(context.Background(), trip.ID, member, models.GenderMale)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.reqs.Resolve(context.Background(), req.ID, f.creator, DecisionApprove); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	svc := NewItineraryService(f.store, &fakeGenerator{text: "plan"}, time.Second)
	if _, err := svc.Generate(context.Background(), trip.ID, member, ""); err != nil {
		t.Errorf("Generate by approved member: %v, want success", err)
	}
}

func TestGenerateItineraryNonParticipant(t *testing.T) {
	f, trip := newFixture(t, validParams())
	gen := &fakeGenerator{text: "plan"}
	svc := NewItineraryService(f.store, gen, time.Second)

	_, err := svc.Generate(context.Background(), trip.ID, uuid.New(), "")
	var aErr *AuthorizationError
	if !errors.As(err, &aErr) {
		t.Fatalf("Generate() error = %v, want AuthorizationError", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for non-participant, want 0", gen.calls)
	}
}

func TestGenerateItineraryOverwrites(t *testing.T) {
	f, trip := newFixture(t, validParams())
	gen := &fakeGenerator{text: "first"}
	svc := NewItineraryService(f.store, gen, time.Second)

	first, err := svc.Generate(context.Background(), trip.ID, f.creator, "")
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	gen.text = "second"
	second, err := svc.Generate(context.Background(), trip.ID, f.creator, "")
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if first == second {
		t.Fatal("regeneration returned identical text; fake should differ")
	}

	got, _ := f.trips.Get(context.Background(), trip.ID)
	if got.Itinerary == nil || *got.Itinerary != second {
		t.Errorf("stored itinerary = %v, want the regenerated text %q", got.Itinerary, second)
	}
}

func TestGenerateItineraryBackendFailure(t *testing.T) {
	f, trip := newFixture(t, validParams())
	gen := &fakeGenerator{err: errors.New("upstream timeout")}
	svc := NewItineraryService(f.store, gen, time.Second)

	_, err := svc.Generate(context.Background(), trip.ID, f.creator, "")
	var uErr *ServiceUnavailableError
	if !errors.As(err, &uErr) {
		t.Fatalf("Generate() error = %v, want ServiceUnavailableError", err)
	}

	// Failure must leave the trip untouched.
	got, _ := f.trips.Get(context.Background(), trip.ID)
	if got.Itinerary != nil {
		t.Errorf("itinerary stored despite failure: %q", *got.Itinerary)
	}
}
