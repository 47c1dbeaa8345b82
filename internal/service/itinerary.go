package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/store"
)

// TextGenerator is the external itinerary-generation collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, trip *models.Trip, preferences string) (string, error)
}

// ItineraryService attaches AI-generated itinerary text to trips. Generation
// is open to any participant, and regeneration replaces the previous text
// outright.
type ItineraryService struct {
	store   store.Store
	gen     TextGenerator
	timeout time.Duration
}

func NewItineraryService(st store.Store, gen TextGenerator, timeout time.Duration) *ItineraryService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ItineraryService{store: st, gen: gen, timeout: timeout}
}

// Generate produces itinerary text for the trip and stores it, overwriting
// any previous itinerary. The external call is bounded by the configured
// timeout; on failure nothing is stored and the error surfaces as
// ServiceUnavailableError.
func (s *ItineraryService) Generate(ctx context.Context, tripID, actorID uuid.UUID, preferences string) (string, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return "", mapStoreErr(err, "trip")
	}
	ok, err := s.store.IsParticipant(ctx, tripID, actorID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &AuthorizationError{Msg: "only trip participants can generate an itinerary"}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.gen.Generate(genCtx, trip, preferences)
	if err != nil {
		return "", &ServiceUnavailableError{Cause: err}
	}

	if err := s.store.SetItinerary(ctx, tripID, text, time.Now()); err != nil {
		return "", mapStoreErr(err, "trip")
	}
	return text, nil
}
