package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/policy"
	"TRIPMATE_BACK-END/internal/store"
)

// Decision values accepted by Resolve.
const (
	DecisionApprove = "approve"
	DecisionDeny    = "deny"
)

// RequestService is the join-request ledger. It records submissions and
// resolutions, and through the store's approval path it is the sole writer
// of the trips' filled counters.
type RequestService struct {
	store store.Store
}

func NewRequestService(st store.Store) *RequestService {
	return &RequestService{store: st}
}

// Submit records a pending join request for the requester against the trip.
// requesterGender is the requester's profile gender, snapshotted onto the
// request. The eligibility check here is advisory; approval re-checks.
func (s *RequestService) Submit(ctx context.Context, tripID, requesterID uuid.UUID, requesterGender string) (*models.JoinRequest, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapStoreErr(err, "trip")
	}
	if trip.CreatorID == requesterID {
		return nil, &AuthorizationError{Msg: "creators cannot request to join their own trip"}
	}
	if trip.Status != models.TripStatusOpen {
		return nil, &ConflictError{Msg: "trip is not open for requests"}
	}
	if requesterGender != models.GenderMale && requesterGender != models.GenderFemale {
		// Capacity slots are gendered; a request cannot be bucketed until
		// the profile says male or female.
		return nil, &ValidationError{Msg: "set your gender on your profile before requesting to join"}
	}
	// Duplicate check comes before eligibility: a requester whose own
	// approved request consumed the slot must see the conflict, not a
	// capacity rejection.
	active, err := s.store.HasActiveRequest(ctx, tripID, requesterID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, &ConflictError{Msg: "you already have an active request for this trip"}
	}
	if reason := policy.Evaluate(trip, requesterGender); reason != "" {
		return nil, &PolicyError{Reason: reason}
	}

	req := &models.JoinRequest{
		ID:              uuid.New(),
		TripID:          tripID,
		RequesterID:     requesterID,
		RequestedGender: requesterGender,
		Status:          models.RequestStatusPending,
		RequestedAt:     time.Now(),
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, store.ErrDuplicateRequest) {
			return nil, &ConflictError{Msg: "you already have an active request for this trip"}
		}
		return nil, err
	}
	return req, nil
}

// Resolve decides a pending request. Only the creator of the request's trip
// may decide, and a request is decided exactly once. On approval the store
// performs the authoritative capacity compare-and-increment; if the slot is
// gone the request stays pending and the caller sees a policy rejection so
// the creator can retry later or deny explicitly.
func (s *RequestService) Resolve(ctx context.Context, requestID, actorID uuid.UUID, decision string) (*models.JoinRequest, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, mapStoreErr(err, "request")
	}
	trip, err := s.store.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, mapStoreErr(err, "trip")
	}
	if trip.CreatorID != actorID {
		return nil, &AuthorizationError{Msg: "only the trip creator can resolve requests"}
	}
	if req.Status != models.RequestStatusPending {
		return nil, &ConflictError{Msg: "request has already been decided"}
	}

	decidedAt := time.Now()
	switch decision {
	case DecisionApprove:
		// Same pure check as at submission, on fresh state: approvals made
		// since submission may have consumed the slot.
		if reason := policy.Evaluate(trip, req.RequestedGender); reason != "" {
			return nil, &PolicyError{Reason: reason}
		}
		if err := s.store.ApproveRequest(ctx, requestID, decidedAt); err != nil {
			switch {
			case errors.Is(err, store.ErrCapacityFull):
				return nil, &PolicyError{Reason: policy.ReasonCapacityFull}
			case errors.Is(err, store.ErrAlreadyDecided):
				return nil, &ConflictError{Msg: "request has already been decided"}
			default:
				return nil, mapStoreErr(err, "request")
			}
		}
		req.Status = models.RequestStatusApproved
	case DecisionDeny:
		if err := s.store.DenyRequest(ctx, requestID, decidedAt); err != nil {
			if errors.Is(err, store.ErrAlreadyDecided) {
				return nil, &ConflictError{Msg: "request has already been decided"}
			}
			return nil, mapStoreErr(err, "request")
		}
		req.Status = models.RequestStatusDenied
	default:
		return nil, &ValidationError{Msg: "decision must be approve or deny"}
	}
	req.DecidedAt = &decidedAt
	return req, nil
}

// ListPending returns pending requests across all trips the creator owns,
// oldest first. Recomputed fresh on every call.
func (s *RequestService) ListPending(ctx context.Context, creatorID uuid.UUID) ([]models.PendingRequest, error) {
	return s.store.ListPendingByCreator(ctx, creatorID)
}
