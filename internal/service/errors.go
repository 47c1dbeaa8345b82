package service

import "fmt"

// ValidationError marks malformed or contradictory input. The caller must
// fix the request before resubmitting.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthorizationError marks an actor acting on a resource they do not own.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// ConflictError marks a state precondition violation, e.g. re-deciding an
// already resolved request or editing a closed trip. Callers should re-fetch
// current state before retrying.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError marks a missing trip, request or profile.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// PolicyError marks a capacity or eligibility rejection. Reason is one of
// the policy reason codes and is surfaced to the client verbatim.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return "policy rejection: " + e.Reason }

// ServiceUnavailableError marks a failed call to an external collaborator
// (itinerary generation). Nothing is mutated on this path; safe to retry.
type ServiceUnavailableError struct {
	Cause error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("external service unavailable: %v", e.Cause)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Cause }
