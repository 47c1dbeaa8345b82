// Package policy holds the capacity and eligibility rules for joining a
// trip. Evaluate is a pure function and is called from two places with the
// same semantics: at submission time as a fail-fast courtesy check, and at
// approval time as the authoritative re-check under concurrent approvals.
package policy

import "TRIPMATE_BACK-END/internal/models"

// Reason codes carried by capacity/eligibility rejections so the frontend
// can render distinct messaging.
const (
	ReasonGenderNotAllowed = "gender_not_allowed"
	ReasonCapacityFull     = "capacity_full"
)

// Evaluate reports whether a requester of the given gender may occupy a slot
// on the trip right now. It returns an empty string when eligible, or one of
// the Reason* codes when not.
func Evaluate(trip *models.Trip, gender string) string {
	if gender == models.GenderFemale && !trip.FemaleAllowed {
		return ReasonGenderNotAllowed
	}
	capacity, filled := trip.FemaleCapacity, trip.FemaleFilled
	if gender == models.GenderMale {
		capacity, filled = trip.MaleCapacity, trip.MaleFilled
	}
	if filled >= capacity {
		return ReasonCapacityFull
	}
	return ""
}
