package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip status values. "closed" is terminal and only ever set by an explicit
// creator action; "open" and "full" are derived from the filled counters.
const (
	TripStatusOpen   = "open"
	TripStatusFull   = "full"
	TripStatusClosed = "closed"
)

// Gender buckets used for capacity matching.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Trip represents a group trip created by a user, with a per-gender target
// headcount. MaleFilled/FemaleFilled count approved join requests and are
// written only by the request ledger.
type Trip struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CreatorID       uuid.UUID `json:"creator_id" db:"creator_id"`
	Destination     string    `json:"destination" db:"destination"`
	BudgetPerPerson int       `json:"budget_per_person" db:"budget_per_person"`
	StartDate       time.Time `json:"start_date" db:"start_date"`
	EndDate         time.Time `json:"end_date" db:"end_date"`
	FemaleAllowed   bool      `json:"female_allowed" db:"female_allowed"`
	MaleCapacity    int       `json:"male_capacity" db:"male_capacity"`
	FemaleCapacity  int       `json:"female_capacity" db:"female_capacity"`
	MaleFilled      int       `json:"male_filled" db:"male_filled"`
	FemaleFilled    int       `json:"female_filled" db:"female_filled"`
	Status          string    `json:"status" db:"status"`
	Itinerary       *string   `json:"itinerary" db:"itinerary"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// DeriveStatus computes the status implied by the current counters. A closed
// trip stays closed; otherwise the trip is full once the male side is full
// and the female side is either full or not allowed at all.
func (t *Trip) DeriveStatus() string {
	if t.Status == TripStatusClosed {
		return TripStatusClosed
	}
	maleFull := t.MaleFilled >= t.MaleCapacity
	femaleFull := t.FemaleFilled >= t.FemaleCapacity || !t.FemaleAllowed
	if maleFull && femaleFull {
		return TripStatusFull
	}
	return TripStatusOpen
}
