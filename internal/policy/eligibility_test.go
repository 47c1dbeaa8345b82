package policy

import (
	"testing"

	"TRIPMATE_BACK-END/internal/models"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		trip   models.Trip
		gender string
		want   string
	}{
		{
			name:   "male with open slot",
			trip:   models.Trip{FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 1, FemaleCapacity: 2},
			gender: models.GenderMale,
			want:   "",
		},
		{
			name:   "female with open slot",
			trip:   models.Trip{FemaleAllowed: true, MaleCapacity: 2, FemaleCapacity: 2, FemaleFilled: 0},
			gender: models.GenderFemale,
			want:   "",
		},
		{
			name:   "female on male-only trip",
			trip:   models.Trip{FemaleAllowed: false, MaleCapacity: 4},
			gender: models.GenderFemale,
			want:   ReasonGenderNotAllowed,
		},
		{
			name:   "male bucket exhausted",
			trip:   models.Trip{FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 2, FemaleCapacity: 2},
			gender: models.GenderMale,
			want:   ReasonCapacityFull,
		},
		{
			name:   "female bucket exhausted",
			trip:   models.Trip{FemaleAllowed: true, MaleCapacity: 2, FemaleCapacity: 1, FemaleFilled: 1},
			gender: models.GenderFemale,
			want:   ReasonCapacityFull,
		},
		{
			name:   "male unaffected by full female bucket",
			trip:   models.Trip{FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 0, FemaleCapacity: 1, FemaleFilled: 1},
			gender: models.GenderMale,
			want:   "",
		},
		{
			name:   "zero male capacity",
			trip:   models.Trip{FemaleAllowed: true, MaleCapacity: 0, FemaleCapacity: 3},
			gender: models.GenderMale,
			want:   ReasonCapacityFull,
		},
		{
			name:   "gender restriction checked before capacity",
			trip:   models.Trip{FemaleAllowed: false, MaleCapacity: 2, FemaleCapacity: 0},
			gender: models.GenderFemale,
			want:   ReasonGenderNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(&tt.trip, tt.gender)
			if got != tt.want {
				t.Errorf("Evaluate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluateDoesNotMutateTrip(t *testing.T) {
	trip := models.Trip{FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 1, FemaleCapacity: 2, FemaleFilled: 1}
	before := trip

	Evaluate(&trip, models.GenderMale)
	Evaluate(&trip, models.GenderFemale)

	if trip != before {
		t.Errorf("Evaluate mutated the trip: before=%+v after=%+v", before, trip)
	}
}
