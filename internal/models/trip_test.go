package models

import "testing"

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		trip Trip
		want string
	}{
		{
			name: "open while slots remain",
			trip: Trip{Status: TripStatusOpen, FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 1, FemaleCapacity: 2},
			want: TripStatusOpen,
		},
		{
			name: "full when both buckets exhausted",
			trip: Trip{Status: TripStatusOpen, FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 2, FemaleCapacity: 1, FemaleFilled: 1},
			want: TripStatusFull,
		},
		{
			name: "female bucket ignored when females not allowed",
			trip: Trip{Status: TripStatusOpen, FemaleAllowed: false, MaleCapacity: 2, MaleFilled: 2, FemaleCapacity: 0},
			want: TripStatusFull,
		},
		{
			name: "open when only female slots remain",
			trip: Trip{Status: TripStatusFull, FemaleAllowed: true, MaleCapacity: 2, MaleFilled: 2, FemaleCapacity: 2, FemaleFilled: 1},
			want: TripStatusOpen,
		},
		{
			name: "closed is terminal",
			trip: Trip{Status: TripStatusClosed, FemaleAllowed: true, MaleCapacity: 2, FemaleCapacity: 2},
			want: TripStatusClosed,
		},
		{
			name: "zero capacities are full",
			trip: Trip{Status: TripStatusOpen, FemaleAllowed: false},
			want: TripStatusFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trip.DeriveStatus(); got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
