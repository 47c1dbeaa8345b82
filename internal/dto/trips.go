package dto

// CreateTripRequest represents the payload to create a trip
type CreateTripRequest struct {
	Destination     string `json:"destination"`
	BudgetPerPerson int    `json:"budget_per_person"`
	StartDate       string `json:"start_date"` // ISO 8601 format: YYYY-MM-DD or RFC3339
	EndDate         string `json:"end_date"`   // ISO 8601 format: YYYY-MM-DD or RFC3339
	FemaleAllowed   *bool  `json:"female_allowed"`
	MaleCapacity    int    `json:"male_capacity"`
	FemaleCapacity  int    `json:"female_capacity"`
}

// UpdateTripRequest represents fields allowed to update a trip
// All fields are optional; only provided ones will be updated
type UpdateTripRequest struct {
	Destination     *string `json:"destination"`
	BudgetPerPerson *int    `json:"budget_per_person"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	FemaleAllowed   *bool   `json:"female_allowed"`
	MaleCapacity    *int    `json:"male_capacity"`
	FemaleCapacity  *int    `json:"female_capacity"`
}

// TripResponse represents a trip object in responses
type TripResponse struct {
	ID              string  `json:"id"`
	CreatorID       string  `json:"creator_id"`
	Destination     string  `json:"destination"`
	BudgetPerPerson int     `json:"budget_per_person"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	FemaleAllowed   bool    `json:"female_allowed"`
	MaleCapacity    int     `json:"male_capacity"`
	FemaleCapacity  int     `json:"female_capacity"`
	MaleFilled      int     `json:"male_filled"`
	FemaleFilled    int     `json:"female_filled"`
	Status          string  `json:"status"`
	Itinerary       *string `json:"itinerary"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// CreateTripResponse envelope
type CreateTripResponse struct {
	Trip TripResponse `json:"trip"`
}

// TripListResponse envelope
type TripListResponse struct {
	Trips []TripResponse `json:"trips"`
}

// TripDetailResponse is a trip plus its creator's identity for display
type TripDetailResponse struct {
	TripResponse
	Creator TripCreator `json:"creator"`
}

// TripCreator identifies the trip owner in detail responses
type TripCreator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
