package dto

// JoinRequestResponse represents a join request in responses
type JoinRequestResponse struct {
	ID              string  `json:"id"`
	TripID          string  `json:"trip_id"`
	RequesterID     string  `json:"requester_id"`
	RequestedGender string  `json:"requested_gender"`
	Status          string  `json:"status"`
	RequestedAt     string  `json:"requested_at"`
	DecidedAt       *string `json:"decided_at,omitempty"`
}

// PendingRequestItem is a pending request enriched with trip and requester
// display fields for the creator's requests tab
type PendingRequestItem struct {
	JoinRequestResponse
	TripDestination string `json:"trip_destination"`
	RequesterName   string `json:"requester_name"`
	RequesterEmail  string `json:"requester_email"`
}

// PendingRequestsResponse envelope, oldest request first
type PendingRequestsResponse struct {
	Requests []PendingRequestItem `json:"requests"`
}
