package dto

// UpdateProfileRequest represents the payload to update the user's profile.
// Gender changes never reclassify join requests that were already submitted.
type UpdateProfileRequest struct {
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"` // male | female | other
	PhoneNumber    *string `json:"phone_number"`
	College        *string `json:"college"`
	Course         *string `json:"course"`
	GraduationYear *int    `json:"graduation_year"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
}

// ProfileResponse represents the profile with the owning user's identity
type ProfileResponse struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	PhoneNumber    *string `json:"phone_number"`
	College        *string `json:"college"`
	Course         *string `json:"course"`
	GraduationYear *int    `json:"graduation_year"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	UpdatedAt      string  `json:"updated_at"`
}
