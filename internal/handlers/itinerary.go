package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/service"
	"TRIPMATE_BACK-END/internal/utils"
)

// maxPreferencesBytes caps the free-text preferences body.
const maxPreferencesBytes = 16 * 1024

// ItineraryHandler exposes AI itinerary generation for trips
type ItineraryHandler struct {
	svc *service.ItineraryService
}

// NewItineraryHandler creates a new ItineraryHandler instance
func NewItineraryHandler(svc *service.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{svc: svc}
}

// GenerateItinerary handles POST /api/trips/{trip_id}/generate-itinerary
// The request body is plain-text traveler preferences (may be empty); the
// response is the generated itinerary as plain text, which is also stored
// on the trip.
// @Summary Generate an AI itinerary for a trip
// @Tags itinerary
// @Accept plain
// @Produce plain
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param preferences body string false "Free-text traveler preferences"
// @Success 200 {string} string "Generated itinerary text"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a trip participant"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Generation backend unavailable"
// @Router /api/trips/{trip_id}/generate-itinerary [post]
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPreferencesBytes))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	preferences := strings.TrimSpace(string(body))

	text, err := h.svc.Generate(r.Context(), tripID, userID, preferences)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
