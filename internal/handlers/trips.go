package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"TRIPMATE_BACK-END/internal/dto"
	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/service"
	"TRIPMATE_BACK-END/internal/utils"
)

// TripsHandler manages trip-related endpoints
type TripsHandler struct {
	svc      *service.TripService
	db       *pgxpool.Pool
	notifier NotificationsService
}

// NewTripsHandler creates a new TripsHandler
func NewTripsHandler(svc *service.TripService, db *pgxpool.Pool, notifier NotificationsService) *TripsHandler {
	return &TripsHandler{svc: svc, db: db, notifier: notifier}
}

// notifyMembers tells approved members about changes to a trip they joined.
// Best-effort, like the other notification fan-outs.
func (h *TripsHandler) notifyMembers(ctx context.Context, trip *models.Trip, title, msg string) {
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := h.db.Query(queryCtx,
		`SELECT requester_id FROM join_requests WHERE trip_id = $1 AND status = 'approved'`, trip.ID)
	if err != nil {
		log.Printf("notifyMembers: member lookup failed: %v (trip_id=%s)", err, trip.ID.String())
		return
	}
	defer rows.Close()

	var members []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			log.Printf("notifyMembers: scan failed: %v (trip_id=%s)", err, trip.ID.String())
			return
		}
		members = append(members, id)
	}

	for _, member := range members {
		m := msg
		if err := h.notifier.Create(ctx, member, TypeTripUpdated, title, &m,
			map[string]any{"trip_id": trip.ID.String()}); err != nil {
			log.Printf("notifyMembers: %v (trip_id=%s, user_id=%s)", err, trip.ID.String(), member.String())
		}
	}
}

// CreateTrip handles POST /api/trips/create
// @Summary Create a new trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTripRequest true "Trip payload"
// @Success 201 {object} dto.CreateTripResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/create [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	if req.Destination == "" || req.StartDate == "" || req.EndDate == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "destination, start_date, end_date are required")
		return
	}
	startAt, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		return
	}
	endAt, err := utils.ParseDate(req.EndDate)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		return
	}

	// Females are allowed unless explicitly disallowed, matching the form's
	// default checkbox state.
	femaleAllowed := true
	if req.FemaleAllowed != nil {
		femaleAllowed = *req.FemaleAllowed
	}

	trip, err := h.svc.Create(r.Context(), userID, service.TripParams{
		Destination:     req.Destination,
		BudgetPerPerson: req.BudgetPerPerson,
		StartDate:       startAt,
		EndDate:         endAt,
		FemaleAllowed:   femaleAllowed,
		MaleCapacity:    req.MaleCapacity,
		FemaleCapacity:  req.FemaleCapacity,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.CreateTripResponse{Trip: tripToResponse(trip)})
}

// MyTrips handles GET /api/trips/my
// @Summary List trips created by the authenticated user
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TripListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/my [get]
func (h *TripsHandler) MyTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}
	trips, err := h.svc.ListMine(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeTripList(w, trips)
}

// UpcomingTrips handles GET /api/trips/upcoming — the discovery feed of open
// trips other users can request to join.
// @Summary List open upcoming trips
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param limit query int false "items per page"
// @Param offset query int false "offset"
// @Success 200 {object} dto.TripListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/upcoming [get]
func (h *TripsHandler) UpcomingTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	q := r.URL.Query()
	limit := 20
	offset := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 100 {
				n = 100
			}
			limit = n
		}
	}
	if v := strings.TrimSpace(q.Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	trips, err := h.svc.ListUpcoming(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeTripList(w, trips)
}

// PastTrips handles GET /api/trips/past
// @Summary List finished trips the user created or joined
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TripListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/past [get]
func (h *TripsHandler) PastTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}
	trips, err := h.svc.ListPast(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeTripList(w, trips)
}

// TripDetail handles GET /api/trips/{trip_id}
// @Summary Get trip detail with creator identity
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [get]
func (h *TripsHandler) TripDetail(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	trip, err := h.svc.Get(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Creator identity for the detail card; blank on lookup failure rather
	// than failing the whole read.
	var creator dto.TripCreator
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	_ = h.db.QueryRow(ctx, `SELECT name, email FROM users WHERE id = $1`, trip.CreatorID).
		Scan(&creator.Name, &creator.Email)

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripDetailResponse{
		TripResponse: tripToResponse(trip),
		Creator:      creator,
	})
}

// UpdateTrip handles PUT /api/trips/{trip_id}/update
// @Summary Update a trip (creator only, not while closed)
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.UpdateTripRequest true "Update payload"
// @Success 200 {object} dto.CreateTripResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/update [put]
func (h *TripsHandler) UpdateTrip(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.UpdateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	patch := service.TripPatch{
		Destination:     req.Destination,
		BudgetPerPerson: req.BudgetPerPerson,
		FemaleAllowed:   req.FemaleAllowed,
		MaleCapacity:    req.MaleCapacity,
		FemaleCapacity:  req.FemaleCapacity,
	}
	if req.StartDate != nil {
		t, err := utils.ParseDate(*req.StartDate)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
			return
		}
		patch.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := utils.ParseDate(*req.EndDate)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
			return
		}
		patch.EndDate = &t
	}

	trip, err := h.svc.Update(r.Context(), tripID, userID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.notifyMembers(r.Context(), trip, "Trip updated",
		"Details of your trip to "+trip.Destination+" changed. Take a look.")
	utils.WriteJSONResponse(w, http.StatusOK, dto.CreateTripResponse{Trip: tripToResponse(trip)})
}

// CloseTrip handles POST /api/trips/{trip_id}/close — the explicit terminal
// action; a closed trip accepts no further requests or edits.
// @Summary Close a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.CreateTripResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/close [post]
func (h *TripsHandler) CloseTrip(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}
	trip, err := h.svc.Close(r.Context(), tripID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.notifyMembers(r.Context(), trip, "Trip closed",
		"The group for "+trip.Destination+" is finalized.")
	utils.WriteJSONResponse(w, http.StatusOK, dto.CreateTripResponse{Trip: tripToResponse(trip)})
}

// DeleteTrip handles DELETE /api/trips/{trip_id}
// @Summary Delete a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [delete]
func (h *TripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}
	if err := h.svc.Delete(r.Context(), tripID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}

func (h *TripsHandler) writeTripList(w http.ResponseWriter, trips []models.Trip) {
	items := make([]dto.TripResponse, 0, len(trips))
	for i := range trips {
		items = append(items, tripToResponse(&trips[i]))
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TripListResponse{Trips: items})
}
