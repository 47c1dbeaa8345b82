package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"TRIPMATE_BACK-END/internal/dto"
	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/service"
	"TRIPMATE_BACK-END/internal/utils"
)

// RequestsHandler manages the join-request workflow endpoints. Decisions
// fan out to notifications and email best-effort; the workflow itself never
// waits on either.
type RequestsHandler struct {
	svc      *service.RequestService
	db       *pgxpool.Pool
	notifier NotificationsService
	email    *utils.EmailService
}

// NewRequestsHandler creates a new RequestsHandler
func NewRequestsHandler(svc *service.RequestService, db *pgxpool.Pool, notifier NotificationsService, email *utils.EmailService) *RequestsHandler {
	return &RequestsHandler{svc: svc, db: db, notifier: notifier, email: email}
}

// requesterGender loads the actor's profile gender for the capacity
// snapshot. Missing profile or unset gender comes back empty and is
// rejected by the service.
func (h *RequestsHandler) requesterGender(ctx context.Context, userID uuid.UUID) string {
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var gender *string
	if err := h.db.QueryRow(queryCtx,
		`SELECT gender FROM profiles WHERE user_id = $1`, userID).Scan(&gender); err != nil {
		return ""
	}
	if gender == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*gender))
}

// SubmitRequest handles POST /api/trips/{trip_id}/request
// @Summary Request to join a trip
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 201 {object} dto.JoinRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Conflict or policy rejection with reason code"
// @Router /api/trips/{trip_id}/request [post]
func (h *RequestsHandler) SubmitRequest(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	gender := h.requesterGender(r.Context(), userID)
	req, err := h.svc.Submit(r.Context(), tripID, userID, gender)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.notifyCreator(r.Context(), req)

	utils.WriteJSONResponse(w, http.StatusCreated, requestToResponse(req))
}

// ResolveRequest handles POST /api/trips/requests/{request_id}/approve and
// POST /api/trips/requests/{request_id}/deny
// @Summary Approve or deny a join request (trip creator only)
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param request_id path string true "Request ID"
// @Success 200 {object} dto.JoinRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already decided, or capacity_full policy rejection"
// @Router /api/trips/requests/{request_id}/approve [post]
func (h *RequestsHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	// Path: /api/trips/requests/{request_id}/approve|deny
	rest := strings.TrimPrefix(r.URL.Path, "/api/trips/requests/")
	slash := strings.Index(rest, "/")
	if slash <= 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid path", "missing request id or action")
		return
	}
	requestID, err := uuid.Parse(rest[:slash])
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "request id must be a valid UUID")
		return
	}
	var decision string
	switch rest[slash+1:] {
	case "approve":
		decision = service.DecisionApprove
	case "deny":
		decision = service.DecisionDeny
	default:
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid path", "action must be approve or deny")
		return
	}

	req, err := h.svc.Resolve(r.Context(), requestID, userID, decision)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.notifyRequester(r.Context(), req)

	utils.WriteJSONResponse(w, http.StatusOK, requestToResponse(req))
}

// PendingRequests handles GET /api/trips/requests/pending
// @Summary List pending requests on the creator's trips, oldest first
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PendingRequestsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/requests/pending [get]
func (h *RequestsHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	pending, err := h.svc.ListPending(r.Context(), userID)
	if err != nil {
		// Degraded, not fatal: the tab renders empty and the client can
		// refresh.
		log.Printf("Error listing pending requests: %v (user_id=%s)", err, userID.String())
		utils.WriteJSONResponse(w, http.StatusOK, dto.PendingRequestsResponse{Requests: []dto.PendingRequestItem{}})
		return
	}

	items := make([]dto.PendingRequestItem, 0, len(pending))
	for i := range pending {
		p := &pending[i]
		items = append(items, dto.PendingRequestItem{
			JoinRequestResponse: requestToResponse(&p.JoinRequest),
			TripDestination:     p.TripDestination,
			RequesterName:       p.RequesterName,
			RequesterEmail:      p.RequesterEmail,
		})
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.PendingRequestsResponse{Requests: items})
}

// notifyCreator tells the trip creator about a new join request.
func (h *RequestsHandler) notifyCreator(ctx context.Context, req *models.JoinRequest) {
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var creatorID uuid.UUID
	var destination string
	if err := h.db.QueryRow(queryCtx,
		`SELECT creator_id, destination FROM trips WHERE id = $1`, req.TripID).
		Scan(&creatorID, &destination); err != nil {
		log.Printf("notifyCreator: trip lookup failed: %v (trip_id=%s)", err, req.TripID.String())
		return
	}

	msg := "Someone wants to join your trip to " + destination + "."
	if err := h.notifier.Create(ctx, creatorID, TypeJoinRequestReceived,
		"New join request", &msg,
		map[string]any{"trip_id": req.TripID.String(), "request_id": req.ID.String()}); err != nil {
		log.Printf("notifyCreator: %v (request_id=%s)", err, req.ID.String())
	}
}

// notifyRequester tells the requester about the decision, by notification
// and best-effort email.
func (h *RequestsHandler) notifyRequester(ctx context.Context, req *models.JoinRequest) {
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var destination, requesterEmail string
	if err := h.db.QueryRow(queryCtx,
		`SELECT t.destination, u.email
		   FROM trips t JOIN users u ON u.id = $2
		  WHERE t.id = $1`, req.TripID, req.RequesterID).
		Scan(&destination, &requesterEmail); err != nil {
		log.Printf("notifyRequester: lookup failed: %v (request_id=%s)", err, req.ID.String())
		return
	}

	approved := req.Status == models.RequestStatusApproved
	nType := TypeRequestDenied
	title := "Join request denied"
	msg := "Your request to join the trip to " + destination + " was denied."
	if approved {
		nType = TypeRequestApproved
		title = "Join request approved"
		msg = "You're in! Your request to join the trip to " + destination + " was approved."
	}
	if err := h.notifier.Create(ctx, req.RequesterID, nType, title, &msg,
		map[string]any{"trip_id": req.TripID.String(), "request_id": req.ID.String()}); err != nil {
		log.Printf("notifyRequester: %v (request_id=%s)", err, req.ID.String())
	}

	if err := h.email.SendRequestDecision(requesterEmail, destination, approved); err != nil {
		log.Printf("notifyRequester: decision email failed: %v (request_id=%s)", err, req.ID.String())
	}
}
