package handlers

import (
	"errors"
	"net/http"

	"TRIPMATE_BACK-END/internal/dto"
	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/service"
	"TRIPMATE_BACK-END/internal/utils"
)

// writeServiceError maps the service error kinds onto HTTP statuses. Policy
// rejections carry their reason code so the frontend can render specific
// messaging.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr  *service.ValidationError
		authErr        *service.AuthorizationError
		conflictErr    *service.ConflictError
		notFoundErr    *service.NotFoundError
		policyErr      *service.PolicyError
		unavailableErr *service.ServiceUnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", validationErr.Msg)
	case errors.As(err, &authErr):
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", authErr.Msg)
	case errors.As(err, &conflictErr):
		utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", conflictErr.Msg)
	case errors.As(err, &notFoundErr):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", notFoundErr.Error())
	case errors.As(err, &policyErr):
		utils.WriteJSONResponse(w, http.StatusConflict, dto.ErrorResponse{
			Error:   "Policy rejection",
			Message: policyErr.Error(),
			Reason:  policyErr.Reason,
		})
	case errors.As(err, &unavailableErr):
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Service unavailable", unavailableErr.Error())
	default:
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

func tripToResponse(t *models.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:              t.ID.String(),
		CreatorID:       t.CreatorID.String(),
		Destination:     t.Destination,
		BudgetPerPerson: t.BudgetPerPerson,
		StartDate:       utils.FormatDate(t.StartDate),
		EndDate:         utils.FormatDate(t.EndDate),
		FemaleAllowed:   t.FemaleAllowed,
		MaleCapacity:    t.MaleCapacity,
		FemaleCapacity:  t.FemaleCapacity,
		MaleFilled:      t.MaleFilled,
		FemaleFilled:    t.FemaleFilled,
		Status:          t.Status,
		Itinerary:       t.Itinerary,
		CreatedAt:       utils.FormatTimestamp(t.CreatedAt),
		UpdatedAt:       utils.FormatTimestamp(t.UpdatedAt),
	}
}

func requestToResponse(r *models.JoinRequest) dto.JoinRequestResponse {
	resp := dto.JoinRequestResponse{
		ID:              r.ID.String(),
		TripID:          r.TripID.String(),
		RequesterID:     r.RequesterID.String(),
		RequestedGender: r.RequestedGender,
		Status:          r.Status,
		RequestedAt:     utils.FormatTimestamp(r.RequestedAt),
	}
	if r.DecidedAt != nil {
		s := utils.FormatTimestamp(*r.DecidedAt)
		resp.DecidedAt = &s
	}
	return resp
}
