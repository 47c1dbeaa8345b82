package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"TRIPMATE_BACK-END/internal/dto"
	"TRIPMATE_BACK-END/internal/models"
	"TRIPMATE_BACK-END/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileHandler struct {
	pool *pgxpool.Pool
}

func NewProfileHandler(pool *pgxpool.Pool) *ProfileHandler {
	return &ProfileHandler{pool: pool}
}

// Handle dispatches /api/user/profile by method
func (h *ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetMe(w, r)
	case http.MethodPut:
		h.Update(w, r)
	default:
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method Not Allowed", "only GET, PUT are allowed")
	}
}

// GetMe godoc
// @Summary      Get my profile
// @Description  View the authenticated user's profile (requires Bearer JWT)
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/user/profile [get]
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "missing user in context")
		return
	}

	resp, err := h.loadProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Profile not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// Update godoc
// @Summary      Update user profile
// @Description  Update profile fields; only the fields sent are changed. Gender changes never reclassify already-submitted join requests.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.UpdateProfileRequest  true  "Profile update payload"
// @Success      200      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/user/profile [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "missing user in context")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*req.Gender))
		switch g {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
			req.Gender = &g
		default:
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "gender must be male, female, or other")
			return
		}
	}
	if req.Age != nil && (*req.Age < 16 || *req.Age > 120) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "age must be between 16 and 120")
		return
	}

	ctx := r.Context()

	// Make sure the row exists; the profile starts empty on first update.
	if _, err := h.pool.Exec(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	// Build the SET list from the fields that were actually sent
	set := []string{}
	args := []any{}
	i := 1

	addStr := func(col string, p *string) {
		if p == nil {
			return
		}
		var v any = *p
		if *p == "" {
			v = nil
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, v)
		i++
	}
	addInt := func(col string, p *int) {
		if p == nil {
			return
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, *p)
		i++
	}

	addInt("age", req.Age)
	addStr("gender", req.Gender)
	addStr("phone_number", req.PhoneNumber)
	addStr("college", req.College)
	addStr("course", req.Course)
	addInt("graduation_year", req.GraduationYear)
	addStr("location", req.Location)
	addStr("bio", req.Bio)

	if len(set) == 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "no fields to update")
		return
	}

	set = append(set, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++

	qUpdate := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d`, strings.Join(set, ", "), i)
	args = append(args, userID)

	if _, err := h.pool.Exec(ctx, qUpdate, args...); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	resp, err := h.loadProfile(ctx, userID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// loadProfile joins users + profiles. A user without a profiles row still
// gets a response with identity fields and everything else unset.
func (h *ProfileHandler) loadProfile(ctx context.Context, userID uuid.UUID) (dto.ProfileResponse, error) {
	const q = `
SELECT
	u.id::text,
	u.name,
	u.email,
	p.age,
	p.gender,
	p.phone_number,
	p.college,
	p.course,
	p.graduation_year,
	p.location,
	p.bio,
	COALESCE(p.updated_at, u.updated_at)
FROM users u
LEFT JOIN profiles p ON p.user_id = u.id
WHERE u.id = $1
LIMIT 1;
`
	var (
		resp      dto.ProfileResponse
		updatedAt time.Time
	)
	err := h.pool.QueryRow(ctx, q, userID).Scan(
		&resp.UserID,
		&resp.Name,
		&resp.Email,
		&resp.Age,
		&resp.Gender,
		&resp.PhoneNumber,
		&resp.College,
		&resp.Course,
		&resp.GraduationYear,
		&resp.Location,
		&resp.Bio,
		&updatedAt,
	)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return resp, nil
}
