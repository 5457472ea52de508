package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vacationManagement/internal/vacation"
	"vacationManagement/models"
)

// VacationService is the lifecycle used by VacationHandler.
type VacationService interface {
	Create(ctx context.Context, in vacation.CreateInput) (*models.Vacation, error)
	ListOwn(ctx context.Context) ([]models.Vacation, error)
	ListAll(ctx context.Context, f vacation.ListFilter) ([]models.Vacation, error)
	Transition(ctx context.Context, id int64, action vacation.Action) (*models.Vacation, error)
}

// VacationHandler exposes vacation requests over HTTP.
type VacationHandler struct {
	vacations VacationService
}

// NewVacationHandler creates a new VacationHandler instance.
func NewVacationHandler(vacations VacationService) *VacationHandler {
	return &VacationHandler{vacations: vacations}
}

// CreateVacationRequest represents the payload of POST /api/vacations.
type CreateVacationRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason"`
}

// ListOwn returns the caller's vacations.
func (h *VacationHandler) ListOwn(c *gin.Context) {
	list, err := h.vacations.ListOwn(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListAll returns every vacation, optionally filtered by ?status= and ?user_id=.
func (h *VacationHandler) ListAll(c *gin.Context) {
	f := vacation.ListFilter{Status: c.Query("status")}
	if raw, ok := c.GetQuery("user_id"); ok {
		// Rejected by the service after the role check.
		f.UserID = -1
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			f.UserID = id
		}
	}
	list, err := h.vacations.ListAll(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create files a new vacation request.
func (h *VacationHandler) Create(c *gin.Context) {
	var req CreateVacationRequest
	// A malformed body is treated like an empty one so that authentication
	// is still reported before missing dates.
	_ = c.ShouldBindJSON(&req)

	v, err := h.vacations.Create(c.Request.Context(), vacation.CreateInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// Approve moves a vacation to approved.
func (h *VacationHandler) Approve(c *gin.Context) {
	h.transition(c, vacation.ActionApprove)
}

// Decline moves a vacation to declined.
func (h *VacationHandler) Decline(c *gin.Context) {
	h.transition(c, vacation.ActionDecline)
}

func (h *VacationHandler) transition(c *gin.Context, action vacation.Action) {
	id, err := vacation.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	v, err := h.vacations.Transition(c.Request.Context(), id, action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
