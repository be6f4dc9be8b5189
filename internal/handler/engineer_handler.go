package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldserve/dispatch-api/internal/dto"
	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/response"
)

type engineerService interface {
	CreateEngineer(ctx context.Context, req dto.CreateEngineerRequest) (*models.Engineer, error)
	ListEngineers(ctx context.Context, filter models.EngineerFilter) ([]models.Engineer, *models.Pagination, error)
	GetEngineer(ctx context.Context, id string) (*models.Engineer, error)
	UpdateScheduleConfig(ctx context.Context, engineerID string, req dto.UpdateScheduleConfigRequest) (*models.Engineer, error)
	DayAvailability(ctx context.Context, engineerID string, day time.Time) (*dto.DayAvailability, error)
}

// EngineerHandler manages engineer roster and policy endpoints.
type EngineerHandler struct {
	service engineerService
}

// NewEngineerHandler constructs handler.
func NewEngineerHandler(svc engineerService) *EngineerHandler {
	return &EngineerHandler{service: svc}
}

// List godoc
// @Summary List engineers
// @Tags Engineers
// @Produce json
// @Param search query string false "Name or email search"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /engineers [get]
func (h *EngineerHandler) List(c *gin.Context) {
	var filter models.EngineerFilter
	filter.Search = c.Query("search")
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	engineers, pagination, err := h.service.ListEngineers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, engineers, pagination)
}

// Create godoc
// @Summary Register an engineer
// @Tags Engineers
// @Accept json
// @Produce json
// @Param payload body dto.CreateEngineerRequest true "Engineer payload"
// @Success 201 {object} response.Envelope
// @Router /engineers [post]
func (h *EngineerHandler) Create(c *gin.Context) {
	var req dto.CreateEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	engineer, err := h.service.CreateEngineer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, engineer)
}

// Get godoc
// @Summary Get an engineer
// @Tags Engineers
// @Produce json
// @Param id path string true "Engineer ID"
// @Success 200 {object} response.Envelope
// @Router /engineers/{id} [get]
func (h *EngineerHandler) Get(c *gin.Context) {
	engineer, err := h.service.GetEngineer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, engineer, nil)
}

// UpdateScheduleConfig godoc
// @Summary Replace an engineer's scheduling policy
// @Tags Engineers
// @Accept json
// @Produce json
// @Param id path string true "Engineer ID"
// @Param payload body dto.UpdateScheduleConfigRequest true "Policy payload"
// @Success 200 {object} response.Envelope
// @Router /engineers/{id}/schedule-config [put]
func (h *EngineerHandler) UpdateScheduleConfig(c *gin.Context) {
	var req dto.UpdateScheduleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	engineer, err := h.service.UpdateScheduleConfig(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, engineer, nil)
}

// Availability godoc
// @Summary Derived availability for one engineer day
// @Tags Engineers
// @Produce json
// @Param id path string true "Engineer ID"
// @Param date query string true "Calendar day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /engineers/{id}/availability [get]
func (h *EngineerHandler) Availability(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	view, err := h.service.DayAvailability(c.Request.Context(), c.Param("id"), day.UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
