package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldserve/dispatch-api/internal/dto"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/response"
)

type generateService interface {
	GenerateFromRules(ctx context.Context, req dto.GenerateFromRulesRequest) (*dto.GenerateFromRulesResult, error)
}

type copyService interface {
	CopyWeek(ctx context.Context, req dto.CopyWeekRequest) (*dto.CopyWeekResult, error)
}

// ScheduleHandler manages the bulk calendar operations.
type ScheduleHandler struct {
	generator generateService
	copier    copyService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(generator generateService, copier copyService) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, copier: copier}
}

// Generate godoc
// @Summary Expand recurring rules into a target week
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.GenerateFromRulesRequest true "Target week"
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateFromRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.generator.GenerateFromRules(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CopyWeek godoc
// @Summary Copy all bookings from one week to another
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.CopyWeekRequest true "Source and target week"
// @Success 200 {object} response.Envelope
// @Router /schedule/copy-week [post]
func (h *ScheduleHandler) CopyWeek(c *gin.Context) {
	var req dto.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.copier.CopyWeek(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
