package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldserve/dispatch-api/internal/dto"
	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/response"
)

type ruleService interface {
	CreateRule(ctx context.Context, req dto.CreateRecurringRuleRequest) (*models.RecurringRule, error)
	ListRules(ctx context.Context, engineerID string) ([]models.RecurringRule, error)
	DeleteRule(ctx context.Context, id string) error
}

// RuleHandler manages recurring rule endpoints.
type RuleHandler struct {
	service ruleService
}

// NewRuleHandler constructs handler.
func NewRuleHandler(svc ruleService) *RuleHandler {
	return &RuleHandler{service: svc}
}

// Create godoc
// @Summary Create a recurring rule
// @Tags Recurring Rules
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecurringRuleRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Router /recurring-rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req dto.CreateRecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rule, err := h.service.CreateRule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// List godoc
// @Summary List recurring rules
// @Tags Recurring Rules
// @Produce json
// @Param engineerId query string false "Filter by engineer"
// @Success 200 {object} response.Envelope
// @Router /recurring-rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.service.ListRules(c.Request.Context(), c.Query("engineerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Delete godoc
// @Summary Delete a recurring rule
// @Tags Recurring Rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 204
// @Router /recurring-rules/{id} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
