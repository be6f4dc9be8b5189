package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldserve/dispatch-api/internal/dto"
	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/response"
)

type entryService interface {
	ScheduleJob(ctx context.Context, req dto.ScheduleJobRequest) (*models.ScheduleEntry, error)
	MoveOrResize(ctx context.Context, entryID string, req dto.MoveEntryRequest) (*models.ScheduleEntry, error)
	UpdateStatus(ctx context.Context, entryID string, req dto.UpdateEntryStatusRequest) (*models.ScheduleEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error
	ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, error)
}

// EntryHandler manages schedule entry endpoints.
type EntryHandler struct {
	service entryService
}

// NewEntryHandler constructs handler.
func NewEntryHandler(svc entryService) *EntryHandler {
	return &EntryHandler{service: svc}
}

// Create godoc
// @Summary Schedule a job onto an engineer's calendar
// @Tags Entries
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleJobRequest true "Placement payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req dto.ScheduleJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.ScheduleJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Move godoc
// @Summary Move or resize an entry
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.MoveEntryRequest true "Placement patch"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /entries/{id} [patch]
func (h *EntryHandler) Move(c *gin.Context) {
	var req dto.MoveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.MoveOrResize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// UpdateStatus godoc
// @Summary Update an entry's lifecycle status
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.UpdateEntryStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /entries/{id}/status [patch]
func (h *EntryHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete an entry
// @Tags Entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204
// @Router /entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List entries in a date range
// @Tags Entries
// @Produce json
// @Param engineerId query string false "Filter by engineer"
// @Param from query string true "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string true "Range end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	from, okFrom := parseTimeParam(c.Query("from"))
	to, okTo := parseTimeParam(c.Query("to"))
	if !okFrom || !okTo {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from and to are required (RFC3339 or YYYY-MM-DD)"))
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), models.EntryFilter{
		EngineerID: c.Query("engineerId"),
		From:       from,
		To:         to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

func parseTimeParam(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
