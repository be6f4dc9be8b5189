package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldserve/dispatch-api/internal/service"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Scrape serves the Prometheus exposition format.
func (h *MetricsHandler) Scrape(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
