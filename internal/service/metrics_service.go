package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the dispatch
// engine: HTTP traffic plus placement decisions and bulk operation results.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	placementTotal  *prometheus.CounterVec
	bulkCreated     *prometheus.CounterVec
	bulkSkipped     *prometheus.CounterVec
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	placementTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_placements_total",
		Help: "Placement decisions by outcome and rejection reason",
	}, []string{"outcome", "reason"})

	bulkCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_bulk_created_total",
		Help: "Entries committed by bulk operations",
	}, []string{"operation"})

	bulkSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_bulk_skipped_total",
		Help: "Candidates skipped by bulk operations",
	}, []string{"operation"})

	registry.MustRegister(requestDuration, requestTotal, placementTotal, bulkCreated, bulkSkipped)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		placementTotal:  placementTotal,
		bulkCreated:     bulkCreated,
		bulkSkipped:     bulkSkipped,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}

// ObserveHTTPRequest records one served HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordPlacementCommitted counts one accepted placement.
func (s *MetricsService) RecordPlacementCommitted() {
	if s == nil {
		return
	}
	s.placementTotal.WithLabelValues("committed", "").Inc()
}

// RecordPlacementRejected counts one rejected placement by reason code.
func (s *MetricsService) RecordPlacementRejected(reason string) {
	if s == nil {
		return
	}
	s.placementTotal.WithLabelValues("rejected", reason).Inc()
}

// RecordBulkResult counts the outcome of one bulk operation run.
func (s *MetricsService) RecordBulkResult(operation string, created, skipped int) {
	if s == nil {
		return
	}
	s.bulkCreated.WithLabelValues(operation).Add(float64(created))
	s.bulkSkipped.WithLabelValues(operation).Add(float64(skipped))
}
