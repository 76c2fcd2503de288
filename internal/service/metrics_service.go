package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer,
// the cache, and appointment domain events.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	appointmentsCreated  *prometheus.CounterVec
	occurrencesGenerated prometheus.Counter
	mutationsTotal       *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of cache misses",
	})

	appointmentsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointments_created_total",
		Help: "Total number of create operations, split by recurrence",
	}, []string{"recurring"})

	occurrencesGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "occurrences_generated_total",
		Help: "Total number of occurrence rows produced by create operations",
	})

	mutationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointment_mutations_total",
		Help: "Total number of scoped update/delete operations",
	}, []string{"op", "scope"})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheHits, cacheMisses,
		appointmentsCreated, occurrencesGenerated, mutationsTotal,
	)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		appointmentsCreated:  appointmentsCreated,
		occurrencesGenerated: occurrencesGenerated,
		mutationsTotal:       mutationsTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordCacheOperation records one cache lookup.
func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	s.cacheLatency.Observe(duration.Seconds())
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordAppointmentCreated records a create operation and the number of
// occurrence rows it produced.
func (s *MetricsService) RecordAppointmentCreated(recurring bool, occurrences int) {
	s.appointmentsCreated.WithLabelValues(fmt.Sprintf("%t", recurring)).Inc()
	s.occurrencesGenerated.Add(float64(occurrences))
}

// RecordMutation records one scoped update or delete.
func (s *MetricsService) RecordMutation(op, scope string) {
	s.mutationsTotal.WithLabelValues(op, scope).Inc()
}
