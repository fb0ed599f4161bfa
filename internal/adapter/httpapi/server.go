// Package httpapi exposes the report aggregations over HTTP alongside
// health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
	"github.com/couchcryptid/storm-damage-report/internal/observability"
	"github.com/couchcryptid/storm-damage-report/internal/report"
)

// ReportSource provides the cleaned snapshot the API aggregates over.
type ReportSource interface {
	CheckReadiness(ctx context.Context) error
	Snapshot() []domain.StormRecord
}

// Options tunes the response cache and rate limiter. Zero values pick
// sensible defaults.
type Options struct {
	CacheTTL  time.Duration
	RateLimit float64
	RateBurst int
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 20
	}
	if o.RateBurst <= 0 {
		o.RateBurst = 40
	}
	return o
}

// Server exposes report, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     ReportSource
	cache      *gocache.Cache
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the report routes mounted under
// /v1 plus /healthz, /readyz, and /metrics.
func NewServer(addr string, source ReportSource, metrics *observability.Metrics, opts Options, logger *slog.Logger) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:  source,
		cache:   gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/top", s.report("top", s.handleTop))
	mux.HandleFunc("GET /v1/damage-by-state", s.report("damage-by-state", s.handleDamageByState))
	mux.HandleFunc("GET /v1/frequency", s.report("frequency", s.handleFrequency))
	mux.HandleFunc("GET /v1/counts-by-state", s.report("counts-by-state", s.handleCountsByState))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.source.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// reportHandler computes one aggregation from the snapshot. A returned
// error means bad request parameters.
type reportHandler func(records []domain.StormRecord, r *http.Request) (any, error)

// report wraps an aggregation handler with rate limiting, readiness
// gating, and the response cache.
func (s *Server) report(endpoint string, handler reportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.ReportRequests.WithLabelValues(endpoint, "429").Inc()
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}

		records := s.source.Snapshot()
		if records == nil {
			s.metrics.ReportRequests.WithLabelValues(endpoint, "503").Inc()
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "report data not loaded yet"})
			return
		}

		key := r.URL.RequestURI()
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.ReportCache.WithLabelValues("hit").Inc()
			s.metrics.ReportRequests.WithLabelValues(endpoint, "200").Inc()
			writeJSONBytes(w, http.StatusOK, cached.([]byte))
			return
		}
		s.metrics.ReportCache.WithLabelValues("miss").Inc()

		result, err := handler(records, r)
		if err != nil {
			s.metrics.ReportRequests.WithLabelValues(endpoint, "400").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		body, err := json.Marshal(result)
		if err != nil {
			s.metrics.ReportRequests.WithLabelValues(endpoint, "500").Inc()
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode response"})
			return
		}
		s.cache.SetDefault(key, body)
		s.metrics.ReportRequests.WithLabelValues(endpoint, "200").Inc()
		writeJSONBytes(w, http.StatusOK, body)
	}
}

func (s *Server) handleTop(records []domain.StormRecord, r *http.Request) (any, error) {
	metric, err := queryMetric(r)
	if err != nil {
		return nil, err
	}

	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("parameter n must be a positive integer")
		}
	}

	return map[string]any{
		"metric":  metric.String(),
		"results": report.TopN(records, metric, n),
	}, nil
}

func (s *Server) handleDamageByState(records []domain.StormRecord, r *http.Request) (any, error) {
	metric, err := queryMetric(r)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"metric":   metric.String(),
		"by_state": report.DamageByState(records, metric),
	}, nil
}

func (s *Server) handleFrequency(records []domain.StormRecord, r *http.Request) (any, error) {
	eventType := r.URL.Query().Get("type")
	if eventType == "" {
		return nil, fmt.Errorf("parameter type is required")
	}
	return map[string]any{
		"event_type": eventType,
		"by_year":    report.EventFrequencyByYear(records, eventType),
	}, nil
}

func (s *Server) handleCountsByState(records []domain.StormRecord, r *http.Request) (any, error) {
	eventType := r.URL.Query().Get("type")
	if eventType == "" {
		return nil, fmt.Errorf("parameter type is required")
	}
	return map[string]any{
		"event_type": eventType,
		"by_state":   report.EventCountByState(records, eventType),
	}, nil
}

func queryMetric(r *http.Request) (report.Metric, error) {
	raw := r.URL.Query().Get("metric")
	if raw == "" {
		return report.MetricTotalDamage, nil
	}
	return report.ParseMetric(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}

func writeJSONBytes(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
