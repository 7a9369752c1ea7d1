package observability

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/lifewheel-backend/internal/platform/envutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

const namespace = "lifewheel"

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	assessmentsStarted   *prometheus.CounterVec
	assessmentsCompleted prometheus.Counter
	responsesSaved       prometheus.Counter
	responsesSkipped     *prometheus.CounterVec
	authEvents           *prometheus.CounterVec
	rateLimited          *prometheus.CounterVec

	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge

	dbCollectorOnce sync.Once
}

// Enabled reports whether METRICS_ENABLED asks for a registry.
func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false, nil)
}

func scrapeInterval() time.Duration {
	return envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second, nil)
}

func counter(subsystem, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
}

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

func gauge(subsystem, name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
}

func histogramVec(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

var apiBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// New registers every collector on reg. Every method on a nil *Metrics is a no-op, so callers
// hold nil when METRICS_ENABLED is off.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry:    reg,
		apiRequests: counterVec("api", "requests_total", "API requests by method, route and status.", "method", "route", "status"),
		apiLatency:  histogramVec("api", "request_duration_seconds", "API request latency in seconds.", apiBuckets, "method", "route", "status"),
		apiInflight: gauge("api", "inflight_requests", "In-flight API requests."),
		rateLimited: counterVec("api", "rate_limited_total", "Requests rejected by a rate limit rule.", "rule"),

		aggregateOps:       counterVec("aggregate", "operations_total", "Aggregate write operations by outcome.", "operation", "status"),
		aggregateLatency:   histogramVec("aggregate", "operation_duration_seconds", "Aggregate write latency in seconds.", prometheus.ExponentialBuckets(0.001, 2, 12), "operation"),
		aggregateConflicts: counterVec("aggregate", "conflicts_total", "Aggregate writes rejected with a conflict.", "operation"),
		aggregateRetries:   counterVec("aggregate", "retryable_total", "Aggregate writes that failed with a retryable error.", "operation"),

		assessmentsStarted:   counterVec("assessment", "started_total", "Assessment starts split into created and resumed.", "outcome"),
		assessmentsCompleted: counter("assessment", "scored_total", "Scoring runs that marked an assessment completed."),
		responsesSaved:       counter("assessment", "responses_saved_total", "Responses written or overwritten."),
		responsesSkipped:     counterVec("assessment", "responses_skipped_total", "Response entries skipped in a batch, by reason.", "reason"),

		authEvents: counterVec("auth", "events_total", "Authentication events by kind and outcome.", "event", "outcome"),

		redisUp:   gauge("redis", "up", "1 when the last redis ping succeeded."),
		redisPing: gauge("redis", "ping_seconds", "Latency of the last redis ping."),
	}
	reg.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight, m.rateLimited,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.assessmentsStarted, m.assessmentsCompleted, m.responsesSaved, m.responsesSkipped,
		m.authEvents,
		m.redisUp, m.redisPing,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer exposes /metrics on a dedicated listener until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	labels := []string{orDefault(method, "UNKNOWN"), orDefault(route, "unknown"), orDefault(status, "0")}
	m.apiRequests.WithLabelValues(labels...).Inc()
	m.apiLatency.WithLabelValues(labels...).Observe(dur.Seconds())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// TrackInflight bumps the in-flight gauge and returns the matching release.
func (m *Metrics) TrackInflight() (done func()) {
	if m == nil {
		return func() {}
	}
	m.apiInflight.Inc()
	return m.apiInflight.Dec
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.WithLabelValues(op, orDefault(status, "unknown")).Inc()
	m.aggregateLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(op).Inc()
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) IncAssessmentStarted(resumed bool) {
	if m == nil {
		return
	}
	outcome := "created"
	if resumed {
		outcome = "resumed"
	}
	m.assessmentsStarted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncAssessmentScored() {
	if m == nil {
		return
	}
	m.assessmentsCompleted.Inc()
}

func (m *Metrics) AddResponses(saved int, skippedByReason map[string]int) {
	if m == nil {
		return
	}
	if saved > 0 {
		m.responsesSaved.Add(float64(saved))
	}
	for reason, n := range skippedByReason {
		if n > 0 {
			m.responsesSkipped.WithLabelValues(reason).Add(float64(n))
		}
	}
}

func (m *Metrics) IncAuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) IncRateLimited(rule string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(rule).Inc()
}

// RegisterDBStats exports database/sql pool stats for db. Only the first call registers.
func (m *Metrics) RegisterDBStats(log *logger.Logger, db *gorm.DB, name string) {
	if m == nil || db == nil {
		return
	}
	m.dbCollectorOnce.Do(func() {
		sqlDB, err := db.DB()
		if err != nil {
			if log != nil {
				log.Warn("metrics: db stats unavailable", "error", err)
			}
			return
		}
		if err := m.registry.Register(collectors.NewDBStatsCollector(sqlDB, name)); err != nil && log != nil {
			log.Warn("metrics: db stats collector not registered", "error", err)
		}
	})
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
