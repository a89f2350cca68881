package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the RWK server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics.
	StandingsComputeDuration prometheus.Histogram
	ScoresEnteredTotal       *prometheus.CounterVec
	RepairPlansTotal         *prometheus.CounterVec
	PermissionDeniesTotal    *prometheus.CounterVec

	// Rate limiting.
	RateLimitRejectionsTotal prometheus.Counter

	// Audit collector metrics.
	CollectorFlushesTotal *prometheus.CounterVec
	CollectorEntriesTotal prometheus.Counter

	// Auth metrics.
	AuthFailuresTotal  prometheus.Counter
	AuthSuccessesTotal prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rwk_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rwk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		StandingsComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rwk_standings_compute_duration_seconds",
			Help:    "Time spent aggregating league standings.",
			Buckets: prometheus.DefBuckets,
		}),

		ScoresEnteredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rwk_scores_entered_total",
			Help: "Total number of score entries by discipline.",
		}, []string{"discipline"}),

		RepairPlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rwk_repair_plans_total",
			Help: "Total number of duplicate-identity merge plans by outcome.",
		}, []string{"outcome"}),

		PermissionDeniesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rwk_permission_denies_total",
			Help: "Total number of capability checks that were denied.",
		}, []string{"capability"}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwk_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}),

		CollectorFlushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rwk_audit_flushes_total",
			Help: "Total number of audit collector flushes.",
		}, []string{"status"}),

		CollectorEntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwk_audit_entries_total",
			Help: "Total number of audit entries recorded.",
		}),

		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwk_auth_failures_total",
			Help: "Total number of authentication failures.",
		}),

		AuthSuccessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwk_auth_successes_total",
			Help: "Total number of successful authentications.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwk_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StandingsComputeDuration,
		m.ScoresEnteredTotal,
		m.RepairPlansTotal,
		m.PermissionDeniesTotal,
		m.RateLimitRejectionsTotal,
		m.CollectorFlushesTotal,
		m.CollectorEntriesTotal,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncAuthFailure increments the auth failure counter.
func (m *Metrics) IncAuthFailure() {
	m.AuthFailuresTotal.Inc()
}

// IncAuthSuccess increments the auth success counter.
func (m *Metrics) IncAuthSuccess() {
	m.AuthSuccessesTotal.Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection() {
	m.RateLimitRejectionsTotal.Inc()
}

// IncScoreEntered increments the score entry counter for a discipline.
func (m *Metrics) IncScoreEntered(discipline string) {
	m.ScoresEnteredTotal.WithLabelValues(discipline).Inc()
}

// IncRepairPlan counts a computed merge plan. outcome is "dry_run" or "applied".
func (m *Metrics) IncRepairPlan(outcome string) {
	m.RepairPlansTotal.WithLabelValues(outcome).Inc()
}

// IncPermissionDeny increments the denied-capability counter.
func (m *Metrics) IncPermissionDeny(capability string) {
	m.PermissionDeniesTotal.WithLabelValues(capability).Inc()
}

// RecordAuditFlush counts one collector flush attempt and, on success, the
// entries it carried.
func (m *Metrics) RecordAuditFlush(err error, count int) {
	if err != nil {
		m.CollectorFlushesTotal.WithLabelValues("error").Inc()
		return
	}
	m.CollectorFlushesTotal.WithLabelValues("ok").Inc()
	m.CollectorEntriesTotal.Add(float64(count))
}

// ObserveStandingsCompute records the duration of a standings aggregation.
func (m *Metrics) ObserveStandingsCompute(seconds float64) {
	m.StandingsComputeDuration.Observe(seconds)
}
