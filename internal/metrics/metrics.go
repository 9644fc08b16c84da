// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus metrics for the scheduler, the
// content pipeline and the HTTP surface. All recording methods are safe on
// a nil *Metrics so components can run without instrumentation in tests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "autogensocial"

// Slot firing results.
const (
	FireResultFired        = "fired"
	FireResultClaimed      = "claimed"
	FireResultPersistError = "persist_error"
	FireResultTriggerError = "trigger_error"
)

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	// Scheduler
	SlotsEvaluated      prometheus.Counter
	SlotsFired          *prometheus.CounterVec
	PassDurationSeconds prometheus.Histogram

	// Pipeline
	PostsTotal           *prometheus.CounterVec
	StageDurationSeconds *prometheus.HistogramVec
	PostingResultsTotal  *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPDurationSeconds *prometheus.HistogramVec
}

// New creates and registers all metrics with reg, or with the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	m := &Metrics{}

	m.initSchedulerMetrics(factory)
	m.initPipelineMetrics(factory)
	m.initHTTPMetrics(factory)

	return m
}

func (m *Metrics) initSchedulerMetrics(factory promauto.Factory) {
	m.SlotsEvaluated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "scheduler",
		Name:      "slots_evaluated_total",
		Help:      "Total number of template time slots evaluated",
	})

	m.SlotsFired = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "scheduler",
			Name:      "slots_fired_total",
			Help:      "Due slots by firing result",
		},
		[]string{"result"},
	)

	m.PassDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "scheduler",
		Name:      "pass_duration_seconds",
		Help:      "Duration of one scheduling pass in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
	})
}

func (m *Metrics) initPipelineMetrics(factory promauto.Factory) {
	m.PostsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "pipeline",
			Name:      "posts_total",
			Help:      "Pipeline runs by final post status",
		},
		[]string{"status"},
	)

	m.StageDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
		},
		[]string{"stage"},
	)

	m.PostingResultsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "pipeline",
			Name:      "posting_results_total",
			Help:      "Per-platform posting outcomes",
		},
		[]string{"platform", "success"},
	)
}

func (m *Metrics) initHTTPMetrics(factory promauto.Factory) {
	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// SlotEvaluated counts one evaluated slot.
func (m *Metrics) SlotEvaluated() {
	if m == nil {
		return
	}
	m.SlotsEvaluated.Inc()
}

// SlotFired counts a due slot by result.
func (m *Metrics) SlotFired(result string) {
	if m == nil {
		return
	}
	m.SlotsFired.WithLabelValues(result).Inc()
}

// ObservePass records the duration of a scheduling pass.
func (m *Metrics) ObservePass(d time.Duration) {
	if m == nil {
		return
	}
	m.PassDurationSeconds.Observe(d.Seconds())
}

// PostFinished counts a pipeline run by its final status.
func (m *Metrics) PostFinished(status string) {
	if m == nil {
		return
	}
	m.PostsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// PlatformResult counts one platform posting outcome.
func (m *Metrics) PlatformResult(platform string, success bool) {
	if m == nil {
		return
	}
	m.PostingResultsTotal.WithLabelValues(platform, strconv.FormatBool(success)).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}
