// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by every Cache that is
// configured with it. Each series carries a "cache" label.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Evictions       *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	Entries         *prometheus.GaugeVec
	ProducerLatency *prometheus.HistogramVec
}

// NewMetrics registers cache collectors with reg under namespace. A nil reg
// falls back to the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache calls by outcome (hit, miss, coalesced)",
		}, []string{"cache", "outcome"}),
		Evictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries evicted to stay within capacity",
		}, []string{"cache"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "producer_failures_total",
			Help:      "Producer calls that returned an error",
		}, []string{"cache"}),
		Entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Current number of stored results",
		}, []string{"cache"}),
		ProducerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "producer_duration_seconds",
			Help:      "Producer call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cache"}),
	}
}

// RecordRequest counts one call with the given outcome.
func (m *Metrics) RecordRequest(cache, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(cache, outcome).Inc()
}

// RecordProducer records one producer invocation.
func (m *Metrics) RecordProducer(cache string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.ProducerLatency.WithLabelValues(cache).Observe(duration.Seconds())
	if !success {
		m.Failures.WithLabelValues(cache).Inc()
	}
}

// RecordEviction counts one eviction.
func (m *Metrics) RecordEviction(cache string) {
	if m == nil {
		return
	}
	m.Evictions.WithLabelValues(cache).Inc()
}

// UpdateEntries sets the entries gauge.
func (m *Metrics) UpdateEntries(cache string, n int) {
	if m == nil {
		return
	}
	m.Entries.WithLabelValues(cache).Set(float64(n))
}
