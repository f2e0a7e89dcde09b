// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

// DefaultMaxEntries is the capacity of a Cache built without WithMaxEntries.
const DefaultMaxEntries = 64

type options struct {
	name       string
	maxEntries int
	policy     Policy
	metrics    *Metrics
}

func defaultOptions() options {
	return options{
		name:       "memo",
		maxEntries: DefaultMaxEntries,
		policy:     PolicyFIFO,
	}
}

// Option configures a Cache.
type Option func(*options)

// WithMaxEntries sets the maximum number of stored results. It must be
// positive.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// WithPolicy sets the eviction policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMetrics reports cache activity to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithName labels the cache in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}
