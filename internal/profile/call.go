// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
)

var ErrInvalidLimit = errors.New("report limit must be positive")

// Target is the function a Call measures.
type Target[A, V any] func(context.Context, A) (V, error)

// Call runs a Target inside a measurement Session.
type Call[A, V any] struct {
	target   Target[A, V]
	reporter Reporter
	limit    int
	label    string
}

// Option configures a Call.
type Option func(*callOptions)

type callOptions struct {
	limit int
	label string
}

// WithLimit sets the number of sites kept in each Report.
func WithLimit(n int) Option {
	return func(o *callOptions) {
		o.limit = n
	}
}

// WithLabel tags every Report produced by the Call.
func WithLabel(label string) Option {
	return func(o *callOptions) {
		o.label = label
	}
}

// New builds a Call around target. A nil reporter discards reports.
func New[A, V any](target Target[A, V], reporter Reporter, opts ...Option) (*Call[A, V], error) {
	o := callOptions{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, o.limit)
	}

	return &Call[A, V]{
		target:   target,
		reporter: reporter,
		limit:    o.limit,
		label:    o.label,
	}, nil
}

// Invoke runs the target with a. The target's value and error are returned
// as is. The Report goes to the reporter only when the target succeeds, and
// the session is closed on every path out, panics included. The target gets
// a ctx carrying the session; a measured Call invoked with that ctx runs its
// own target unmeasured and emits no Report.
func (c *Call[A, V]) Invoke(ctx context.Context, a A) (V, error) {
	s, err := Start(ctx)
	if errors.Is(err, ErrNestedSession) {
		// The open session already sees everything the target allocates.
		return c.target(ctx, a)
	}
	if err != nil {
		var zero V
		return zero, fmt.Errorf("failed to start measurement: %w", err)
	}
	defer s.Close()

	v, err := c.target(s.bind(ctx), a)
	if err != nil {
		log.WithField("session", s.ID).WithError(err).Debug("target failed, no report")
		return v, err
	}

	report, rerr := s.Report(c.limit)
	if rerr != nil {
		log.WithError(rerr).Warn("failed to build memory report")
		return v, nil
	}
	report.Label = c.label

	if c.reporter != nil {
		if rerr := c.reporter.Report(report); rerr != nil {
			log.WithError(rerr).Warn("memory reporter failed")
		}
	}

	return v, nil
}

// Limit is the number of sites kept in each Report.
func (c *Call[A, V]) Limit() int { return c.limit }
