// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package memo

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsCacheActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("memocall", reg)

	fail := errors.New("nope")
	c, err := New(func(_ context.Context, args Args) (int, error) {
		if args.Positional[0] == "bad" {
			return 0, fail
		}
		return 1, nil
	}, WithMaxEntries(1), WithMetrics(m), WithName("test"))
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = c.Call(ctx, Positional("a"))
	_, _ = c.Call(ctx, Positional("a"))
	_, _ = c.Call(ctx, Positional("b"))
	_, _ = c.Call(ctx, Positional("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("test", "hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Requests.WithLabelValues("test", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evictions.WithLabelValues("test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Entries.WithLabelValues("test")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProducerLatency))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("c", "hit")
		m.RecordEviction("c")
		m.UpdateEntries("c", 3)
	})
}
