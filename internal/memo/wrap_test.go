// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package memo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap1(t *testing.T) {
	count := 0
	upper, c, err := Wrap1(func(_ context.Context, s string) (string, error) {
		count++
		return strings.ToUpper(s), nil
	})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := upper(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "ABC", got)
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, c.Len())
}

func TestWrap2(t *testing.T) {
	count := 0
	head, c, err := Wrap2(func(_ context.Context, s string, n int) (string, error) {
		count++
		if n > len(s) {
			n = len(s)
		}
		return s[:n], nil
	}, WithMaxEntries(2))
	require.NoError(t, err)

	ctx := context.Background()
	got, err := head(ctx, "abcdef", 2)
	require.NoError(t, err)
	assert.Equal(t, "ab", got)

	got, err = head(ctx, "abcdef", 2)
	require.NoError(t, err)
	assert.Equal(t, "ab", got)

	got, err = head(ctx, "abcdef", 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd", got)

	assert.Equal(t, 2, count)
	assert.Equal(t, 2, c.Len())
}

func TestWrap_InvalidOptions(t *testing.T) {
	fn, c, err := Wrap1(func(context.Context, int) (int, error) { return 0, nil }, WithMaxEntries(0))
	assert.ErrorIs(t, err, ErrInvalidMaxEntries)
	assert.Nil(t, fn)
	assert.Nil(t, c)
}

func TestPositionalAs(t *testing.T) {
	_, err := positionalAs[int](Positional("x"), 0)
	assert.ErrorContains(t, err, "is string, want int")

	_, err = positionalAs[int](Positional(), 0)
	assert.ErrorContains(t, err, "missing positional argument 0")

	v, err := positionalAs[error](Positional(nil), 0)
	assert.NoError(t, err)
	assert.Nil(t, v)
}
