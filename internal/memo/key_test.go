// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package memo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type host struct {
	name string
	port int
}

func (h host) String() string { return h.name }

type counter struct {
	n int
}

func (c *counter) String() string { return fmt.Sprintf("counter(%d)", c.n) }

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Args
		equal bool
	}{
		{
			name:  "identical positional",
			a:     Positional("u", 1),
			b:     Positional("u", 1),
			equal: true,
		},
		{
			name:  "positional order matters",
			a:     Positional("u", 1),
			b:     Positional(1, "u"),
			equal: false,
		},
		{
			name:  "type is part of identity",
			a:     Positional(1),
			b:     Positional("1"),
			equal: false,
		},
		{
			name:  "int widths differ",
			a:     Positional(int32(1)),
			b:     Positional(int64(1)),
			equal: false,
		},
		{
			name:  "named order does not matter",
			a:     Args{Named: map[string]any{"x": 1, "y": 2}},
			b:     Positional().With("y", 2).With("x", 1),
			equal: true,
		},
		{
			name:  "named value differs",
			a:     Positional("u").With("first_n", 50),
			b:     Positional("u").With("first_n", 200),
			equal: false,
		},
		{
			name:  "named versus positional",
			a:     Positional("u", 50),
			b:     Positional("u").With("first_n", 50),
			equal: false,
		},
		{
			name:  "nil map and empty map",
			a:     Args{Positional: []any{"u"}},
			b:     Args{Positional: []any{"u"}, Named: map[string]any{}},
			equal: true,
		},
		{
			name:  "lossy stringer keeps every field",
			a:     Positional(host{name: "h", port: 1}),
			b:     Positional(host{name: "h", port: 2}),
			equal: false,
		},
		{
			name:  "equal values with a stringer",
			a:     Positional(host{name: "h", port: 1}),
			b:     Positional(host{name: "h", port: 1}),
			equal: true,
		},
		{
			name:  "pointers with a stringer compare by String",
			a:     Positional(&counter{n: 3}),
			b:     Positional(&counter{n: 3}),
			equal: true,
		},
		{
			name:  "nil pointer with a stringer",
			a:     Positional((*counter)(nil)),
			b:     Positional(&counter{}),
			equal: false,
		},
		{
			name:  "maps compare by content",
			a:     Positional(map[string]int{"a": 1, "b": 2, "c": 3}),
			b:     Positional(map[string]int{"c": 3, "b": 2, "a": 1}),
			equal: true,
		},
		{
			name:  "slices compare by content",
			a:     Positional([]int{1, 2}),
			b:     Positional([]int{1, 2}),
			equal: true,
		},
		{
			name:  "separator inside a string value",
			a:     Positional("a,b"),
			b:     Positional("a", "b"),
			equal: false,
		},
		{
			name:  "nil value",
			a:     Positional(nil),
			b:     Positional("nil"),
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := KeyOf(tt.a), KeyOf(tt.b)
			if tt.equal {
				assert.Equal(t, ka, kb)
				assert.Equal(t, ka.Fingerprint(), kb.Fingerprint())
			} else {
				assert.NotEqual(t, ka, kb)
			}
		})
	}
}

func TestKeyOf_Deterministic(t *testing.T) {
	args := Positional("https://google.com").With("first_n", 50).With("verbose", true)
	first := KeyOf(args)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, KeyOf(args))
	}
	assert.Len(t, first.Short(), 16)
}

func TestArgsWith_DoesNotMutateReceiver(t *testing.T) {
	base := Args{Positional: []any{"u"}, Named: map[string]any{"a": 1}}
	derived := base.With("b", 2)

	assert.Len(t, base.Named, 1)
	assert.Len(t, derived.Named, 2)
	assert.NotEqual(t, KeyOf(base), KeyOf(derived))

	derived.Positional[0] = "changed"
	assert.Equal(t, "u", base.Positional[0])
}
