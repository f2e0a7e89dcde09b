// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Args are the arguments of one memoized call.
type Args struct {
	Positional []any
	Named      map[string]any
}

// Positional builds Args from positional values only.
func Positional(values ...any) Args {
	return Args{Positional: values}
}

// With returns a copy of a with name bound to value. The receiver is not
// modified.
func (a Args) With(name string, value any) Args {
	named := make(map[string]any, len(a.Named)+1)
	for k, v := range a.Named {
		named[k] = v
	}
	named[name] = value

	positional := make([]any, len(a.Positional))
	copy(positional, a.Positional)

	return Args{Positional: positional, Named: named}
}

// Key is the canonical identity of a set of Args. Two Args produce the same
// Key only when their positional values and named bindings are equal.
type Key string

// KeyOf derives the Key for args.
func KeyOf(args Args) Key {
	var b strings.Builder

	b.WriteByte('(')
	for i, v := range args.Positional {
		if i > 0 {
			b.WriteByte(',')
		}
		writeValue(&b, v)
	}
	b.WriteString(")[")

	names := make([]string, 0, len(args.Named))
	for name := range args.Named {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(name))
		b.WriteByte('=')
		writeValue(&b, args.Named[name])
	}
	b.WriteByte(']')

	return Key(b.String())
}

// Fingerprint is a 64-bit hash of the key, short enough for log lines and
// metric labels.
func (k Key) Fingerprint() uint64 {
	return xxhash.Sum64String(string(k))
}

// Short renders the fingerprint as fixed-width hex.
func (k Key) Short() string {
	return fmt.Sprintf("%016x", k.Fingerprint())
}

func writeValue(b *strings.Builder, v any) {
	fmt.Fprintf(b, "%T:", v)
	b.WriteString(strconv.Quote(renderValue(v)))
}

// renderValue uses the Go-syntax form, which covers every field and prints
// map keys in sorted order. A Stringer is consulted only for pointers, whose
// Go-syntax form is just an address.
func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		if reflect.ValueOf(x).Kind() == reflect.Pointer {
			return fmt.Sprintf("%v", x)
		}
	}
	return fmt.Sprintf("%#v", v)
}
