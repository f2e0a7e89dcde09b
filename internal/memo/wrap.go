// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

import (
	"context"
	"fmt"
)

// Wrap1 memoizes a one-argument function. The returned function shares one
// Cache, which is also returned for inspection.
func Wrap1[I1 any, O any](
	fn func(context.Context, I1) (O, error),
	opts ...Option,
) (func(context.Context, I1) (O, error), *Cache[O], error) {
	c, err := New(func(ctx context.Context, args Args) (O, error) {
		i1, err := positionalAs[I1](args, 0)
		if err != nil {
			var zero O
			return zero, err
		}
		return fn(ctx, i1)
	}, opts...)
	if err != nil {
		return nil, nil, err
	}

	return func(ctx context.Context, i1 I1) (O, error) {
		return c.Call(ctx, Positional(i1))
	}, c, nil
}

// Wrap2 memoizes a two-argument function.
func Wrap2[I1, I2 any, O any](
	fn func(context.Context, I1, I2) (O, error),
	opts ...Option,
) (func(context.Context, I1, I2) (O, error), *Cache[O], error) {
	c, err := New(func(ctx context.Context, args Args) (O, error) {
		var zero O
		i1, err := positionalAs[I1](args, 0)
		if err != nil {
			return zero, err
		}
		i2, err := positionalAs[I2](args, 1)
		if err != nil {
			return zero, err
		}
		return fn(ctx, i1, i2)
	}, opts...)
	if err != nil {
		return nil, nil, err
	}

	return func(ctx context.Context, i1 I1, i2 I2) (O, error) {
		return c.Call(ctx, Positional(i1, i2))
	}, c, nil
}

func positionalAs[T any](args Args, i int) (T, error) {
	var zero T
	if i >= len(args.Positional) {
		return zero, fmt.Errorf("missing positional argument %d", i)
	}
	if args.Positional[i] == nil {
		return zero, nil
	}
	v, ok := args.Positional[i].(T)
	if !ok {
		return zero, fmt.Errorf("positional argument %d is %T, want %T", i, args.Positional[i], zero)
	}
	return v, nil
}
