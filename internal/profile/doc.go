// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package profile measures the memory allocated while a single call runs and
// reports the largest allocation sites.
//
// A Session opens a measurement window on the runtime heap profile. Only one
// window can be open per process; Start waits for the current one to close.
// Call wraps a target function in a Session and hands a ranked Report to a
// Reporter when the target succeeds.
//
// The target runs with a context that carries its Session. A Call invoked
// with that context runs unmeasured rather than waiting on the window, since
// the enclosing Session already counts what it allocates.
//
// Allocations are charged to the innermost frame outside the Go
// distribution, so a map grown by user code is reported at the user's line
// and not inside the runtime.
package profile
