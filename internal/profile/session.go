// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
)

var (
	ErrSessionClosed = errors.New("measurement session is closed")
	ErrNestedSession = errors.New("measurement session already open in this context")
)

type sessionKey struct{}

// window is held by the open Session. The heap profile and its sampling rate
// are process-wide, so two sessions would see each other's allocations.
var window = make(chan struct{}, 1)

type counts struct {
	bytes  int64
	allocs int64
}

// Session is an open measurement window.
type Session struct {
	ID      string
	Started time.Time

	mu       sync.Mutex
	closed   bool
	prevRate int
	baseline map[[32]uintptr]counts
}

// Start opens a measurement window, waiting for any open Session to close
// first. If ctx already carries an open Session it fails with
// ErrNestedSession instead of waiting on a window its own caller holds.
func Start(ctx context.Context) (*Session, error) {
	if open, ok := FromContext(ctx); ok && !open.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrNestedSession, open.ID)
	}

	select {
	case window <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s := &Session{
		ID:       uuid.New().String(),
		prevRate: runtime.MemProfileRate,
	}
	log.WithField("session", s.ID).Debug("measurement starting")

	// Record every allocation from here on, and flush what was allocated
	// before so it lands in the baseline.
	runtime.MemProfileRate = 1
	runtime.GC()
	s.baseline = make(map[[32]uintptr]counts)
	for _, r := range readProfile() {
		s.baseline[r.Stack0] = counts{bytes: r.AllocBytes, allocs: r.AllocObjects}
	}
	s.Started = time.Now()

	return s, nil
}

// FromContext returns the Session bound to ctx by a measured Call.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// bind returns a child of ctx that carries s.
func (s *Session) bind(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Snapshot returns the memory allocated since Start, grouped by the first
// non-runtime frame of each allocating stack and ranked largest first. It
// may be called more than once while the session is open.
func (s *Session) Snapshot() ([]Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	// A completed cycle publishes the allocations made since the last one.
	runtime.GC()

	bySite := map[Location]*Stat{}
	for _, r := range readProfile() {
		prev := s.baseline[r.Stack0]
		db, da := r.AllocBytes-prev.bytes, r.AllocObjects-prev.allocs
		if db <= 0 {
			continue
		}

		loc, ok := attribute(r.Stack())
		if !ok {
			continue
		}

		st, ok := bySite[loc]
		if !ok {
			st = &Stat{Location: loc}
			bySite[loc] = st
		}
		st.Bytes += db
		st.Allocs += da
	}

	stats := make([]Stat, 0, len(bySite))
	for _, st := range bySite {
		stats = append(stats, *st)
	}
	return Rank(stats, 0), nil
}

// Report builds a Report from a Snapshot, keeping at most limit sites.
func (s *Session) Report(limit int) (Report, error) {
	stats, err := s.Snapshot()
	if err != nil {
		return Report{}, err
	}

	var total int64
	for _, st := range stats {
		total += st.Bytes
	}

	return Report{
		SessionID: s.ID,
		Started:   s.Started,
		Elapsed:   time.Since(s.Started),
		Total:     total,
		Sites:     len(stats),
		Limit:     limit,
		Stats:     Rank(stats, limit),
	}, nil
}

// Close ends the window and restores the previous sampling rate. Calling it
// again is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	runtime.MemProfileRate = s.prevRate
	<-window

	log.WithFields(log.Fields{
		"session": s.ID,
		"elapsed": time.Since(s.Started),
	}).Debug("measurement closed")
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func readProfile() []runtime.MemProfileRecord {
	n, _ := runtime.MemProfile(nil, true)
	for {
		records := make([]runtime.MemProfileRecord, n+64)
		got, ok := runtime.MemProfile(records, true)
		if ok {
			return records[:got]
		}
		n = got
	}
}

// selfPrefix is the function-name prefix of this package.
var selfPrefix = func() string {
	name := runtime.FuncForPC(reflect.ValueOf(readProfile).Pointer()).Name()
	return name[:strings.LastIndex(name, ".")+1]
}()

// bookkeeping are the functions of this package whose allocations belong to
// the measurement itself.
var bookkeeping = []string{
	selfPrefix + "Start",
	selfPrefix + "(*Session).",
	selfPrefix + "readProfile",
}

// goSrc is the standard library source root, empty when unknown.
var goSrc = func() string {
	root := runtime.GOROOT()
	if root == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Join(root, "src")) + "/"
}()

// attribute finds the innermost frame of stack outside the Go distribution.
// Stacks that pass through the session's own bookkeeping are not attributed.
func attribute(stack []uintptr) (Location, bool) {
	var (
		loc   Location
		found bool
	)

	frames := runtime.CallersFrames(stack)
	for {
		f, more := frames.Next()
		if isBookkeeping(f.Function) {
			return Location{}, false
		}
		if !found && !isStd(f) {
			loc = Location{File: f.File, Line: f.Line, Function: f.Function}
			found = true
		}
		if !more {
			return loc, found
		}
	}
}

func isBookkeeping(fn string) bool {
	for _, prefix := range bookkeeping {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

// isStd reports whether f belongs to the runtime or the standard library.
// Standard packages are told apart by a first import path element without a
// dot, as the go command does.
func isStd(f runtime.Frame) bool {
	if f.Function == "" {
		return true
	}
	if goSrc != "" && strings.HasPrefix(filepath.ToSlash(f.File), goSrc) {
		return true
	}

	fn := f.Function
	if i := strings.IndexByte(fn, '['); i >= 0 {
		fn = fn[:i]
	}
	slash := strings.LastIndexByte(fn, '/')
	pkg := fn
	if dot := strings.IndexByte(fn[slash+1:], '.'); dot >= 0 {
		pkg = fn[:slash+1+dot]
	}
	if pkg == "main" {
		return false
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}
