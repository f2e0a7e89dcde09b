// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// DefaultLimit is the number of allocation sites kept in a Report.
const DefaultLimit = 10

// Location is a source position that allocated memory.
type Location struct {
	File     string `json:"file" yaml:"file"`
	Line     int    `json:"line" yaml:"line"`
	Function string `json:"function,omitempty" yaml:"function,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Short is String with the directory stripped.
func (l Location) Short() string {
	return fmt.Sprintf("%s:%d", filepath.Base(l.File), l.Line)
}

// Stat is the memory attributed to one Location during a session.
type Stat struct {
	Location `yaml:",inline"`
	Bytes    int64 `json:"bytes" yaml:"bytes"`
	Allocs   int64 `json:"allocs" yaml:"allocs"`
}

// Report is the outcome of one measured call.
type Report struct {
	SessionID string        `json:"session_id" yaml:"session_id"`
	Label     string        `json:"label,omitempty" yaml:"label,omitempty"`
	Started   time.Time     `json:"started" yaml:"started"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	Total     int64         `json:"total_bytes" yaml:"total_bytes"`
	Sites     int           `json:"sites" yaml:"sites"`
	Limit     int           `json:"limit" yaml:"limit"`
	Stats     []Stat        `json:"stats" yaml:"stats"`
}

// Rank orders stats by Bytes, largest first, and keeps at most limit of
// them. Equal sizes are ordered by file and then line so output is stable. A
// non-positive limit keeps everything.
func Rank(stats []Stat, limit int) []Stat {
	ranked := make([]Stat, len(stats))
	copy(ranked, stats)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Bytes != ranked[j].Bytes {
			return ranked[i].Bytes > ranked[j].Bytes
		}
		if ranked[i].File != ranked[j].File {
			return ranked[i].File < ranked[j].File
		}
		return ranked[i].Line < ranked[j].Line
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Reporter receives the Report of every successful measured call.
type Reporter interface {
	Report(Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Report) error

func (f ReporterFunc) Report(r Report) error {
	return f(r)
}
