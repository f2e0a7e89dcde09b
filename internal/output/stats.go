// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/staranto/memocall/internal/memo"
)

// CacheSummary is the rendered form of a cache's counters.
type CacheSummary struct {
	Name       string     `json:"name" yaml:"name"`
	Policy     string     `json:"policy" yaml:"policy"`
	MaxEntries int        `json:"max_entries" yaml:"max_entries"`
	Stats      memo.Stats `json:"stats" yaml:"stats"`
	HitRate    float64    `json:"hit_rate" yaml:"hit_rate"`
}

// Summarize captures the current counters of c.
func Summarize[V any](c *memo.Cache[V]) CacheSummary {
	s := c.Stats()
	return CacheSummary{
		Name:       c.Name(),
		Policy:     c.Policy().String(),
		MaxEntries: c.MaxEntries(),
		Stats:      s,
		HitRate:    s.HitRate(),
	}
}

// StatsWriter renders a CacheSummary in the requested format.
func StatsWriter(w io.Writer, cs CacheSummary, opts Options) error {
	switch opts.Format {
	case "json":
		out, err := json.Marshal(cs)
		if err != nil {
			return fmt.Errorf("failed to marshal cache stats: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(cs)
		if err != nil {
			return fmt.Errorf("failed to marshal cache stats: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	keyStyle := lipgloss.NewStyle()
	if opts.Color {
		title, _, _ := getColors("colors")
		keyStyle = keyStyle.Foreground(lipgloss.Color(title))
	}

	rows := [][]string{
		{"cache", cs.Name},
		{"policy", cs.Policy},
		{"max entries", fmt.Sprint(cs.MaxEntries)},
		{"entries", fmt.Sprint(cs.Stats.Entries)},
		{"hits", fmt.Sprint(cs.Stats.Hits)},
		{"misses", fmt.Sprint(cs.Stats.Misses)},
		{"coalesced", fmt.Sprint(cs.Stats.Coalesced)},
		{"failures", fmt.Sprint(cs.Stats.Failures)},
		{"evictions", fmt.Sprint(cs.Stats.Evictions)},
		{"hit rate", fmt.Sprintf("%.1f%%", cs.HitRate*100)},
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return lipgloss.NewStyle().PaddingLeft(1)
		}).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t)
	return err
}
