// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"

	"github.com/staranto/memocall/internal/config"
	"github.com/staranto/memocall/internal/profile"
)

// Formats accepted by the --output flag.
var Formats = []string{"text", "json", "raw", "yaml"}

// Options controls how reports and stats are rendered.
type Options struct {
	Format string
	Color  bool
	Titles bool
	// Short strips directories from file names.
	Short bool
}

// ReportWriter renders memory reports to W. It satisfies profile.Reporter.
type ReportWriter struct {
	W    io.Writer
	Opts Options

	mu sync.Mutex
}

// NewReportWriter returns a ReportWriter for w, defaulting to stdout.
func NewReportWriter(w io.Writer, opts Options) *ReportWriter {
	if w == nil {
		w = os.Stdout
	}
	return &ReportWriter{W: w, Opts: opts}
}

// Report writes r in the configured format.
func (rw *ReportWriter) Report(r profile.Report) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	log.Debugf("rendering report %s with %d stats as %s", r.SessionID, len(r.Stats), rw.Opts.Format)
	return Spit(rw.W, r, rw.Opts)
}

// Spit renders one report.
func Spit(w io.Writer, r profile.Report, opts Options) error {
	switch opts.Format {
	case "json":
		out, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "raw":
		for _, s := range r.Stats {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%d\n", s.Location, s.Bytes, s.Allocs); err != nil {
				return err
			}
		}
		return nil
	default:
		return TableWriter(w, r, opts)
	}
}

// TableWriter renders the report as a ranked table. The largest site is
// highlighted when color is on.
func TableWriter(w io.Writer, r profile.Report, opts Options) error {
	var (
		titleStyle = lipgloss.NewStyle()
		cellStyle  = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		topStyle   = cellStyle
		restStyle  = cellStyle
	)

	if opts.Color {
		titleColor, topColor, restColor := getColors("colors")

		titleStyle = titleStyle.Foreground(lipgloss.Color(titleColor)).Bold(true)
		topStyle = topStyle.Foreground(lipgloss.Color(topColor))
		restStyle = restStyle.Foreground(lipgloss.Color(restColor))
	}

	top := r.Limit
	if top <= 0 {
		top = len(r.Stats)
	}
	title := fmt.Sprintf("[ Top %d Memory Usage ]", top)
	if r.Label != "" {
		title = fmt.Sprintf("%s %s", title, r.Label)
	}
	if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}

	if len(r.Stats) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(r.Stats))
	for i, s := range r.Stats {
		file := s.File
		if opts.Short {
			file = filepath.Base(file)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d.", i+1),
			"File: " + file + ",",
			"Line: " + strconv.Itoa(s.Line) + ",",
			"Memory: " + FormatBytes(s.Bytes),
		})
	}

	pad, _ := config.GetInt("padding", 1)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = titleStyle
			case row == 0:
				style = topStyle
			default:
				style = restStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		t = t.Headers("#", "File", "Line", "Memory").BorderHeader(false)
	}

	if _, err := fmt.Fprintln(w, t); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Total: %s across %d sites in %s\n",
		FormatBytes(r.Total), r.Sites, r.Elapsed.Round(time.Microsecond))
	return err
}

// FormatBytes renders n with binary units.
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

// getColors returns configured color values for table rendering.
func getColors(key string) (title string, top string, rest string) {
	title, _ = config.GetString(fmt.Sprintf("%s.title", key), "#00c8f0")
	top, _ = config.GetString(fmt.Sprintf("%s.top", key), "#ff5f5f")
	rest, _ = config.GetString(fmt.Sprintf("%s.rest", key), "#ffffff")
	return
}
