// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/memocall/internal/fetch"
	"github.com/staranto/memocall/internal/memo"
	"github.com/staranto/memocall/internal/meta"
	"github.com/staranto/memocall/internal/output"
	"github.com/staranto/memocall/internal/profile"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr memocall <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "memocall", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Stdout is where command output goes.
func Stdout(m meta.Meta) io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// OutputOptions collects the rendering flags.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format: cmd.String("output"),
		Color:  cmd.Bool("color"),
		Titles: cmd.Bool("titles"),
		Short:  cmd.Bool("short"),
	}
}

// Pipeline is the measured, memoized fetch path: every call goes through the
// profiler, which wraps the cache, which wraps the fetcher.
type Pipeline struct {
	Cache    *memo.Cache[[]byte]
	Reporter profile.Reporter

	limit    int
	measured bool
}

// NewPipeline builds a Pipeline from the cache, report and fetch flags.
func NewPipeline(cmd *cli.Command, w io.Writer, name string, metrics *memo.Metrics) (*Pipeline, error) {
	policy, err := memo.ParsePolicy(cmd.String("policy"))
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(
		fetch.WithTimeout(cmd.Duration("timeout")),
		fetch.WithUserAgent(cmd.String("user-agent")),
	)

	cache, err := memo.New(fetcher.Producer(),
		memo.WithName(name),
		memo.WithMaxEntries(cmd.Int("max-entries")),
		memo.WithPolicy(policy),
		memo.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &Pipeline{
		Cache:    cache,
		Reporter: output.NewReportWriter(w, OutputOptions(cmd)),
		limit:    cmd.Int("limit"),
		measured: !cmd.Bool("no-report"),
	}, nil
}

// Fetch runs one memoized fetch, measured unless --no-report was given.
func (p *Pipeline) Fetch(ctx context.Context, url string, firstN int) ([]byte, error) {
	args := fetch.Args(url, firstN)
	if !p.measured {
		return p.Cache.Call(ctx, args)
	}

	call, err := profile.New(profile.Target[memo.Args, []byte](p.Cache.Call), p.Reporter,
		profile.WithLimit(p.limit),
		profile.WithLabel(fmt.Sprintf("%s first_n=%d", url, firstN)),
	)
	if err != nil {
		return nil, err
	}

	log.Debugf("measured fetch of %s", url)
	return call.Invoke(ctx, args)
}
