// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/memocall/internal/config"
	"github.com/staranto/memocall/internal/memo"
	"github.com/staranto/memocall/internal/meta"
	"github.com/staranto/memocall/internal/output"
)

// request is one call in a fetch sequence.
type request struct {
	URL    string
	FirstN int
}

// FetchCommandAction is the action handler for the "fetch" subcommand. Each
// URL is fetched through the memo cache, --repeat times over, and every call
// is followed by its memory report.
func FetchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "fetch") {
		return nil
	}

	config.Config.Namespace = "fetch"

	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return errors.New("at least one URL is required")
	}
	for _, u := range urls {
		if err := FlagValidators(u, URLValidator); err != nil {
			return err
		}
	}

	firstN := cmd.Int("first-n")
	var reqs []request
	for r := 0; r < cmd.Int("repeat"); r++ {
		for _, u := range urls {
			reqs = append(reqs, request{URL: u, FirstN: firstN})
		}
	}

	return runSequence(ctx, cmd, m, "fetch", reqs)
}

// FetchCommandBuilder constructs the cli.Command for "fetch", wiring
// metadata, flags, and action/validator handlers.
func FetchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "repeat",
			Aliases: []string{"r"},
			Usage:   "number of passes over the URL list",
			Value:   1,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not print fetched content",
			Value:   false,
		},
	}
	flags = append(flags, NewCacheFlags("fetch", memo.DefaultMaxEntries)...)
	flags = append(flags, NewFetchFlags("fetch")...)
	flags = append(flags, NewGlobalFlags("fetch", meta)...)

	return &cli.Command{
		Name:      "fetch",
		Usage:     "fetch URLs through a bounded memo cache",
		UsageText: `memocall fetch URL... [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: FetchCommandAction,
	}
}

// runSequence sends reqs through one Pipeline, printing each body and, when
// asked, the cache statistics. It stops at the first failed fetch.
func runSequence(ctx context.Context, cmd *cli.Command, m meta.Meta, name string, reqs []request) error {
	metrics, stop, err := startMetrics(cmd.String("metrics-addr"))
	if err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	defer stop()

	w := Stdout(m)
	p, err := NewPipeline(cmd, w, name, metrics)
	if err != nil {
		return err
	}

	for i, req := range reqs {
		body, err := p.Fetch(ctx, req.URL, req.FirstN)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", req.URL, err)
		}
		if cmd.Bool("quiet") {
			continue
		}
		if err := output.Content(w, i+1, body); err != nil {
			return err
		}
	}

	if cmd.Bool("stats") {
		return output.StatsWriter(w, output.Summarize(p.Cache), OutputOptions(cmd))
	}
	return nil
}
