// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/memocall/internal/config"
	"github.com/staranto/memocall/internal/meta"
)

const (
	demoURL        = "https://google.com"
	demoMaxEntries = 10
)

// demoFirstN is the first_n of each demo call. The second and fourth calls
// repeat the first and are served from the cache.
var demoFirstN = []int{50, 50, 200, 50}

// DemoCommandAction is the action handler for the "demo" subcommand. It
// replays a fixed four-call sequence against one URL.
func DemoCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "demo") {
		return nil
	}

	config.Config.Namespace = "demo"

	url := cmd.String("url")
	reqs := make([]request, 0, len(demoFirstN))
	for _, n := range demoFirstN {
		reqs = append(reqs, request{URL: url, FirstN: n})
	}

	return runSequence(ctx, cmd, m, "demo", reqs)
}

// DemoCommandBuilder constructs the cli.Command for "demo".
func DemoCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "URL fetched by the demo",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("demo.url", altsrc.StringSourcer(cfg.Source)),
			),
			Value: demoURL,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, URLValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not print fetched content",
			Value:   false,
		},
	}
	flags = append(flags, NewCacheFlags("demo", demoMaxEntries)...)
	flags = append(flags, NewFetchFlags("demo")...)
	flags = append(flags, NewGlobalFlags("demo", meta)...)

	return &cli.Command{
		Name:      "demo",
		Usage:     "fetch one URL four times and report memory per call",
		UsageText: `memocall demo [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: DemoCommandAction,
	}
}
