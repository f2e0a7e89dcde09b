// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/memocall/internal/config"
	"github.com/staranto/memocall/internal/fetch"
	"github.com/staranto/memocall/internal/memo"
	"github.com/staranto/memocall/internal/meta"
	"github.com/staranto/memocall/internal/profile"
)

func init() {
	cfg, _ = config.Load("")
}

var (
	cfg config.Type

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewGlobalFlags returns the rendering flags shared by every command. ns is
// the command name, used as the config namespace.
func NewGlobalFlags(ns string, m meta.Meta) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: m.IsTTY,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "report output format",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MEMOCALL_OUTPUT"),
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, OutputValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "short",
			Usage:   "show file names without directories in reports",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"short", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("short", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show column titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		tldrFlag,
	}

	return
}

// NewCacheFlags returns the flags that shape the memo cache and the memory
// report. defaultMax is the cache capacity when nothing else sets it.
func NewCacheFlags(ns string, defaultMax int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "max-entries",
			Aliases: []string{"m"},
			Usage:   "maximum number of memoized results",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MEMOCALL_MAX_ENTRIES"),
				yaml.YAML(ns+"."+"max_entries", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("cache.max_entries", altsrc.StringSourcer(cfg.Source)),
			),
			Value: defaultMax,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
		&cli.StringFlag{
			Name:    "policy",
			Aliases: []string{"p"},
			Usage:   "eviction policy (fifo, lfu or lru)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MEMOCALL_POLICY"),
				yaml.YAML(ns+"."+"policy", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("cache.policy", altsrc.StringSourcer(cfg.Source)),
			),
			Value: memo.PolicyFIFO.String(),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, PolicyValidator)
			},
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "number of allocation sites in each memory report",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"limit", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("report.limit", altsrc.StringSourcer(cfg.Source)),
			),
			Value: profile.DefaultLimit,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "no-report",
			Usage: "skip memory measurement",
			Value: false,
		},
		&cli.BoolFlag{
			Name:    "stats",
			Aliases: []string{"s"},
			Usage:   "print cache statistics when done",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"stats", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve Prometheus metrics on this address while running",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MEMOCALL_METRICS_ADDR"),
				yaml.YAML("metrics.addr", altsrc.StringSourcer(cfg.Source)),
			),
		},
	}
}

// NewFetchFlags returns the flags that shape each HTTP request.
func NewFetchFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "first-n",
			Aliases: []string{"n"},
			Usage:   "number of body bytes to keep, 0 for all",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"first_n", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("fetch.first_n", altsrc.StringSourcer(cfg.Source)),
			),
			Value: fetch.DefaultFirstN,
			Validator: func(value int) error {
				return FlagValidators(value, NonNegativeIntValidator)
			},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout, 0 for none",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MEMOCALL_TIMEOUT"),
				yaml.YAML("fetch.timeout", altsrc.StringSourcer(cfg.Source)),
			),
			Value: 30 * time.Second,
		},
		&cli.StringFlag{
			Name:  "user-agent",
			Usage: "User-Agent header sent with each request",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("fetch.user_agent", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "memocall",
		},
	}
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
