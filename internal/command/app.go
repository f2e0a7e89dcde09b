// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/memocall/internal/config"
	"github.com/staranto/memocall/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the memocall
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		IsTTY:       term.IsTerminal(int(os.Stdout.Fd())),
	}

	return NewApp(meta), nil
}

// NewApp builds the command tree around an already populated meta.Meta.
func NewApp(meta meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:  "memocall",
		Usage: "memoized, memory-profiled fetching",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "memocall version info",
				HideDefault: true,
			},
		},
	}

	if meta.Stdout != nil {
		app.Writer = meta.Stdout
	}

	app.Commands = append(app.Commands,
		CompletionCommandBuilder(app, meta),
		DemoCommandBuilder(app, meta),
		FetchCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
