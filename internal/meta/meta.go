// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"
	"io"

	"github.com/staranto/memocall/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
	// Stdout receives command output. Nil means os.Stdout.
	Stdout io.Writer
	// IsTTY records whether stdout is a terminal, which decides the color
	// default.
	IsTTY bool
}
