// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for memocall. It wires flags,
// validators, actions, and shell completion for the fetch and demo
// subcommands, which run HTTP fetches through a memo cache and report the
// memory each call allocated.
package command
