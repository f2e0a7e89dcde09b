// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// memocall is the main package for the memocall command line tool. It wires
// the CLI, expands config argument sets, and delegates to internal packages.
package main
