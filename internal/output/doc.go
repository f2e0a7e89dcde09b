// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders memory reports, cache statistics and fetched
// content for the terminal or as json, yaml or raw lines.
package output
