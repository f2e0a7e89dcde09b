// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/memocall/internal/meta"
)

const bashCompletionScript = `# bash completion for memocall
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_memocall()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "demo fetch completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --output -o --short --titles -t --tldr"
    local cache="--max-entries -m --policy -p --limit -l --no-report --stats -s --metrics-addr"
    local req="--first-n -n --timeout --user-agent --quiet -q"

    case "$cmd" in
        demo)
            local opts="$common $cache $req --url -u"
            ;;
        fetch)
            local opts="$common $cache $req --repeat -r"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --policy|-p)
            COMPREPLY=( $(compgen -W "fifo lfu lru" -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _memocall memocall
`

const zshCompletionScript = `#compdef memocall

_memocall() {
  local -a cmds
  cmds=(
    'demo:fetch one URL four times and report memory per call'
    'fetch:fetch URLs through a bounded memo cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--short[file names without directories]'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  '(-m --max-entries)'{-m,--max-entries}'[maximum memoized results]:n'
  '(-p --policy)'{-p,--policy}'[eviction policy]:policy:(fifo lfu lru)'
  '(-l --limit)'{-l,--limit}'[allocation sites per report]:n'
  '--no-report[skip memory measurement]'
  '(-s --stats)'{-s,--stats}'[print cache statistics]'
  '--metrics-addr[serve Prometheus metrics]:addr'
  '(-n --first-n)'{-n,--first-n}'[body bytes to keep]:n'
  '--timeout[per-request timeout]:duration'
  '--user-agent[User-Agent header]:agent'
  '(-q --quiet)'{-q,--quiet}'[do not print content]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'memocall commands' cmds
    return
  fi

  case $words[2] in
    demo)
      _arguments -C \
        $common \
        '(-u --url)'{-u,--url}'[URL to fetch]:url:_urls'
      ;;
    fetch)
      _arguments -C \
        $common \
        '(-r --repeat)'{-r,--repeat}'[passes over the URL list]:n' \
        '*:url:_urls'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _memocall memocall
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Stdout(GetMeta(cmd))

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: memocall completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "memocall completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
