// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/roam/internal/rerrors"
)

// bashCompletionTemplate is the bash completion script for roam.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for roam
# Installation:
#   source <(roam completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(roam completion bash)' >> ~/.bashrc

_roam_completion() {
    local cur prev commands
    commands="init index status query fitness health sarif reset hook completion"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--version --json --no-color --config" -- ${cur}) )
        return 0
    fi

    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        index)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--debug --metrics-addr --git-log-limit" -- ${cur}) )
            fi
            ;;
        query)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "dead-code blast-radius affected-tests coupling pr-risk breaking-changes coverage-gaps fan grep context" -- ${cur}) )
            fi
            ;;
        fitness)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "gate record trend" -- ${cur}) )
            fi
            ;;
        reset)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--yes" -- ${cur}) )
            fi
            ;;
        hook)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "install remove" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _roam_completion roam
`

// zshCompletionTemplate is the zsh completion script for roam.
const zshCompletionTemplate = `#compdef roam

# Zsh completion script for roam
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      roam completion zsh > "${fpath[1]}/_roam"
#   3. Reload completions:
#      rm -f ~/.zcompdump; compinit

_roam() {
    local -a commands
    commands=(
        'init:Create .roam/project.yaml configuration'
        'index:Index the current repository'
        'status:Show project status'
        'query:Run an analytical query'
        'fitness:Evaluate the fitness gate'
        'health:Show the composite health report'
        'sarif:Export findings as SARIF 2.1.0'
        'reset:Reset local project data'
        'hook:Manage the git post-commit hook'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--json[Output as JSON where supported]' \
        '--no-color[Disable colored output]' \
        '--config[Path to .roam/project.yaml]:config file:_files -g "*.yaml"' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                index)
                    _arguments \
                        '--debug[Enable debug logging]' \
                        '--metrics-addr[Prometheus metrics address]:address:' \
                        '--git-log-limit[Git log entries to sync]:limit:'
                    ;;
                query)
                    _arguments \
                        '1:subcommand:(dead-code blast-radius affected-tests coupling pr-risk breaking-changes coverage-gaps fan grep context)'
                    ;;
                fitness)
                    _arguments \
                        '1:subcommand:(gate record trend)'
                    ;;
                reset)
                    _arguments \
                        '--yes[Confirm the reset]'
                    ;;
                hook)
                    _arguments \
                        '1:subcommand:(install remove)'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_roam
`

// fishCompletionTemplate is the fish completion script for roam.
const fishCompletionTemplate = `# Fish completion script for roam
# Installation:
#   1. Load completions for current session:
#      roam completion fish | source
#   2. Install permanently:
#      roam completion fish > ~/.config/fish/completions/roam.fish

complete -c roam -f -n "__fish_use_subcommand" -a "init" -d "Create .roam/project.yaml configuration"
complete -c roam -f -n "__fish_use_subcommand" -a "index" -d "Index the current repository"
complete -c roam -f -n "__fish_use_subcommand" -a "status" -d "Show project status"
complete -c roam -f -n "__fish_use_subcommand" -a "query" -d "Run an analytical query"
complete -c roam -f -n "__fish_use_subcommand" -a "fitness" -d "Evaluate the fitness gate"
complete -c roam -f -n "__fish_use_subcommand" -a "health" -d "Show the composite health report"
complete -c roam -f -n "__fish_use_subcommand" -a "sarif" -d "Export findings as SARIF 2.1.0"
complete -c roam -f -n "__fish_use_subcommand" -a "reset" -d "Reset local project data (destructive!)"
complete -c roam -f -n "__fish_use_subcommand" -a "hook" -d "Manage the git post-commit hook"
complete -c roam -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

complete -c roam -l version -d "Show version and exit"
complete -c roam -l json -d "Output as JSON where supported"
complete -c roam -l no-color -d "Disable colored output"
complete -c roam -l config -d "Path to .roam/project.yaml" -r

complete -c roam -n "__fish_seen_subcommand_from index" -l debug -d "Enable debug logging"
complete -c roam -n "__fish_seen_subcommand_from index" -l metrics-addr -d "Prometheus metrics address" -r
complete -c roam -n "__fish_seen_subcommand_from index" -l git-log-limit -d "Git log entries to sync" -r

complete -c roam -n "__fish_seen_subcommand_from query" -f -a "dead-code blast-radius affected-tests coupling pr-risk breaking-changes coverage-gaps fan grep context"

complete -c roam -n "__fish_seen_subcommand_from fitness" -f -a "gate record trend"

complete -c roam -n "__fish_seen_subcommand_from reset" -l yes -d "Confirm the reset"

complete -c roam -n "__fish_seen_subcommand_from hook" -f -a "install remove"

complete -c roam -n "__fish_seen_subcommand_from completion" -f -a "bash" -d "Generate bash completion script"
complete -c roam -n "__fish_seen_subcommand_from completion" -f -a "zsh" -d "Generate zsh completion script"
complete -c roam -n "__fish_seen_subcommand_from completion" -f -a "fish" -d "Generate fish completion script"
`

// runCompletion executes the 'completion' command, printing a shell
// completion script for bash, zsh, or fish to stdout.
func runCompletion(args []string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: roam completion <bash|zsh|fish>

Generates a shell completion script. Load it directly:

  source <(roam completion bash)
  roam completion fish | source

Or install it permanently in your shell's completion directory.
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		rerrors.FatalError(rerrors.NewInputError(
			"Invalid arguments",
			"The completion command requires exactly one argument: the shell name",
			"Run 'roam completion bash', 'roam completion zsh', or 'roam completion fish'",
		), false)
	}

	switch fs.Arg(0) {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		rerrors.FatalError(rerrors.NewInputError(
			"Unsupported shell",
			fmt.Sprintf("Shell '%s' is not supported. Valid options: bash, zsh, fish", fs.Arg(0)),
			"Run 'roam completion bash', 'roam completion zsh', or 'roam completion fish'",
		), false)
	}
}
