// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const postCommitHookContent = `#!/bin/sh
# roam auto-index hook - runs a full roam index after this commit
# Installed by: roam hook install
# Remove with: roam hook remove

roam index 2>/dev/null &
`

const hookMarker = "# roam auto-index hook"

// runHook dispatches the 'hook' command: install or remove the git
// post-commit hook that reindexes after each commit.
func runHook(args []string) {
	fs := flag.NewFlagSet("hook", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing non-roam hook")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: roam hook <install|remove> [options]

Manages the git post-commit hook that reindexes the repository after
each commit.

Options:
`)
		fs.PrintDefaults()
	}

	if len(args) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]
	if err := fs.Parse(rest); err != nil {
		os.Exit(1)
	}

	gitDir, err := findGitDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	hookPath := filepath.Join(gitDir, "hooks", "post-commit")

	switch sub {
	case "install":
		if err := installHook(hookPath, *force); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Git hook installed: %s\n", hookPath)
	case "remove":
		if err := removeHook(hookPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Git hook removed.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown hook subcommand: %s\n", sub)
		fs.Usage()
		os.Exit(1)
	}
}

// findGitDir walks up from the current directory looking for .git,
// following the "gitdir: <path>" indirection used by worktrees.
func findGitDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			content, err := os.ReadFile(gitPath)
			if err != nil {
				return "", fmt.Errorf("cannot read .git file: %w", err)
			}
			var gitdir string
			if _, err := fmt.Sscanf(string(content), "gitdir: %s", &gitdir); err == nil {
				if filepath.IsAbs(gitdir) {
					return gitdir, nil
				}
				return filepath.Join(dir, gitdir), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not a git repository (or any of the parent directories)")
}

func installHook(hookPath string, force bool) error {
	hookDir := filepath.Dir(hookPath)
	if err := os.MkdirAll(hookDir, 0o755); err != nil {
		return fmt.Errorf("cannot create hooks directory: %w", err)
	}

	if _, err := os.Stat(hookPath); err == nil {
		if !force {
			content, err := os.ReadFile(hookPath)
			if err == nil && strings.Contains(string(content), hookMarker) {
				fmt.Println("roam hook already installed. Use --force to reinstall.")
				return nil
			}
			return fmt.Errorf("hook already exists at %s\nUse --force to overwrite", hookPath)
		}
	}

	if err := os.WriteFile(hookPath, []byte(postCommitHookContent), 0o755); err != nil {
		return fmt.Errorf("cannot write hook: %w", err)
	}
	return nil
}

func removeHook(hookPath string) error {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no hook found at %s", hookPath)
		}
		return fmt.Errorf("cannot read hook: %w", err)
	}

	if !strings.Contains(string(content), hookMarker) {
		return fmt.Errorf("hook at %s was not installed by roam\nManually remove it if needed", hookPath)
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("cannot remove hook: %w", err)
	}
	return nil
}
