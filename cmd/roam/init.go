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

	"github.com/kraklabs/roam/internal/bootstrap"
	"github.com/kraklabs/roam/internal/config"
)

// runInit executes the 'init' command: writes .roam/project.yaml and opens
// (creating if absent) the local store.
func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")
	projectID := fs.String("project-id", "", "Project identifier (default: directory name)")
	preset := fs.String("preset", "default", "Default fitness gate preset")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: roam init [options]

Creates .roam/project.yaml and the local SQLite store.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot get current directory: %v\n", err)
		os.Exit(1)
	}

	configPath := config.ConfigPath(cwd)
	if _, err := os.Stat(configPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists. Use --force to overwrite.\n", configPath)
		os.Exit(1)
	}

	pid := *projectID
	if pid == "" {
		pid = filepath.Base(cwd)
	}
	cfg := config.DefaultConfig(pid)
	cfg.FitnessPreset = *preset

	st, info, err := bootstrap.InitProject(cwd, cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	addToGitignore(cwd)

	fmt.Printf("Created %s\n", configPath)
	fmt.Printf("Project: %s\n", info.ProjectID)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review and edit .roam/project.yaml if needed")
	fmt.Println("  2. Run 'roam index' to index your repository")
	fmt.Println("  3. Run 'roam status' to verify indexing")
	fmt.Println("  4. Run 'roam hook install' to enable auto-indexing on each commit")
}

// addToGitignore adds .roam/ to the project's .gitignore if not already
// present. Silently does nothing if .gitignore is absent or unwritable.
func addToGitignore(dir string) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(content), "\n") {
		switch strings.TrimSpace(line) {
		case ".roam/", ".roam", "/.roam/", "/.roam":
			return
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && content[len(content)-1] != '\n' {
		f.WriteString("\n")
	}
	f.WriteString("\n# roam\n.roam/\n")
	fmt.Println("Added .roam/ to .gitignore")
}
