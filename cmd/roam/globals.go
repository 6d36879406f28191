// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/rerrors"
	"github.com/kraklabs/roam/internal/store"
)

// GlobalFlags are the flags accepted before the subcommand name.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
}

// projectRoot resolves the effective project root for a command. By
// default that's cwd. --config points at an explicit project.yaml
// elsewhere; since that file always lives at <root>/.roam/project.yaml,
// its grandparent directory is the project root.
func projectRoot(cwd, configPath string) string {
	if configPath == "" {
		return cwd
	}
	return filepath.Dir(filepath.Dir(configPath))
}

// fatal prints err (respecting jsonOutput) and exits with its UserError
// exit code, or ExitInternal for an unadorned error. Never returns.
func fatal(err error, jsonOutput bool) {
	rerrors.FatalError(err, jsonOutput)
}

// resolveSymbolsByName maps user-supplied symbol names to IDs. No store
// helper indexes symbols by name, so the CLI loads every symbol once and
// filters in memory; fine at the scale a single `roam query` invocation
// operates at.
func resolveSymbolsByName(ctx context.Context, st *store.Store, names []string) ([]int64, error) {
	all, err := store.AllSymbols(ctx, st.Read())
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var ids []int64
	for _, sym := range all {
		if want[sym.Name] || want[sym.QualifiedName] {
			ids = append(ids, sym.ID)
		}
	}
	return ids, nil
}

// resolveFilesByPath maps repo-relative paths to file IDs.
func resolveFilesByPath(ctx context.Context, st *store.Store, paths []string) ([]int64, error) {
	var ids []int64
	for _, p := range paths {
		id, err := store.FileIDByPath(ctx, st.Read(), p)
		if err != nil {
			continue
		}
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func symbolLabel(sym model.Symbol) string {
	if sym.QualifiedName != "" {
		return sym.QualifiedName
	}
	return sym.Name
}
