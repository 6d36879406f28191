// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap wires project initialization and lookup: creating the
// on-disk store for a new project, opening an existing one, and listing
// known projects under the default data root.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kraklabs/roam/internal/config"
	"github.com/kraklabs/roam/internal/store"
)

// readers is the number of pooled read-only connections opened for every
// project store.
const readers = 4

// ProjectInfo describes a project after InitProject/OpenProject.
type ProjectInfo struct {
	ProjectID string
	DataDir   string
	StorePath string
}

// InitProject creates the .roam project directory, writes project.yaml,
// and opens (creating if absent) the SQLite store. Idempotent: calling it
// again against an already-initialized project just reopens the store.
func InitProject(cwd string, cfg config.Config, logger *slog.Logger) (*store.Store, *ProjectInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ProjectID == "" {
		return nil, nil, fmt.Errorf("project_id is required")
	}

	logger.Info("bootstrap.project.init.start", "project_id", cfg.ProjectID, "data_dir", cfg.DataDir)

	if err := config.SaveConfig(cfg, config.ConfigPath(cwd)); err != nil {
		return nil, nil, fmt.Errorf("save config: %w", err)
	}

	storePath := cfg.StorePath(cwd)
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	st, err := store.Open(storePath, readers, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	logger.Info("bootstrap.project.init.success", "project_id", cfg.ProjectID, "store_path", storePath)

	return st, &ProjectInfo{ProjectID: cfg.ProjectID, DataDir: cfg.DataDir, StorePath: storePath}, nil
}

// OpenProject opens an already-initialized project's store, reading its
// config from cwd.
func OpenProject(cwd string, logger *slog.Logger) (*store.Store, config.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !config.Exists(cwd) {
		return nil, config.Config{}, fmt.Errorf("project not found: %s (run 'roam init' first)", cwd)
	}
	cfg, err := config.LoadConfig(config.ConfigPath(cwd))
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}

	storePath := cfg.StorePath(cwd)
	if _, err := os.Stat(storePath); os.IsNotExist(err) {
		return nil, config.Config{}, fmt.Errorf("no index found: %s (run 'roam index')", storePath)
	}

	logger.Debug("bootstrap.project.open", "project_id", cfg.ProjectID, "store_path", storePath)

	st, err := store.Open(storePath, readers, logger)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open store: %w", err)
	}
	return st, cfg, nil
}

// ListProjects returns the project IDs of every initialized project found
// in dataRoot's immediate subdirectories (each holding a .roam/project.yaml).
func ListProjects(dataRoot string) ([]string, error) {
	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data root: %w", err)
	}

	var projects []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectDir := filepath.Join(dataRoot, entry.Name())
		if !config.Exists(projectDir) {
			continue
		}
		cfg, err := config.LoadConfig(config.ConfigPath(projectDir))
		if err != nil {
			continue
		}
		projects = append(projects, cfg.ProjectID)
	}
	return projects, nil
}
