// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package config holds the roam project configuration: the YAML file a
// `roam init` writes to .roam/project.yaml and every subsequent command
// reads to find the project's store and default fitness gate.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// dirName is the project-local directory holding config and, by default,
// the store file.
const dirName = ".roam"

// fileName is the config file within dirName.
const fileName = "project.yaml"

// Config is the persisted .roam/project.yaml project configuration.
type Config struct {
	// ProjectID is the logical project identifier.
	ProjectID string `yaml:"project_id"`

	// DataDir is the directory containing the store file. Defaults to
	// .roam/ under the project root.
	DataDir string `yaml:"data_dir"`

	// FitnessPreset names the default FitnessEngine gate preset (e.g.
	// "default", "go", "strict").
	FitnessPreset string `yaml:"fitness_preset"`

	// Languages lists the source languages indexed for this project.
	// Currently only "go" is extracted; the field is carried so future
	// extractors have somewhere to register.
	Languages []string `yaml:"languages"`

	// HookInstalled records whether `roam hook install` has wired the
	// post-commit hook for this project.
	HookInstalled bool `yaml:"hook_installed"`
}

// DefaultConfig returns the configuration written by `roam init` absent
// any flag overrides.
func DefaultConfig(projectID string) Config {
	return Config{
		ProjectID:     projectID,
		DataDir:       dirName,
		FitnessPreset: "default",
		Languages:     []string{"go"},
	}
}

// ConfigDir returns the .roam directory under the project root cwd.
func ConfigDir(cwd string) string {
	return filepath.Join(cwd, dirName)
}

// ConfigPath returns the project.yaml path under the project root cwd.
func ConfigPath(cwd string) string {
	return filepath.Join(ConfigDir(cwd), fileName)
}

// StorePath returns the path to the SQLite store file for cfg, resolved
// relative to the project root cwd when DataDir is a relative path.
func (c Config) StorePath(cwd string) string {
	dataDir := c.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(cwd, dataDir)
	}
	return filepath.Join(dataDir, "roam.db")
}

// LoadConfig reads and parses the project.yaml at configPath.
func LoadConfig(configPath string) (Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to configPath as YAML, creating the parent
// directory if needed.
func SaveConfig(cfg Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Exists reports whether a project.yaml already exists under cwd.
func Exists(cwd string) bool {
	_, err := os.Stat(ConfigPath(cwd))
	return err == nil
}
