// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"
)

func TestSaveConfig_LoadConfig_RoundTrips(t *testing.T) {
	cwd := t.TempDir()
	cfg := DefaultConfig("demo-project")
	cfg.FitnessPreset = "go"

	path := ConfigPath(cwd)
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if !Exists(cwd) {
		t.Fatal("expected Exists to report true after SaveConfig")
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.ProjectID != "demo-project" {
		t.Fatalf("expected project id demo-project, got %q", loaded.ProjectID)
	}
	if loaded.FitnessPreset != "go" {
		t.Fatalf("expected fitness preset go, got %q", loaded.FitnessPreset)
	}
	if len(loaded.Languages) != 1 || loaded.Languages[0] != "go" {
		t.Fatalf("expected default languages [go], got %v", loaded.Languages)
	}
}

func TestStorePath_ResolvesRelativeDataDirAgainstCwd(t *testing.T) {
	cwd := t.TempDir()
	cfg := DefaultConfig("demo-project")

	got := cfg.StorePath(cwd)
	want := filepath.Join(cwd, ".roam", "roam.db")
	if got != want {
		t.Fatalf("expected store path %q, got %q", want, got)
	}
}

func TestStorePath_AbsoluteDataDirUsedVerbatim(t *testing.T) {
	cwd := t.TempDir()
	cfg := DefaultConfig("demo-project")
	cfg.DataDir = "/var/lib/roam/demo-project"

	got := cfg.StorePath(cwd)
	want := filepath.Join("/var/lib/roam/demo-project", "roam.db")
	if got != want {
		t.Fatalf("expected store path %q, got %q", want, got)
	}
}

func TestConfigDir_ConfigPath_NestUnderProjectRoot(t *testing.T) {
	cwd := "/home/user/project"
	if got, want := ConfigDir(cwd), filepath.Join(cwd, ".roam"); got != want {
		t.Fatalf("expected config dir %q, got %q", want, got)
	}
	if got, want := ConfigPath(cwd), filepath.Join(cwd, ".roam", "project.yaml"); got != want {
		t.Fatalf("expected config path %q, got %q", want, got)
	}
}
