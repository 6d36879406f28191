// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/kraklabs/roam/internal/config"
)

func TestInitProject_CreatesConfigAndStore(t *testing.T) {
	cwd := t.TempDir()
	cfg := config.DefaultConfig("demo")

	st, info, err := InitProject(cwd, cfg, nil)
	if err != nil {
		t.Fatalf("init project: %v", err)
	}
	defer st.Close()

	if info.ProjectID != "demo" {
		t.Fatalf("expected project id demo, got %q", info.ProjectID)
	}
	if !config.Exists(cwd) {
		t.Fatal("expected project.yaml to exist after InitProject")
	}
}

func TestOpenProject_FindsConfigAndStoreWrittenByInit(t *testing.T) {
	cwd := t.TempDir()
	cfg := config.DefaultConfig("demo")

	st, _, err := InitProject(cwd, cfg, nil)
	if err != nil {
		t.Fatalf("init project: %v", err)
	}
	st.Close()

	reopened, loaded, err := OpenProject(cwd, nil)
	if err != nil {
		t.Fatalf("open project: %v", err)
	}
	defer reopened.Close()

	if loaded.ProjectID != "demo" {
		t.Fatalf("expected project id demo, got %q", loaded.ProjectID)
	}
}

func TestOpenProject_MissingConfigIsAnError(t *testing.T) {
	cwd := t.TempDir()
	if _, _, err := OpenProject(cwd, nil); err == nil {
		t.Fatal("expected an error opening a project with no project.yaml")
	}
}

func TestListProjects_FindsEveryInitializedSubdirectory(t *testing.T) {
	root := t.TempDir()

	for _, id := range []string{"alpha", "beta"} {
		projectDir := filepath.Join(root, id)
		cfg := config.DefaultConfig(id)
		st, _, err := InitProject(projectDir, cfg, nil)
		if err != nil {
			t.Fatalf("init project %s: %v", id, err)
		}
		st.Close()
	}

	projects, err := ListProjects(root)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %v", projects)
	}
}

func TestListProjects_MissingRootYieldsEmptyNotError(t *testing.T) {
	projects, err := ListProjects(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("expected no error for a missing data root, got %v", err)
	}
	if projects != nil {
		t.Fatalf("expected nil projects, got %v", projects)
	}
}
