// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package classify assigns a FileRole to a path and answers the
// "utility path" question HealthEngine uses to relax severity thresholds.
// It is consumed by Ingestion (to stamp File.file_role), QueryEngine (dead
// code/affected tests filtering), and HealthEngine (utility-path relaxation).
package classify

import (
	"path"
	"strings"

	"github.com/kraklabs/roam/internal/model"
)

// rolePattern pairs a path-fragment test with the role it implies. Patterns
// are tried in order; the first match wins.
type rolePattern struct {
	role     model.FileRole
	segments []string // path segments or suffixes that indicate this role
	suffix   bool     // true: match on filename suffix; false: match on any path segment
}

var patterns = []rolePattern{
	{role: model.RoleGenerated, segments: []string{".pb.go", ".gen.go", "_generated", ".generated."}, suffix: true},
	{role: model.RoleVendored, segments: []string{"vendor/", "node_modules/", "third_party/"}},
	{role: model.RoleTest, segments: []string{"_test.go", ".test.ts", ".test.js", ".spec.ts", ".spec.js"}, suffix: true},
	{role: model.RoleTest, segments: []string{"test/", "tests/", "__tests__/", "spec/"}},
	{role: model.RoleCI, segments: []string{".github/workflows/", ".gitlab-ci", ".circleci/", "ci/"}},
	{role: model.RoleBuild, segments: []string{"makefile", "dockerfile", ".dockerfile", "build.gradle", "pom.xml"}, suffix: true},
	{role: model.RoleBuild, segments: []string{"build/", "dist/", "target/", "bin/"}},
	{role: model.RoleDocs, segments: []string{".md", ".rst", ".adoc"}, suffix: true},
	{role: model.RoleDocs, segments: []string{"docs/", "doc/"}},
	{role: model.RoleExamples, segments: []string{"examples/", "example/", "samples/"}},
	{role: model.RoleScripts, segments: []string{"scripts/", "tools/", "hack/"}},
	{role: model.RoleData, segments: []string{".json", ".csv", ".parquet"}, suffix: true},
	{role: model.RoleConfig, segments: []string{".yaml", ".yml", ".toml", ".ini", ".cfg", ".env"}, suffix: true},
	{role: model.RoleConfig, segments: []string{"config/", "conf/", "configs/"}},
}

// excludedDeadCodeNames mirrors §4.6.1's filter of conventional entry points
// that are never truly dead despite looking unreferenced.
var excludedDeadCodeNames = map[string]bool{
	"__init__": true, "__main__": true, "main": true, "setup": true, "teardown": true,
}

// utilityPrefixes is the fixed prefix list the glossary's "Utility path"
// term names: infrastructure code whose severity thresholds get relaxed.
var utilityPrefixes = []string{"utils/", "lib/", "helpers/", "shared/", "core/", "common/", "internal/"}

// nonProductionPrefixes are paths that never carry production risk weight.
var nonProductionPrefixes = []string{"tests/", "test/", "scripts/", "examples/", "docs/"}

// Classify assigns a FileRole to a forward-slash normalized path.
func Classify(filePath string) model.FileRole {
	lower := strings.ToLower(filePath)

	for _, p := range patterns {
		for _, seg := range p.segments {
			if p.suffix {
				if strings.HasSuffix(lower, seg) {
					return p.role
				}
			} else if strings.Contains(lower, seg) {
				return p.role
			}
		}
	}
	return model.RoleSource
}

// IsTestFile reports whether path classifies as a test file.
func IsTestFile(filePath string) bool {
	return Classify(filePath) == model.RoleTest
}

// IsUtilityPath reports whether path matches the fixed utility-infrastructure
// prefix list, used by HealthEngine to triple god/bottleneck thresholds.
func IsUtilityPath(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, p := range utilityPrefixes {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsNonProduction reports whether path falls in the fixed non-production
// prefix list (tests, scripts, examples, docs) used alongside utility paths
// to relax bottleneck/god-component severity.
func IsNonProduction(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, p := range nonProductionPrefixes {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsExcludedDeadCodeName reports whether name is a conventional entry point
// exempt from dead-code reporting, or begins with an underscore/test prefix
// (§4.6.1's default filter set).
func IsExcludedDeadCodeName(name string) bool {
	if excludedDeadCodeNames[name] {
		return true
	}
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, "test_") || strings.HasPrefix(name, "Test")
}

// TopLevelDir returns the first path segment, used by directory-mismatch
// and coupling heuristics to compare file locality.
func TopLevelDir(filePath string) string {
	filePath = strings.TrimPrefix(filePath, "/")
	if idx := strings.Index(filePath, "/"); idx >= 0 {
		return filePath[:idx]
	}
	return ""
}

// Dir returns the directory portion of a forward-slash path.
func Dir(filePath string) string {
	return path.Dir(filePath)
}
