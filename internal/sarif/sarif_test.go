// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package sarif

import (
	"encoding/json"
	"testing"
)

func TestNewLog_CarriesFixedRuleCatalog(t *testing.T) {
	log := NewLog("0.1.0")
	if len(log.Runs) != 1 {
		t.Fatalf("expected one run, got %d", len(log.Runs))
	}
	if len(log.Runs[0].Tool.Driver.Rules) != len(ruleCatalog) {
		t.Fatalf("expected %d rules, got %d", len(ruleCatalog), len(log.Runs[0].Tool.Driver.Rules))
	}
}

func TestAddDeadCode_AppendsResultWithStableRuleID(t *testing.T) {
	log := NewLog("0.1.0")
	log.AddDeadCode("unusedHelper", "pkg/helper.go", 42)

	results := log.Runs[0].Results
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].RuleID != RuleDeadCode {
		t.Fatalf("expected rule id %s, got %s", RuleDeadCode, results[0].RuleID)
	}
	if results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI != "pkg/helper.go" {
		t.Fatalf("unexpected artifact location: %+v", results[0].Locations[0])
	}
}

func TestAddCognitiveComplexity_PicksCriticalRuleAboveThreshold(t *testing.T) {
	log := NewLog("0.1.0")
	log.AddCognitiveComplexity("tangled", "pkg/tangled.go", 10, 30)

	if got := log.Runs[0].Results[0].RuleID; got != RuleCognitiveCritical {
		t.Fatalf("expected critical rule for score 30, got %s", got)
	}

	log2 := NewLog("0.1.0")
	log2.AddCognitiveComplexity("mild", "pkg/mild.go", 5, 18)
	if got := log2.Runs[0].Results[0].RuleID; got != RuleCognitiveWarning {
		t.Fatalf("expected warning rule for score 18, got %s", got)
	}
}

func TestLog_MarshalsAsValidJSON(t *testing.T) {
	log := NewLog("0.1.0")
	log.AddGodComponent("BigStruct", "pkg/big.go", 40)

	data, err := json.Marshal(log)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTripped map[string]any
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if roundTripped["version"] != version {
		t.Fatalf("expected version %s, got %v", version, roundTripped["version"])
	}
}
