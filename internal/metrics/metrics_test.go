// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import "testing"

func TestCompute_NestedBranchIncreasesCognitiveMoreThanFlat(t *testing.T) {
	flat := FunctionBody{
		Root: &Node{Children: []*Node{
			{Class: ClassBranching}, {Class: ClassBranching},
		}},
		LineCount: 10,
	}
	nested := FunctionBody{
		Root: &Node{Children: []*Node{
			{Class: ClassBranching, Children: []*Node{{Class: ClassBranching}}},
		}},
		LineCount: 10,
	}

	flatMetrics := Compute(flat)
	nestedMetrics := Compute(nested)

	if nestedMetrics.CognitiveComplexity <= flatMetrics.CognitiveComplexity {
		t.Fatalf("expected nested branching to score higher cognitive complexity: flat=%d nested=%d",
			flatMetrics.CognitiveComplexity, nestedMetrics.CognitiveComplexity)
	}
}

func TestCompute_HalsteadBugsIsVolumeOver3000(t *testing.T) {
	body := FunctionBody{
		Root: &Node{},
		Tokens: []HalsteadToken{
			{Token: "+", Operator: true},
			{Token: "=", Operator: true},
			{Token: "x", Operator: false},
			{Token: "y", Operator: false},
		},
		LineCount: 1,
	}
	m := Compute(body)
	if m.HalsteadBugs != m.HalsteadVolume/3000 {
		t.Fatalf("expected bugs = volume/3000, got bugs=%f volume=%f", m.HalsteadBugs, m.HalsteadVolume)
	}
}
