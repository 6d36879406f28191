// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import "math"

// halsteadResult is the Halstead quartet for one function body (§4.5).
type halsteadResult struct {
	Volume     float64
	Difficulty float64
	Effort     float64
	Bugs       float64
}

// computeHalstead derives the quartet from the operator/operand multisets:
// n1/n2 distinct operators/operands, N1/N2 total occurrences.
func computeHalstead(tokens []HalsteadToken) halsteadResult {
	distinctOperators := make(map[string]bool)
	distinctOperands := make(map[string]bool)
	var totalOperators, totalOperands int

	for _, t := range tokens {
		if t.Operator {
			distinctOperators[t.Token] = true
			totalOperators++
		} else {
			distinctOperands[t.Token] = true
			totalOperands++
		}
	}

	n1 := float64(len(distinctOperators))
	n2 := float64(len(distinctOperands))
	bigN1 := float64(totalOperators)
	bigN2 := float64(totalOperands)

	vocabulary := n1 + n2
	length := bigN1 + bigN2
	if vocabulary == 0 || length == 0 {
		return halsteadResult{}
	}

	volume := length * math.Log2(vocabulary)
	difficulty := 0.0
	if n2 > 0 {
		difficulty = (n1 / 2) * (bigN2 / n2)
	}
	effort := difficulty * volume
	bugs := volume / 3000

	return halsteadResult{Volume: volume, Difficulty: difficulty, Effort: effort, Bugs: bugs}
}
