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

// Package metrics computes per-symbol complexity metrics (§4.5): cognitive
// complexity, nesting depth, param/line/return/bool-op counts, callback
// depth, cyclomatic density, and the Halstead quartet. The algorithm is
// language-agnostic: extractors hand back a NodeClassifier-shaped tree
// (every node tagged as branching/loop/boolean-op/return/nested-function or
// plain) instead of a concrete AST type.
package metrics

import "github.com/kraklabs/roam/internal/model"

// NodeClass is the classification an extractor assigns to one AST node for
// the purpose of complexity scoring.
type NodeClass int

const (
	ClassPlain NodeClass = iota
	ClassBranching
	ClassLoop
	ClassBooleanOp
	ClassReturn
	ClassNestedFunction
)

// Node is one classified AST node in a function body.
type Node struct {
	Class    NodeClass
	Children []*Node
}

// HalsteadToken is one operator or operand token from a function body,
// supplied by the extractor for the Halstead quartet computation.
type HalsteadToken struct {
	Token    string
	Operator bool
}

// FunctionBody is everything the extractor must supply about one
// function-like symbol's body for complexity scoring.
type FunctionBody struct {
	Root       *Node
	ParamCount int
	LineCount  int
	Tokens     []HalsteadToken
}

// Compute derives the complete SymbolMetrics row for one function body
// (§4.5). The returned value's SymbolID is left zero; callers attach it.
func Compute(body FunctionBody) model.SymbolMetrics {
	w := &walker{}
	if body.Root != nil {
		w.walk(body.Root, 0)
	}

	cyclomatic := 1 + w.branchCount + w.loopCount + w.boolOpCount
	density := 0.0
	if body.LineCount > 0 {
		density = float64(cyclomatic) / float64(body.LineCount)
	}

	h := computeHalstead(body.Tokens)

	return model.SymbolMetrics{
		CognitiveComplexity: w.cognitive,
		NestingDepth:        w.maxNesting,
		ParamCount:          body.ParamCount,
		LineCount:           body.LineCount,
		ReturnCount:         w.returnCount,
		BoolOpCount:         w.boolOpCount,
		CallbackDepth:       w.maxCallbackDepth,
		CyclomaticDensity:   density,
		HalsteadVolume:      h.Volume,
		HalsteadDifficulty:  h.Difficulty,
		HalsteadEffort:      h.Effort,
		HalsteadBugs:        h.Bugs,
	}
}

type walker struct {
	cognitive        int
	maxNesting       int
	returnCount      int
	boolOpCount      int
	branchCount      int
	loopCount        int
	maxCallbackDepth int
}

// walk implements the cognitive-complexity rubric from §4.5: each
// branching/loop/boolean-op node adds 1 plus the current nesting depth;
// recursion into the children of a branching or loop node increases that
// depth by one, while a boolean-op node's children stay at its depth. Nested function
// expressions are tracked separately for callback_depth and do not
// themselves add to cognitive complexity or nesting depth.
func (w *walker) walk(n *Node, depth int) {
	w.walkAt(n, depth, 0)
}

func (w *walker) walkAt(n *Node, depth, callbackDepth int) {
	switch n.Class {
	case ClassBranching:
		w.branchCount++
		w.cognitive += 1 + depth
		if depth+1 > w.maxNesting {
			w.maxNesting = depth + 1
		}
		for _, c := range n.Children {
			w.walkAt(c, depth+1, callbackDepth)
		}
		return
	case ClassLoop:
		w.loopCount++
		w.cognitive += 1 + depth
		if depth+1 > w.maxNesting {
			w.maxNesting = depth + 1
		}
		for _, c := range n.Children {
			w.walkAt(c, depth+1, callbackDepth)
		}
		return
	case ClassBooleanOp:
		w.boolOpCount++
		w.cognitive += 1 + depth
		for _, c := range n.Children {
			w.walkAt(c, depth, callbackDepth)
		}
		return
	case ClassReturn:
		w.returnCount++
	case ClassNestedFunction:
		if callbackDepth+1 > w.maxCallbackDepth {
			w.maxCallbackDepth = callbackDepth + 1
		}
		for _, c := range n.Children {
			w.walkAt(c, depth, callbackDepth+1)
		}
		return
	}
	for _, c := range n.Children {
		w.walkAt(c, depth, callbackDepth)
	}
}
