// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package goext

import (
	"testing"

	"github.com/kraklabs/roam/internal/metrics"
)

const metricsSample = `package widget

func Plain(name string) string {
	return name
}

func Branchy(a, b int) int {
	if a > 0 && b > 0 {
		for i := 0; i < a; i++ {
			if i == b {
				return i
			}
		}
	}
	return 0
}

func (w *Widget) Method() {
	fn := func() {
		println("nested")
	}
	fn()
}
`

func TestExtractMetrics_KeysByQualifiedName(t *testing.T) {
	e := New()
	bodies, err := e.ExtractMetrics("widget.go", []byte(metricsSample))
	if err != nil {
		t.Fatalf("extract metrics: %v", err)
	}

	for _, name := range []string{"widget.Plain", "widget.Branchy", "widget.Widget.Method"} {
		if _, ok := bodies[name]; !ok {
			t.Fatalf("expected function body for %s, got keys %v", name, keys(bodies))
		}
	}
}

func TestExtractMetrics_PlainFunctionHasNoBranchingOrLoopNodes(t *testing.T) {
	e := New()
	bodies, err := e.ExtractMetrics("widget.go", []byte(metricsSample))
	if err != nil {
		t.Fatalf("extract metrics: %v", err)
	}

	body := bodies["widget.Plain"]
	if body.ParamCount != 1 {
		t.Fatalf("expected 1 param, got %d", body.ParamCount)
	}
	if body.Root == nil || len(body.Root.Children) == 0 {
		t.Fatal("expected a return node under the root")
	}
	stack := []*metrics.Node{body.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Class == metrics.ClassBranching || n.Class == metrics.ClassLoop {
			t.Fatalf("expected no branching or loop nodes in Plain, found class %v", n.Class)
		}
		stack = append(stack, n.Children...)
	}
}

func TestExtractMetrics_MethodExcludesReceiverFromParams(t *testing.T) {
	e := New()
	bodies, err := e.ExtractMetrics("widget.go", []byte(metricsSample))
	if err != nil {
		t.Fatalf("extract metrics: %v", err)
	}

	body := bodies["widget.Widget.Method"]
	if body.ParamCount != 0 {
		t.Fatalf("expected 0 declared params (receiver excluded), got %d", body.ParamCount)
	}
}

func keys(m map[string]metrics.FunctionBody) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}
