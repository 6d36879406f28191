// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package goext

import (
	"testing"

	"github.com/kraklabs/roam/internal/model"
)

const sample = `package widget

import "fmt"

// Widget is a thing.
type Widget struct {
	Name string
}

type Named interface {
	GetName() string
}

const MaxWidgets = 10

// NewWidget builds a Widget.
func NewWidget(name string) *Widget {
	fmt.Println(name)
	return &Widget{Name: name}
}

func (w *Widget) GetName() string {
	return w.Name
}
`

func TestExtract_SymbolsAndReferences(t *testing.T) {
	e := New()
	symbols, refs, err := e.Extract("widget.go", []byte(sample))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	names := map[string]model.Symbol{}
	for _, s := range symbols {
		names[s.Name] = s
	}

	if _, ok := names["Widget"]; !ok {
		t.Fatalf("expected Widget struct symbol, got %+v", names)
	}
	if names["Widget"].Kind != model.KindStruct {
		t.Fatalf("expected Widget kind struct, got %s", names["Widget"].Kind)
	}
	if names["Named"].Kind != model.KindInterface {
		t.Fatalf("expected Named kind interface, got %s", names["Named"].Kind)
	}
	if names["MaxWidgets"].Kind != model.KindConstant {
		t.Fatalf("expected MaxWidgets kind constant, got %s", names["MaxWidgets"].Kind)
	}
	newWidget, ok := names["NewWidget"]
	if !ok || newWidget.Kind != model.KindFunction || !newWidget.IsExported {
		t.Fatalf("expected exported NewWidget function, got %+v", newWidget)
	}
	getName, ok := names["GetName"]
	if !ok || getName.Kind != model.KindMethod || getName.ParentName != "Widget" {
		t.Fatalf("expected GetName method on Widget, got %+v", getName)
	}

	foundImport := false
	foundCall := false
	for _, r := range refs {
		if r.Kind == model.EdgeImport && r.TargetName == "fmt" {
			foundImport = true
		}
		if r.Kind == model.EdgeCall && r.TargetName == "fmt.Println" {
			foundCall = true
		}
	}
	if !foundImport {
		t.Errorf("expected an import reference to fmt, got %+v", refs)
	}
	if !foundCall {
		t.Errorf("expected a call reference to fmt.Println, got %+v", refs)
	}
}

func TestExtract_MalformedSourceReturnsError(t *testing.T) {
	e := New()
	_, _, err := e.Extract("broken.go", []byte("package widget\nfunc ( {{{"))
	if err == nil {
		t.Fatalf("expected parse error for malformed source")
	}
}
