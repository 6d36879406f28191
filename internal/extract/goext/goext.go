// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package goext is the one concrete Extractor shipped with roam: it parses
// Go source with the standard library's own compiler front end (go/parser,
// go/ast, go/token) rather than a third-party grammar, since this spec only
// requires a single reference language and Go needs no multi-language
// parsing toolkit to parse itself.
package goext

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/kraklabs/roam/internal/model"
)

// Extractor implements internal/ingest.Extractor for Go source files.
type Extractor struct{}

// New returns a ready-to-use Go Extractor.
func New() *Extractor { return &Extractor{} }

// Extract parses one Go file and returns the symbols it declares (package-
// level funcs, methods, types, consts, vars) and the references it makes
// (calls, type references, imports).
func (e *Extractor) Extract(filePath string, source []byte) ([]model.Symbol, []model.Reference, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, source, parser.ParseComments)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	pkgName := file.Name.Name
	v := &visitor{fset: fset, pkg: pkgName}

	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		v.refs = append(v.refs, model.Reference{
			SourceName: pkgName,
			TargetName: path,
			Kind:       model.EdgeImport,
			Line:       fset.Position(imp.Pos()).Line,
			ImportPath: path,
		})
	}

	for _, decl := range file.Decls {
		v.visitDecl(decl)
	}

	return v.symbols, v.refs, nil
}

type visitor struct {
	fset    *token.FileSet
	pkg     string
	symbols []model.Symbol
	refs    []model.Reference
}

func (v *visitor) visitDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		v.visitFunc(d)
	case *ast.GenDecl:
		v.visitGenDecl(d)
	}
}

func (v *visitor) visitFunc(d *ast.FuncDecl) {
	name := d.Name.Name
	kind := model.KindFunction
	qualified := v.pkg + "." + name
	parent := ""

	if d.Recv != nil && len(d.Recv.List) > 0 {
		kind = model.KindMethod
		recvType := exprString(d.Recv.List[0].Type)
		recvType = strings.TrimPrefix(recvType, "*")
		parent = recvType
		qualified = v.pkg + "." + recvType + "." + name
	}

	start := v.fset.Position(d.Pos()).Line
	end := v.fset.Position(d.End()).Line

	sym := model.Symbol{
		Name:          name,
		QualifiedName: qualified,
		Kind:          kind,
		Signature:     funcSignature(d),
		LineStart:     start,
		LineEnd:       end,
		Docstring:     strings.TrimSpace(d.Doc.Text()),
		Visibility:    visibilityOf(name),
		IsExported:    ast.IsExported(name),
		ParentName:    parent,
	}
	v.symbols = append(v.symbols, sym)

	if parent != "" {
		v.refs = append(v.refs, model.Reference{
			SourceName: qualified,
			TargetName: parent,
			Kind:       model.EdgeUses,
			Line:       start,
		})
	}

	if d.Body != nil {
		ast.Inspect(d.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			target := callTarget(call.Fun)
			if target == "" {
				return true
			}
			v.refs = append(v.refs, model.Reference{
				SourceName: qualified,
				TargetName: target,
				Kind:       model.EdgeCall,
				Line:       v.fset.Position(call.Pos()).Line,
			})
			return true
		})
	}
}

func (v *visitor) visitGenDecl(d *ast.GenDecl) {
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			v.visitTypeSpec(d, s)
		case *ast.ValueSpec:
			v.visitValueSpec(d, s)
		}
	}
}

func (v *visitor) visitTypeSpec(gd *ast.GenDecl, s *ast.TypeSpec) {
	name := s.Name.Name
	qualified := v.pkg + "." + name
	kind := model.KindTypeAlias
	switch s.Type.(type) {
	case *ast.StructType:
		kind = model.KindStruct
	case *ast.InterfaceType:
		kind = model.KindInterface
	}

	start := v.fset.Position(s.Pos()).Line
	end := v.fset.Position(s.End()).Line
	doc := strings.TrimSpace(gd.Doc.Text())
	if doc == "" {
		doc = strings.TrimSpace(s.Doc.Text())
	}

	v.symbols = append(v.symbols, model.Symbol{
		Name:          name,
		QualifiedName: qualified,
		Kind:          kind,
		LineStart:     start,
		LineEnd:       end,
		Docstring:     doc,
		Visibility:    visibilityOf(name),
		IsExported:    ast.IsExported(name),
	})

	if iface, ok := s.Type.(*ast.InterfaceType); ok {
		for _, m := range iface.Methods.List {
			if embedded := exprString(m.Type); len(m.Names) == 0 && embedded != "" {
				v.refs = append(v.refs, model.Reference{
					SourceName: qualified,
					TargetName: embedded,
					Kind:       model.EdgeInherits,
					Line:       start,
				})
			}
		}
	}
	if st, ok := s.Type.(*ast.StructType); ok {
		for _, f := range st.Fields.List {
			if len(f.Names) == 0 {
				embedded := strings.TrimPrefix(exprString(f.Type), "*")
				if embedded != "" {
					v.refs = append(v.refs, model.Reference{
						SourceName: qualified,
						TargetName: embedded,
						Kind:       model.EdgeInherits,
						Line:       start,
					})
				}
			}
		}
	}
}

func (v *visitor) visitValueSpec(gd *ast.GenDecl, s *ast.ValueSpec) {
	kind := model.KindVariable
	if gd.Tok == token.CONST {
		kind = model.KindConstant
	}
	for i, name := range s.Names {
		if name.Name == "_" {
			continue
		}
		start := v.fset.Position(s.Pos()).Line
		end := v.fset.Position(s.End()).Line
		var def string
		if i < len(s.Values) {
			def = exprString(s.Values[i])
		}
		v.symbols = append(v.symbols, model.Symbol{
			Name:          name.Name,
			QualifiedName: v.pkg + "." + name.Name,
			Kind:          kind,
			LineStart:     start,
			LineEnd:       end,
			Docstring:     strings.TrimSpace(gd.Doc.Text()),
			Visibility:    visibilityOf(name.Name),
			IsExported:    ast.IsExported(name.Name),
			DefaultValue:  def,
		})
	}
}

func visibilityOf(name string) model.Visibility {
	if ast.IsExported(name) {
		return model.VisPublic
	}
	return model.VisPrivate
}

func callTarget(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		if ident, ok := f.X.(*ast.Ident); ok {
			return ident.Name + "." + f.Sel.Name
		}
		return f.Sel.Name
	default:
		return ""
	}
}

func exprString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.BasicLit:
		return t.Value
	default:
		return ""
	}
}

func funcSignature(d *ast.FuncDecl) string {
	var b strings.Builder
	b.WriteString("func ")
	b.WriteString(d.Name.Name)
	b.WriteString("(")
	if d.Type.Params != nil {
		first := true
		for _, p := range d.Type.Params.List {
			n := len(p.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				if !first {
					b.WriteString(", ")
				}
				b.WriteString(exprString(p.Type))
				first = false
			}
		}
	}
	b.WriteString(")")
	return b.String()
}
