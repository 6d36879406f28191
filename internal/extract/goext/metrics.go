// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package goext

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/kraklabs/roam/internal/metrics"
)

// ExtractMetrics parses filePath a second time and returns a metrics.
// FunctionBody for every top-level function and method, keyed by the same
// QualifiedName Extract assigns its Symbol (pkg.Name or pkg.Recv.Name).
// Kept as a separate pass from Extract so the Extractor/Symbol contract
// stays free of the complexity-scoring node-classification concern.
func (e *Extractor) ExtractMetrics(filePath string, source []byte) (map[string]metrics.FunctionBody, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	pkgName := file.Name.Name
	out := make(map[string]metrics.FunctionBody)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}

		qualified := pkgName + "." + fn.Name.Name
		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			recvType := strings.TrimPrefix(exprString(fn.Recv.List[0].Type), "*")
			qualified = pkgName + "." + recvType + "." + fn.Name.Name
		}

		start := fset.Position(fn.Pos()).Line
		end := fset.Position(fn.End()).Line

		var tokens []metrics.HalsteadToken
		root := &metrics.Node{}
		buildChildren(root, fn.Body.List, &tokens)

		out[qualified] = metrics.FunctionBody{
			Root:       root,
			ParamCount: paramCount(fn.Type),
			LineCount:  end - start + 1,
			Tokens:     tokens,
		}
	}

	return out, nil
}

func paramCount(t *ast.FuncType) int {
	if t.Params == nil {
		return 0
	}
	n := 0
	for _, f := range t.Params.List {
		c := len(f.Names)
		if c == 0 {
			c = 1
		}
		n += c
	}
	return n
}

// buildChildren classifies a block's statements into metrics.Node children,
// recursing into nested blocks so cognitive-complexity nesting tracks
// Go's own block structure, and collects Halstead operator/operand tokens
// along the way.
func buildChildren(parent *metrics.Node, stmts []ast.Stmt, tokens *[]metrics.HalsteadToken) {
	for _, stmt := range stmts {
		parent.Children = append(parent.Children, classifyStmt(stmt, tokens))
	}
}

func classifyStmt(stmt ast.Stmt, tokens *[]metrics.HalsteadToken) *metrics.Node {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		n := &metrics.Node{Class: metrics.ClassBranching}
		n.Children = append(n.Children, collectExprNodes(s.Cond, tokens)...)
		buildChildren(n, s.Body.List, tokens)
		if s.Else != nil {
			if block, ok := s.Else.(*ast.BlockStmt); ok {
				buildChildren(n, block.List, tokens)
			} else {
				n.Children = append(n.Children, classifyStmt(s.Else, tokens))
			}
		}
		return n
	case *ast.SwitchStmt:
		n := &metrics.Node{Class: metrics.ClassBranching}
		if s.Tag != nil {
			n.Children = append(n.Children, collectExprNodes(s.Tag, tokens)...)
		}
		for _, c := range s.Body.List {
			if cc, ok := c.(*ast.CaseClause); ok {
				buildChildren(n, cc.Body, tokens)
			}
		}
		return n
	case *ast.TypeSwitchStmt:
		n := &metrics.Node{Class: metrics.ClassBranching}
		for _, c := range s.Body.List {
			if cc, ok := c.(*ast.CaseClause); ok {
				buildChildren(n, cc.Body, tokens)
			}
		}
		return n
	case *ast.SelectStmt:
		n := &metrics.Node{Class: metrics.ClassBranching}
		for _, c := range s.Body.List {
			if cc, ok := c.(*ast.CommClause); ok {
				buildChildren(n, cc.Body, tokens)
			}
		}
		return n
	case *ast.ForStmt:
		n := &metrics.Node{Class: metrics.ClassLoop}
		if s.Cond != nil {
			n.Children = append(n.Children, collectExprNodes(s.Cond, tokens)...)
		}
		buildChildren(n, s.Body.List, tokens)
		return n
	case *ast.RangeStmt:
		n := &metrics.Node{Class: metrics.ClassLoop}
		buildChildren(n, s.Body.List, tokens)
		return n
	case *ast.ReturnStmt:
		n := &metrics.Node{Class: metrics.ClassReturn}
		for _, r := range s.Results {
			n.Children = append(n.Children, collectExprNodes(r, tokens)...)
		}
		return n
	case *ast.BlockStmt:
		n := &metrics.Node{}
		buildChildren(n, s.List, tokens)
		return n
	case *ast.ExprStmt:
		n := &metrics.Node{}
		n.Children = append(n.Children, collectExprNodes(s.X, tokens)...)
		return n
	case *ast.AssignStmt:
		*tokens = append(*tokens, metrics.HalsteadToken{Token: s.Tok.String(), Operator: true})
		n := &metrics.Node{}
		for _, rhs := range s.Rhs {
			n.Children = append(n.Children, collectExprNodes(rhs, tokens)...)
		}
		return n
	default:
		return &metrics.Node{}
	}
}

// collectExprNodes walks an expression for Halstead tokens and returns one
// metrics.Node per boolean operator (&&/||) or nested function literal it
// finds, so the complexity walker can score each independently instead of
// collapsing an entire condition into a single node.
func collectExprNodes(expr ast.Expr, tokens *[]metrics.HalsteadToken) []*metrics.Node {
	var nodes []*metrics.Node
	ast.Inspect(expr, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.BinaryExpr:
			*tokens = append(*tokens, metrics.HalsteadToken{Token: e.Op.String(), Operator: true})
			if e.Op == token.LAND || e.Op == token.LOR {
				nodes = append(nodes, &metrics.Node{Class: metrics.ClassBooleanOp})
			}
		case *ast.Ident:
			*tokens = append(*tokens, metrics.HalsteadToken{Token: e.Name})
		case *ast.BasicLit:
			*tokens = append(*tokens, metrics.HalsteadToken{Token: e.Value})
		case *ast.CallExpr:
			*tokens = append(*tokens, metrics.HalsteadToken{Token: "()", Operator: true})
		case *ast.FuncLit:
			child := &metrics.Node{Class: metrics.ClassNestedFunction}
			buildChildren(child, e.Body.List, tokens)
			nodes = append(nodes, child)
			return false
		}
		return true
	})
	return nodes
}
