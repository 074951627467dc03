// Copyright 2025 Google LLC
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

// Package rewrite expands the invocations of the flowcontrol entry points in a
// source file.
//
// An invocation is expanded only when it is a statement on its own: a call
// used as a value, or an entry point referenced without being called, is
// reported as an error. A file is either fully expanded or left untouched.
package rewrite

import (
	"go/ast"
	"go/token"

	"github.com/gx-org/flowcontrol"
	"github.com/gx-org/flowcontrol/build/expand"
	"github.com/gx-org/flowcontrol/build/fmterr"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/astutil"
)

var (
	// ErrNotStatement is returned when an invocation is not a statement.
	ErrNotStatement = errors.New("invocation is not a statement")
	// ErrNotCalled is returned when an entry point is referenced but not called.
	ErrNotCalled = errors.New("entry point is not called")
)

type (
	// Options of a rewrite.
	Options struct {
		// ImportPath of the marker package.
		// flowcontrol.ImportPath is used if empty.
		ImportPath string
	}

	// Result of rewriting a file.
	Result struct {
		// Counts the number of expansions per kind of control transfer.
		Counts map[expand.Kind]int
	}
)

// Total number of expansions.
func (r *Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

func (opts Options) importPath() string {
	if opts.ImportPath == "" {
		return flowcontrol.ImportPath
	}
	return opts.ImportPath
}

// File expands all the invocations of a file.
// The file needs to be parsed with object resolution: an identifier declared
// in the file never refers to the marker package.
// The file is not modified if an error is returned.
func File(fset *token.FileSet, file *ast.File, opts Options) (*Result, error) {
	importPath := opts.importPath()
	res := newResolver(MarkerNames(file, importPath))
	result := &Result{Counts: make(map[expand.Kind]int)}
	if res == nil {
		return result, nil
	}
	rw := &rewriter{
		fset:       fset,
		res:        res,
		matched:    make(map[*ast.CallExpr]bool),
		expansions: make(map[*ast.ExprStmt]*ast.IfStmt),
		counts:     result.Counts,
	}
	astutil.Apply(file, rw.collect, nil)
	ast.Inspect(file, rw.checkStray)
	if err := rw.errs.ToError(); err != nil {
		return nil, err
	}
	astutil.Apply(file, rw.replace, nil)
	deleteImports(fset, file, importPath)
	return result, nil
}

type resolver struct {
	names map[string]bool
	dot   bool
}

func newResolver(names []string) *resolver {
	if len(names) == 0 {
		return nil
	}
	res := &resolver{names: make(map[string]bool)}
	for _, name := range names {
		if name == "." {
			res.dot = true
			continue
		}
		res.names[name] = true
	}
	return res
}

// entryPoint returns the kind of an expression referring to an entry point.
// Identifiers resolved to a declaration of the file are never entry points.
func (res *resolver) entryPoint(expr ast.Expr) (expand.Kind, bool) {
	switch exprT := expr.(type) {
	case *ast.Ident:
		if !res.dot || exprT.Obj != nil {
			return 0, false
		}
		return expand.KindOf(exprT.Name)
	case *ast.SelectorExpr:
		x, ok := exprT.X.(*ast.Ident)
		if !ok || x.Obj != nil || !res.names[x.Name] {
			return 0, false
		}
		return expand.KindOf(exprT.Sel.Name)
	case *ast.ParenExpr:
		return res.entryPoint(exprT.X)
	}
	return 0, false
}

type rewriter struct {
	fset       *token.FileSet
	res        *resolver
	errs       fmterr.Errors
	matched    map[*ast.CallExpr]bool
	expansions map[*ast.ExprStmt]*ast.IfStmt
	counts     map[expand.Kind]int
}

// inStatementList returns true if the current node of a cursor is an element
// of a list of statements or the statement of a label.
func inStatementList(c *astutil.Cursor) bool {
	switch c.Parent().(type) {
	case *ast.BlockStmt, *ast.CaseClause, *ast.CommClause:
		return c.Index() >= 0
	case *ast.LabeledStmt:
		return c.Name() == "Stmt"
	}
	return false
}

// collect expands the invocations in statement position.
func (rw *rewriter) collect(c *astutil.Cursor) bool {
	exprStmt, ok := c.Node().(*ast.ExprStmt)
	if !ok || !inStatementList(c) {
		return true
	}
	call, ok := exprStmt.X.(*ast.CallExpr)
	if !ok {
		return true
	}
	kind, ok := rw.res.entryPoint(call.Fun)
	if !ok {
		return true
	}
	rw.matched[call] = true
	stmt, err := expand.Expand(rw.fset, kind, call)
	if err != nil {
		rw.errs.Append(err)
		return true
	}
	rw.expansions[exprStmt] = stmt
	rw.counts[kind]++
	return true
}

// replace substitutes the expansions to their invocations.
// The children of an invocation are still visited: the expansion shares them.
func (rw *rewriter) replace(c *astutil.Cursor) bool {
	exprStmt, ok := c.Node().(*ast.ExprStmt)
	if !ok {
		return true
	}
	if stmt := rw.expansions[exprStmt]; stmt != nil {
		c.Replace(stmt)
	}
	return true
}

func (rw *rewriter) stray(node ast.Node, kind expand.Kind, err error) {
	rw.errs.Append(fmterr.Position(rw.fset, node, errors.Wrapf(err, "cannot expand %s", kind.EntryPoint())))
}

func (rw *rewriter) inspect(nodes ...ast.Node) {
	for _, node := range nodes {
		if node != nil {
			ast.Inspect(node, rw.checkStray)
		}
	}
}

// checkStray reports references to entry points that cannot be expanded.
// Declared names, struct keys and labels are not references.
func (rw *rewriter) checkStray(node ast.Node) bool {
	switch nodeT := node.(type) {
	case *ast.ImportSpec, *ast.BranchStmt:
		return false
	case *ast.Field:
		rw.inspect(nodeT.Type)
		return false
	case *ast.FuncDecl:
		if nodeT.Recv != nil {
			rw.inspect(nodeT.Recv)
		}
		rw.inspect(nodeT.Type)
		if nodeT.Body != nil {
			rw.inspect(nodeT.Body)
		}
		return false
	case *ast.LabeledStmt:
		rw.inspect(nodeT.Stmt)
		return false
	case *ast.CompositeLit:
		rw.inspect(nodeT.Type)
		for _, elt := range nodeT.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				rw.inspect(elt)
				continue
			}
			if _, isIdent := kv.Key.(*ast.Ident); !isIdent {
				rw.inspect(kv.Key)
			}
			rw.inspect(kv.Value)
		}
		return false
	case *ast.CallExpr:
		kind, ok := rw.res.entryPoint(nodeT.Fun)
		if !ok {
			return true
		}
		if !rw.matched[nodeT] {
			rw.stray(nodeT, kind, ErrNotStatement)
		}
		for _, arg := range nodeT.Args {
			rw.inspect(arg)
		}
		return false
	case *ast.SelectorExpr:
		if kind, ok := rw.res.entryPoint(nodeT); ok {
			rw.stray(nodeT, kind, ErrNotCalled)
			return false
		}
		rw.inspect(nodeT.X)
		return false
	case *ast.Ident:
		if kind, ok := rw.res.entryPoint(nodeT); ok {
			rw.stray(nodeT, kind, ErrNotCalled)
		}
	}
	return true
}
