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

package expand

import (
	"go/ast"
	"go/token"
	"strings"
)

type (
	// Shape matches the arguments of an invocation.
	Shape struct {
		// Params names the arguments, for example (predicate, label).
		Params []string
		// Check validates the arguments once the arity matches.
		// A nil check accepts any argument.
		Check func(args []ast.Expr) (reason string, ok bool)
	}

	// Rule is a shape with the template of the statement it expands into.
	Rule struct {
		Shape Shape
		// Body builds the only statement of the conditional.
		Body func(call *ast.CallExpr) ast.Stmt
	}

	// RuleSet is an ordered set of rules for a kind of control transfer.
	RuleSet struct {
		kind  Kind
		rules []Rule
	}
)

// String representation of the shape.
func (s Shape) String() string {
	return "(" + strings.Join(s.Params, ", ") + ")"
}

func (s Shape) match(args []ast.Expr) (reason string, ok bool) {
	if len(args) != len(s.Params) {
		return "", false
	}
	if s.Check == nil {
		return "", true
	}
	return s.Check(args)
}

var (
	// BreakRules expands BreakIf invocations.
	BreakRules = branchRules(Break, token.BREAK)
	// ContinueRules expands ContinueIf invocations.
	ContinueRules = branchRules(Continue, token.CONTINUE)
	// ReturnRules expands ReturnIf invocations.
	ReturnRules = &RuleSet{
		kind: Return,
		rules: []Rule{
			{
				Shape: Shape{Params: []string{"predicate"}},
				Body:  returnStmt,
			},
			{
				Shape: Shape{Params: []string{"predicate", "value"}},
				Body:  returnStmt,
			},
		},
	}
)

func branchRules(kind Kind, tok token.Token) *RuleSet {
	body := func(call *ast.CallExpr) ast.Stmt {
		return branchStmt(tok, call)
	}
	return &RuleSet{
		kind: kind,
		rules: []Rule{
			{
				Shape: Shape{Params: []string{"predicate"}},
				Body:  body,
			},
			{
				Shape: Shape{
					Params: []string{"predicate", "label"},
					Check:  checkLabel,
				},
				Body: body,
			},
		},
	}
}

func checkLabel(args []ast.Expr) (string, bool) {
	if _, ok := args[1].(*ast.Ident); !ok {
		return "label must be an identifier", false
	}
	return "", true
}

// Rules returns the rule set of a kind of control transfer.
func Rules(kind Kind) *RuleSet {
	switch kind {
	case Break:
		return BreakRules
	case Continue:
		return ContinueRules
	case Return:
		return ReturnRules
	}
	return nil
}

// Kind returns the kind of control transfer of the rule set.
func (rs *RuleSet) Kind() Kind {
	return rs.kind
}

// Shapes returns the shapes of the rules, in matching order.
func (rs *RuleSet) Shapes() []string {
	shapes := make([]string, len(rs.rules))
	for i, rule := range rs.rules {
		shapes[i] = rule.Shape.String()
	}
	return shapes
}

// Match returns the first rule accepting the arguments of an invocation.
func (rs *RuleSet) Match(args []ast.Expr) (*Rule, error) {
	for i := range rs.rules {
		rule := &rs.rules[i]
		reason, ok := rule.Shape.match(args)
		if ok {
			return rule, nil
		}
		if reason != "" {
			return nil, rs.mismatch(len(args), reason)
		}
	}
	return nil, rs.mismatch(len(args), "")
}

func (rs *RuleSet) mismatch(numArgs int, reason string) error {
	return &ShapeMismatchError{
		Kind:    rs.kind,
		NumArgs: numArgs,
		Shapes:  rs.Shapes(),
		Reason:  reason,
	}
}

// Expand an invocation into a conditional statement.
// The predicate becomes the condition of the statement.
func (rs *RuleSet) Expand(call *ast.CallExpr) (*ast.IfStmt, error) {
	if call.Ellipsis.IsValid() {
		return nil, rs.mismatch(len(call.Args), "cannot expand variadic arguments")
	}
	rule, err := rs.Match(call.Args)
	if err != nil {
		return nil, err
	}
	cond := condition(call.Args[0])
	return &ast.IfStmt{
		If:   call.Pos(),
		Cond: cond,
		Body: &ast.BlockStmt{
			Lbrace: cond.End(),
			List:   []ast.Stmt{rule.Body(call)},
			Rbrace: call.Rparen,
		},
	}, nil
}

// condition returns the predicate as the condition of an if statement.
// A composite literal outside of any bracket is parsed as the block of the
// statement, so such a predicate is enclosed in parentheses.
func condition(pred ast.Expr) ast.Expr {
	if !hasBareCompositeLit(pred) {
		return pred
	}
	return &ast.ParenExpr{
		Lparen: pred.Pos(),
		X:      pred,
		Rparen: pred.End(),
	}
}

func hasBareCompositeLit(expr ast.Expr) bool {
	found := false
	ast.Inspect(expr, func(node ast.Node) bool {
		if found {
			return false
		}
		switch nodeT := node.(type) {
		case *ast.CompositeLit:
			found = true
		case *ast.ParenExpr, *ast.FuncLit:
		case *ast.CallExpr:
			found = hasBareCompositeLit(nodeT.Fun)
		case *ast.IndexExpr:
			found = hasBareCompositeLit(nodeT.X)
		case *ast.IndexListExpr:
			found = hasBareCompositeLit(nodeT.X)
		case *ast.SliceExpr:
			found = hasBareCompositeLit(nodeT.X)
		case *ast.TypeAssertExpr:
			found = hasBareCompositeLit(nodeT.X)
		default:
			return true
		}
		return false
	})
	return found
}

// optional returns the second argument of an invocation if present.
func optional(call *ast.CallExpr) ast.Expr {
	if len(call.Args) < 2 {
		return nil
	}
	return call.Args[1]
}

func branchStmt(tok token.Token, call *ast.CallExpr) ast.Stmt {
	stmt := &ast.BranchStmt{TokPos: call.Rparen, Tok: tok}
	if label := optional(call); label != nil {
		stmt.Label = label.(*ast.Ident)
	}
	return stmt
}

func returnStmt(call *ast.CallExpr) ast.Stmt {
	stmt := &ast.ReturnStmt{Return: call.Rparen}
	if value := optional(call); value != nil {
		stmt.Results = []ast.Expr{value}
	}
	return stmt
}
