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

// Package expand expands conditional control-transfer invocations into
// if statements.
//
// Each kind of control transfer has its own rule set. A rule set holds two
// rules matched in order against the arguments of an invocation:
//
//	BreakIf(predicate)            if predicate { break }
//	BreakIf(predicate, label)     if predicate { break label }
//	ContinueIf(predicate)         if predicate { continue }
//	ContinueIf(predicate, label)  if predicate { continue label }
//	ReturnIf(predicate)           if predicate { return }
//	ReturnIf(predicate, value)    if predicate { return value }
//
// Argument nodes are spliced into the output as is: they are neither cloned
// nor re-parsed, so the output cannot capture or rename identifiers of the
// caller. Rule sets are immutable and share no state.
package expand

import (
	"go/ast"
	"go/token"

	"github.com/gx-org/flowcontrol/build/fmterr"
)

// Expand an invocation given its kind.
// Errors are positioned at the invocation.
func Expand(fset *token.FileSet, kind Kind, call *ast.CallExpr) (*ast.IfStmt, error) {
	stmt, err := Rules(kind).Expand(call)
	if err != nil {
		return nil, fmterr.Position(fset, call, err)
	}
	return stmt, nil
}
