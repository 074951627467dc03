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

// Package flowcontrol declares conditional control-transfer statements for Go
// source expanded by flowgen before compilation.
//
// A .fgo file is a Go source file importing this package and calling its
// entry points as statements:
//
//	flowcontrol.BreakIf(predicate)
//	flowcontrol.BreakIf(predicate, label)
//	flowcontrol.ContinueIf(predicate)
//	flowcontrol.ContinueIf(predicate, label)
//	flowcontrol.ReturnIf(predicate)
//	flowcontrol.ReturnIf(predicate, value)
//
// flowgen replaces each call with the equivalent hand-written statement, for
// example:
//
//	if predicate {
//		break label
//	}
//
// and removes the import. The generated code never references this package:
// the entry points have no runtime implementation.
package flowcontrol

//go:generate go run ./tools/flowgen --folder=examples --dry_run=false

// ImportPath is the import path identifying calls to the entry points.
const ImportPath = "github.com/gx-org/flowcontrol"

// Names of the entry points.
const (
	BreakIf    = "BreakIf"
	ContinueIf = "ContinueIf"
	ReturnIf   = "ReturnIf"
)
