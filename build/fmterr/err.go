// Copyright 2024 Google LLC
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

package fmterr

import (
	"fmt"
	"go/ast"
	"go/token"
)

// PosError is an error located in a source file.
type PosError struct {
	// Pos is the position of the node at the origin of the error.
	Pos token.Position
	// Err is the error without position.
	Err error
}

// Position attaches the position of a node to an error.
// The position is resolved immediately: the node can be modified afterwards.
func Position(fset *token.FileSet, node ast.Node, err error) error {
	return &PosError{Pos: fset.Position(node.Pos()), Err: err}
}

// Error returns the position followed by the error message.
func (err *PosError) Error() string {
	if !err.Pos.IsValid() {
		return err.Err.Error()
	}
	return err.Pos.String() + ": " + err.Err.Error()
}

func (err *PosError) Unwrap() error {
	return err.Err
}

// Format writes the error into the state of the formatter.
func (err *PosError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// Internal marks an error as a bug of the generator.
func Internal(err error) error {
	return fmt.Errorf("flowgen internal error. This is a bug in flowgen. Please report it. Error:\n%+v", err)
}
