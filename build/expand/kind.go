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
	"fmt"

	"github.com/gx-org/flowcontrol"
)

// Kind of control transfer performed by an expanded statement.
type Kind int

const (
	// Break exits a loop.
	Break Kind = iota
	// Continue restarts a loop at its next iteration.
	Continue
	// Return exits the current function.
	Return
)

// Kinds lists all the kinds of control transfer.
var Kinds = []Kind{Break, Continue, Return}

// KindOf returns the kind of control transfer of an entry point given its name.
func KindOf(entryPoint string) (Kind, bool) {
	for _, kind := range Kinds {
		if kind.EntryPoint() == entryPoint {
			return kind, true
		}
	}
	return 0, false
}

// EntryPoint returns the name of the function expanding to the kind.
func (k Kind) EntryPoint() string {
	switch k {
	case Break:
		return flowcontrol.BreakIf
	case Continue:
		return flowcontrol.ContinueIf
	case Return:
		return flowcontrol.ReturnIf
	}
	return ""
}

// String returns the Go keyword of the control transfer.
func (k Kind) String() string {
	switch k {
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
