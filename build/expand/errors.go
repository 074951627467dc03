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
	"strings"

	"github.com/pkg/errors"
)

// ErrShapeMismatch is matched by errors reporting an invocation whose
// arguments do not match any shape of its rule set.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeMismatchError reports the arguments of an invocation matching no rule.
type ShapeMismatchError struct {
	// Kind of the rule set.
	Kind Kind
	// NumArgs is the number of arguments of the invocation.
	NumArgs int
	// Shapes accepted by the rule set, in matching order.
	Shapes []string
	// Reason is set when a rule with the right arity rejected an argument.
	Reason string
}

// Error returns the diagnostic for the invocation.
func (err *ShapeMismatchError) Error() string {
	want := strings.Join(err.Shapes, " or ")
	if err.Reason != "" {
		return fmt.Sprintf("cannot expand %s: %s: want %s", err.Kind.EntryPoint(), err.Reason, want)
	}
	return fmt.Sprintf("cannot expand %s: got %d argument(s), want %s", err.Kind.EntryPoint(), err.NumArgs, want)
}

// Is returns true if target is ErrShapeMismatch.
func (err *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
