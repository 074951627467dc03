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

// Package fmterr accumulates the errors found while expanding a source file
// and attaches source positions to them.
package fmterr

import (
	"fmt"
	"strings"
)

// Errors is a set of errors.
type Errors struct {
	errs []error
}

// Append an error to the set.
func (errs *Errors) Append(err error) {
	errs.errs = append(errs.errs, err)
}

// Empty returns true if no error has been appended.
func (errs *Errors) Empty() bool {
	return len(errs.errs) == 0
}

// Error returns the errors of the set, one error per line.
func (errs *Errors) Error() string {
	ss := make([]string, len(errs.errs))
	for i, err := range errs.errs {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "\n")
}

// Unwrap returns the errors of the set.
func (errs *Errors) Unwrap() []error {
	return errs.errs
}

// ToError returns nil if the set is empty, the set otherwise.
func (errs *Errors) ToError() error {
	if errs == nil || errs.Empty() {
		return nil
	}
	return errs
}

// Format writes the errors into the state of the formatter.
func (errs *Errors) Format(s fmt.State, verb rune) {
	for i, err := range errs.errs {
		if i > 0 {
			fmt.Fprint(s, "\n")
		}
		format(err, s, verb)
	}
}
