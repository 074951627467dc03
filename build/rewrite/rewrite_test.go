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

package rewrite_test

import (
	"errors"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/flowcontrol/build/expand"
	"github.com/gx-org/flowcontrol/build/rewrite"
)

func rewriteSource(t *testing.T, src string, opts rewrite.Options) (string, *rewrite.Result, error) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.fgo", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("cannot parse source: %v", err)
	}
	result, rwErr := rewrite.File(fset, file, opts)
	var out strings.Builder
	if err := format.Node(&out, fset, file); err != nil {
		t.Fatalf("cannot format rewritten file: %v", err)
	}
	return out.String(), result, rwErr
}

func canonical(t *testing.T, src string) string {
	t.Helper()
	out, err := format.Source([]byte(src))
	if err != nil {
		t.Fatalf("cannot format:\n%s\nerror: %v", src, err)
	}
	return string(out)
}

func TestFile(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string
		counts map[expand.Kind]int
	}{
		{
			name: "nested loops",
			src: `package loops

import (
	"fmt"

	"github.com/gx-org/flowcontrol"
)

func pairs() {
outer:
	for i := 1; i < 3; i++ {
		for j := 1; j < 5; j++ {
			flowcontrol.BreakIf(j == 3, outer)
			flowcontrol.ContinueIf(j == 2,)
			fmt.Println(i, j)
		}
	}
}
`,
			want: `package loops

import "fmt"

func pairs() {
outer:
	for i := 1; i < 3; i++ {
		for j := 1; j < 5; j++ {
			if j == 3 {
				break outer
			}
			if j == 2 {
				continue
			}
			fmt.Println(i, j)
		}
	}
}
`,
			counts: map[expand.Kind]int{expand.Break: 1, expand.Continue: 1},
		},
		{
			name: "return with value",
			src: `package early

import "github.com/gx-org/flowcontrol"

func find(n int) string {
	for i := 1; i < 10; i++ {
		flowcontrol.ReturnIf(i == n, "early")
	}
	return "after"
}
`,
			want: `package early

func find(n int) string {
	for i := 1; i < 10; i++ {
		if i == n {
			return "early"
		}
	}
	return "after"
}
`,
			counts: map[expand.Kind]int{expand.Return: 1},
		},
		{
			name: "renamed import",
			src: `package renamed

import fc "github.com/gx-org/flowcontrol"

func f(xs []int) {
	for _, x := range xs {
		fc.ContinueIf(x < 0)
		fc.ReturnIf(x == 0)
	}
}
`,
			want: `package renamed

func f(xs []int) {
	for _, x := range xs {
		if x < 0 {
			continue
		}
		if x == 0 {
			return
		}
	}
}
`,
			counts: map[expand.Kind]int{expand.Continue: 1, expand.Return: 1},
		},
		{
			name: "dot import",
			src: `package dot

import . "github.com/gx-org/flowcontrol"

func f(xs []int) {
	for _, x := range xs {
		BreakIf(x > 10)
	}
}
`,
			want: `package dot

func f(xs []int) {
	for _, x := range xs {
		if x > 10 {
			break
		}
	}
}
`,
			counts: map[expand.Kind]int{expand.Break: 1},
		},
		{
			name: "switch and select clauses",
			src: `package clauses

import "github.com/gx-org/flowcontrol"

func f(xs []int, ch chan int) int {
	for _, x := range xs {
		switch {
		case x > 0:
			flowcontrol.ContinueIf(x%2 == 0)
		default:
			flowcontrol.ReturnIf(x < -10, x)
		}
		select {
		case v := <-ch:
			flowcontrol.BreakIf(v == x)
		}
	}
	return 0
}
`,
			want: `package clauses

func f(xs []int, ch chan int) int {
	for _, x := range xs {
		switch {
		case x > 0:
			if x%2 == 0 {
				continue
			}
		default:
			if x < -10 {
				return x
			}
		}
		select {
		case v := <-ch:
			if v == x {
				break
			}
		}
	}
	return 0
}
`,
			counts: map[expand.Kind]int{expand.Break: 1, expand.Continue: 1, expand.Return: 1},
		},
		{
			name: "other package not expanded",
			src: `package other

import (
	"github.com/gx-org/flowcontrol"
	"example.com/other/flowcontrol2"
)

func f(x int) {
	flowcontrol2.BreakIf(x)
	for {
		flowcontrol.BreakIf(x > 0)
	}
}
`,
			want: `package other

import "example.com/other/flowcontrol2"

func f(x int) {
	flowcontrol2.BreakIf(x)
	for {
		if x > 0 {
			break
		}
	}
}
`,
			counts: map[expand.Kind]int{expand.Break: 1},
		},
		{
			name: "no marker import",
			src: `package none

func f(x int) {
	for {
		BreakIf(x)
	}
}
`,
			want: `package none

func f(x int) {
	for {
		BreakIf(x)
	}
}
`,
			counts: map[expand.Kind]int{},
		},
		{
			name: "invocation in a function literal of a predicate",
			src: `package nested

import "github.com/gx-org/flowcontrol"

func f(xs []int) {
	for _, x := range xs {
		flowcontrol.BreakIf(func() bool {
			for _, y := range xs {
				flowcontrol.ContinueIf(y == x)
				return true
			}
			return false
		}())
	}
}
`,
			want: `package nested

func f(xs []int) {
	for _, x := range xs {
		if func() bool {
			for _, y := range xs {
				if y == x {
					continue
				}
				return true
			}
			return false
		}() {
			break
		}
	}
}
`,
			counts: map[expand.Kind]int{expand.Break: 1, expand.Continue: 1},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, result, err := rewriteSource(t, test.src, rewrite.Options{})
			if err != nil {
				t.Fatalf("unexpected error:\n%+v", err)
			}
			if diff := cmp.Diff(canonical(t, test.want), canonical(t, got)); diff != "" {
				t.Errorf("unexpected rewrite (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.counts, result.Counts); diff != "" {
				t.Errorf("unexpected counts (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShadowedMarker(t *testing.T) {
	const src = `package shadow

import "github.com/gx-org/flowcontrol"

type T struct{}

func (T) BreakIf(bool) {}

func f(flowcontrol T) {
	for {
		flowcontrol.BreakIf(true)
	}
}

func g(x int) {
	for {
		flowcontrol.BreakIf(x > 0)
	}
}
`
	got, result, err := rewriteSource(t, src, rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error:\n%+v", err)
	}
	if result.Total() != 1 {
		t.Errorf("got %d expansions but want 1", result.Total())
	}
	if !strings.Contains(got, "flowcontrol.BreakIf(true)") {
		t.Errorf("method call on a parameter has been expanded:\n%s", got)
	}
	if !strings.Contains(got, "if x > 0 {") {
		t.Errorf("invocation not expanded:\n%s", got)
	}
}

func TestDotImportDeclaredNames(t *testing.T) {
	const src = `package dotnames

import . "github.com/gx-org/flowcontrol"

type Opts struct {
	BreakIf bool
}

func (Opts) ContinueIf() {}

func f(xs []int) Opts {
	opts := Opts{BreakIf: true}
	for _, x := range xs {
		BreakIf(opts.BreakIf && x > 0)
	}
	return opts
}
`
	got, result, err := rewriteSource(t, src, rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error:\n%+v", err)
	}
	if result.Total() != 1 {
		t.Errorf("got %d expansions but want 1", result.Total())
	}
	if !strings.Contains(got, "if opts.BreakIf && x > 0 {") {
		t.Errorf("invocation not expanded:\n%s", got)
	}
	if !strings.Contains(got, "Opts{BreakIf: true}") {
		t.Errorf("struct key has been modified:\n%s", got)
	}
}

func TestCompositeLiteralPredicate(t *testing.T) {
	const src = `package composite

import "github.com/gx-org/flowcontrol"

type P struct{ X int }

func f(ps []P) {
	for _, p := range ps {
		flowcontrol.BreakIf(p == P{1})
	}
}
`
	got, _, err := rewriteSource(t, src, rewrite.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "if (p == P{1}) {") {
		t.Errorf("predicate not enclosed in parentheses:\n%s", got)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "out.go", got, 0); err != nil {
		t.Errorf("cannot parse rewritten file: %v\n%s", err, got)
	}
}

func TestCommentBetweenArguments(t *testing.T) {
	const src = `package comments

import "github.com/gx-org/flowcontrol"

func f(n int) string {
	for {
		flowcontrol.ReturnIf(n == 5, // stop at five
			"early")
		n++
	}
}
`
	got, _, err := rewriteSource(t, src, rewrite.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "// stop at five") {
		t.Errorf("comment has been lost:\n%s", got)
	}
	if strings.Contains(got, "{//") {
		t.Errorf("comment printed against the brace:\n%s", got)
	}
	if diff := cmp.Diff(canonical(t, got), got); diff != "" {
		t.Errorf("rewritten file is not formatted (-want +got):\n%s", diff)
	}
}

func TestLabeledInvocation(t *testing.T) {
	const src = `package labeled

import "github.com/gx-org/flowcontrol"

func f(x int) {
	for {
	check:
		flowcontrol.BreakIf(x > 0)
		goto check
	}
}
`
	got, result, err := rewriteSource(t, src, rewrite.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total() != 1 {
		t.Errorf("got %d expansions but want 1", result.Total())
	}
	if strings.Contains(got, "flowcontrol") {
		t.Errorf("marker package still referenced:\n%s", got)
	}
	if !strings.Contains(got, "check:") || !strings.Contains(got, "if x > 0 {") {
		t.Errorf("labeled invocation not expanded:\n%s", got)
	}
}

func TestCustomImportPath(t *testing.T) {
	const src = `package custom

import "example.com/flow"

func f(x int) {
	for {
		flow.BreakIf(x > 0)
	}
}
`
	got, result, err := rewriteSource(t, src, rewrite.Options{ImportPath: "example.com/flow"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total() != 1 {
		t.Errorf("got %d expansions but want 1", result.Total())
	}
	if strings.Contains(got, "example.com/flow") {
		t.Errorf("import has not been removed:\n%s", got)
	}
}

func TestBlankImportKept(t *testing.T) {
	const src = `package blank

import _ "github.com/gx-org/flowcontrol"

func f() {}
`
	got, result, err := rewriteSource(t, src, rewrite.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total() != 0 {
		t.Errorf("got %d expansions but want 0", result.Total())
	}
	if diff := cmp.Diff(canonical(t, src), canonical(t, got)); diff != "" {
		t.Errorf("file has been modified (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	const src = `package errs

import "github.com/gx-org/flowcontrol"

func f(x int) bool {
	for {
		flowcontrol.BreakIf()
		flowcontrol.ContinueIf(x > 0, x, x)
		ok := flowcontrol.ReturnIf(x > 0)
		go flowcontrol.BreakIf(x > 1)
		g := flowcontrol.ContinueIf
		flowcontrol.BreakIf(x > 2)
		_, _ = ok, g
	}
}
`
	got, _, err := rewriteSource(t, src, rewrite.Options{})
	if err == nil {
		t.Fatalf("expected an error")
	}
	want := []string{
		"test.fgo:7:3: cannot expand BreakIf: got 0 argument(s), want (predicate) or (predicate, label)",
		"test.fgo:8:3: cannot expand ContinueIf: got 3 argument(s), want (predicate) or (predicate, label)",
		"test.fgo:9:9: cannot expand ReturnIf: invocation is not a statement",
		"test.fgo:10:6: cannot expand BreakIf: invocation is not a statement",
		"test.fgo:11:8: cannot expand ContinueIf: entry point is not called",
	}
	if diff := cmp.Diff(strings.Join(want, "\n"), err.Error()); diff != "" {
		t.Errorf("unexpected errors (-want +got):\n%s", diff)
	}
	if !errors.Is(err, expand.ErrShapeMismatch) {
		t.Errorf("%v does not match %v", err, expand.ErrShapeMismatch)
	}
	if diff := cmp.Diff(canonical(t, src), canonical(t, got)); diff != "" {
		t.Errorf("file has been modified despite errors (-want +got):\n%s", diff)
	}
}
