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

package rewrite

import (
	"go/ast"
	"go/token"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// markerImports returns the import specs of a package in a file.
func markerImports(file *ast.File, importPath string) []*ast.ImportSpec {
	var specs []*ast.ImportSpec
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path != importPath {
			continue
		}
		specs = append(specs, spec)
	}
	return specs
}

// MarkerNames returns the names under which a file refers to the marker
// package. A dot import is returned as ".". Blank imports are skipped.
func MarkerNames(file *ast.File, importPath string) []string {
	var names []string
	for _, spec := range markerImports(file, importPath) {
		name := path.Base(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// deleteImports removes the non-blank imports of the marker package.
func deleteImports(fset *token.FileSet, file *ast.File, importPath string) {
	for _, spec := range markerImports(file, importPath) {
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" {
			continue
		}
		astutil.DeleteNamedImport(fset, file, name, importPath)
	}
}
