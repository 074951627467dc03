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

// Package module finds the Go module containing source files.
package module

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

func findModuleRoot(dir string) string {
	dir = filepath.Clean(dir)
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}
		d := filepath.Dir(dir)
		if d == dir {
			break
		}
		dir = d
	}
	return ""
}

// Module is a Go module on the local filesystem.
type Module struct {
	root string
	name string
}

// Find returns the module containing a path.
// Returns a nil module and a nil error if the path is not in a module.
func Find(osPath string) (*Module, error) {
	absPath, err := filepath.Abs(osPath)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %q", osPath)
	}
	modRoot := findModuleRoot(absPath)
	if modRoot == "" {
		return nil, nil
	}
	modPath := filepath.Join(modRoot, "go.mod")
	modData, err := os.ReadFile(modPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", modPath)
	}
	mod, err := modfile.ParseLax(modPath, modData, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", modPath)
	}
	if mod.Module == nil {
		return nil, errors.Errorf("%s does not declare a module", modPath)
	}
	return &Module{root: modRoot, name: mod.Module.Mod.Path}, nil
}

// Name of the module as specified in the go.mod file.
func (mod *Module) Name() string {
	return mod.name
}

// ImportPath returns the path of a file relative to the module,
// prefixed by the module name.
func (mod *Module) ImportPath(osPath string) (string, error) {
	absPath, err := filepath.Abs(osPath)
	if err != nil {
		return "", errors.Wrapf(err, "invalid path %q", osPath)
	}
	rel, err := filepath.Rel(mod.root, absPath)
	if err != nil {
		return "", errors.Wrapf(err, "cannot find %s in module %s", osPath, mod.name)
	}
	return mod.name + "/" + filepath.ToSlash(rel), nil
}
