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

// Package expanders expands the .fgo files of a folder into Go files.
package expanders

import (
	"context"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gx-org/flowcontrol/build/expand"
	"github.com/gx-org/flowcontrol/build/fmterr"
	"github.com/gx-org/flowcontrol/build/module"
	"github.com/gx-org/flowcontrol/build/rewrite"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

const headerFormat = "// Code generated by flowgen from %s. DO NOT EDIT.\n\n"

type (
	// Walker walks across a file system to expand .fgo files.
	Walker struct {
		cfg    Config
		fw     FileWriter
		log    *zap.Logger
		counts map[expand.Kind]int
	}

	output struct {
		target  string
		content string
		result  *rewrite.Result
	}
)

// NewWalker returns a new walker. Expanded files are printed on the standard
// output instead of being written if dryRun is true.
func NewWalker(fw FileWriter, cfg Config, dryRun bool, log *zap.Logger) *Walker {
	if dryRun {
		fw = NewPrintWriter(os.Stdout)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Walker{
		cfg:    cfg,
		fw:     fw,
		log:    log,
		counts: make(map[expand.Kind]int),
	}
}

func isSourceFile(d fs.DirEntry) bool {
	return !d.IsDir() && strings.HasSuffix(d.Name(), SourceExt)
}

// Sources returns the sorted list of files to expand in a folder.
func (w *Walker) Sources(folder string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != folder && w.cfg.excluded(d.Name()) {
			w.log.Debug("skipping folder", zap.String("path", path))
			return filepath.SkipDir
		}
		if !isSourceFile(d) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

// Expand all the source files of a folder.
// All files are expanded before any file is written: no file is written if
// any file fails to expand.
func (w *Walker) Expand(ctx context.Context, folder string) error {
	paths, err := w.Sources(folder)
	if err != nil {
		return err
	}
	mod, err := module.Find(folder)
	if err != nil {
		return err
	}
	outs := make([]*output, len(paths))
	fileErrs := make([]error, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.jobs())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outs[i], fileErrs[i] = w.expandFile(mod, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := multierr.Combine(fileErrs...); err != nil {
		return err
	}
	for _, out := range outs {
		if err := w.fw.Write(out.target, out.content); err != nil {
			return errors.Wrapf(err, "cannot write %s", out.target)
		}
		w.log.Debug("expanded",
			zap.String("target", out.target),
			zap.Int("expansions", out.result.Total()))
		for kind, n := range out.result.Counts {
			w.counts[kind] += n
		}
	}
	w.logSummary(len(outs))
	return nil
}

func (w *Walker) logSummary(numFiles int) {
	kinds := maps.Keys(w.counts)
	slices.Sort(kinds)
	fields := []zap.Field{zap.Int("files", numFiles)}
	for _, kind := range kinds {
		fields = append(fields, zap.Int(kind.String(), w.counts[kind]))
	}
	w.log.Info("expansion done", fields...)
}

func (w *Walker) sourceName(mod *module.Module, path string) string {
	if mod != nil {
		if name, err := mod.ImportPath(path); err == nil {
			return name
		}
	}
	return filepath.Base(path)
}

func (w *Walker) expandFile(mod *module.Module, path string) (*output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, data, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	result, err := rewrite.File(fset, f, rewrite.Options{ImportPath: w.cfg.importPath()})
	if err != nil {
		return nil, err
	}
	src := strings.Builder{}
	fmt.Fprintf(&src, headerFormat, w.sourceName(mod, path))
	if err := format.Node(&src, fset, f); err != nil {
		return nil, fmterr.Internal(errors.Wrapf(err, "cannot write formatted code of %s", path))
	}
	return &output{
		target:  w.cfg.Target(path),
		content: src.String(),
		result:  result,
	}, nil
}

// Counts returns the number of expansions per kind written by the walker.
func (w *Walker) Counts() map[expand.Kind]int {
	return maps.Clone(w.counts)
}

// Close the walker.
func (w *Walker) Close() error {
	return w.fw.Close()
}
