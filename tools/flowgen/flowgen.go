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

// Command flowgen expands the .fgo files of a folder into Go files.
//
// Usage:
//
//	flowgen --folder=DIR [--dry_run=false] [--config=flowgen.yaml]
//
// Each file.fgo is expanded into file_flow.go in the same folder.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gx-org/flowcontrol/tools/flowflag"
	"github.com/gx-org/flowcontrol/tools/flowgen/expanders"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	folder     = flag.String("folder", "", "folder where the .fgo files need to be expanded")
	dryRun     = flag.Bool("dry_run", true, "output on the standard output if true")
	configPath = flag.String("config", "", "YAML configuration file")
	importPath = flag.String("import", "", "import path of the marker package")
	jobs       = flag.Int("jobs", 0, "maximum number of files expanded concurrently (0 for the number of CPUs)")
	exclude    = flowflag.StringList("exclude", "names of folders to skip, separated by commas")
	verbose    = flag.Bool("verbose", false, "log debug information and print errors with their stack trace")
)

func newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if *verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func loadConfig() (expanders.Config, error) {
	var cfg expanders.Config
	if *configPath != "" {
		loaded, err := expanders.LoadConfig(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg = cfg.Override(expanders.Config{
		ImportPath: *importPath,
		Exclude:    *exclude,
		Jobs:       *jobs,
	})
	return cfg, cfg.Validate()
}

func run(ctx context.Context, log *zap.Logger) error {
	if *folder == "" {
		return errors.Errorf("no folder specified: please use --folder to specify a target folder")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	walker := expanders.NewWalker(expanders.OSWriter{}, cfg, *dryRun, log)
	if err := walker.Expand(ctx, *folder); err != nil {
		return err
	}
	return walker.Close()
}

func printErrors(err error) {
	format := "%v\n"
	if *verbose {
		format = "%+v\n"
	}
	for _, err := range multierr.Errors(err) {
		fmt.Fprintf(os.Stderr, format, err)
	}
}

func main() {
	flag.Parse()
	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, log)
	stop()
	_ = log.Sync()
	if err != nil {
		printErrors(err)
		os.Exit(1)
	}
}
