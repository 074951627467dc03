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

package expanders

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gx-org/flowcontrol"
	"github.com/pkg/errors"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

const (
	// SourceExt is the extension of the files to expand.
	SourceExt = ".fgo"
	// DefaultSuffix replaces SourceExt in the name of generated files.
	DefaultSuffix = "_flow.go"
)

// Config of the expanders. Zero values select defaults.
type Config struct {
	// ImportPath of the marker package.
	ImportPath string `yaml:"import"`
	// Exclude lists names of folders to skip.
	Exclude []string `yaml:"exclude"`
	// Jobs is the maximum number of files expanded concurrently.
	Jobs int `yaml:"jobs"`
	// Suffix of the generated files.
	Suffix string `yaml:"suffix"`
}

// LoadConfig reads a configuration from a YAML file.
// Unknown keys are reported as errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read configuration")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "cannot parse configuration %s", path)
	}
	return cfg, nil
}

// Override returns a configuration where the non-zero fields of o replace
// the fields of cfg.
func (cfg Config) Override(o Config) Config {
	if o.ImportPath != "" {
		cfg.ImportPath = o.ImportPath
	}
	if len(o.Exclude) > 0 {
		cfg.Exclude = append(append([]string{}, cfg.Exclude...), o.Exclude...)
	}
	if o.Jobs != 0 {
		cfg.Jobs = o.Jobs
	}
	if o.Suffix != "" {
		cfg.Suffix = o.Suffix
	}
	return cfg
}

// Validate checks the configuration.
func (cfg Config) Validate() error {
	if cfg.ImportPath != "" {
		if err := module.CheckImportPath(cfg.ImportPath); err != nil {
			return errors.Wrapf(err, "invalid marker import path")
		}
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("invalid number of jobs %d: must be positive", cfg.Jobs)
	}
	if cfg.Suffix != "" && !strings.HasSuffix(cfg.Suffix, ".go") {
		return errors.Errorf("invalid suffix %q: generated files need a .go extension", cfg.Suffix)
	}
	return nil
}

func (cfg Config) importPath() string {
	if cfg.ImportPath == "" {
		return flowcontrol.ImportPath
	}
	return cfg.ImportPath
}

func (cfg Config) jobs() int {
	if cfg.Jobs == 0 {
		return runtime.NumCPU()
	}
	return cfg.Jobs
}

// Target returns the path of the file generated from a source file.
func (cfg Config) Target(source string) string {
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return strings.TrimSuffix(source, SourceExt) + suffix
}

func (cfg Config) excluded(name string) bool {
	for _, ex := range cfg.Exclude {
		if match, _ := filepath.Match(ex, name); match {
			return true
		}
	}
	return false
}
