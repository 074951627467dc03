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

package expanders

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

type (
	// FileWriter writes a file given its content.
	FileWriter interface {
		Write(path string, content string) error
		Close() error
	}

	// OSWriter writes files on the local filesystem.
	// Files already holding the content are not written again.
	OSWriter struct{}

	printWriter struct {
		w io.Writer
	}
)

var (
	_ FileWriter = OSWriter{}
	_ FileWriter = printWriter{}
)

// Write content to a file if the file content is different.
func (OSWriter) Write(path string, content string) error {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, []byte(content)) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// Close the writer.
func (OSWriter) Close() error {
	return nil
}

// NewPrintWriter returns a writer printing the path and the content of files.
func NewPrintWriter(w io.Writer) FileWriter {
	return printWriter{w: w}
}

func (pw printWriter) Write(path string, content string) error {
	_, err := fmt.Fprintf(pw.w, "%s:\n%s\n", path, content)
	return err
}

func (printWriter) Close() error {
	return nil
}
