// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	dictconv "github.com/ianlewis/go-dictconv"
)

// DefaultExtensions are the source extensions recognized by Discover.
var DefaultExtensions = []string{".csv", ".tsv"}

// compressedExts may follow a source extension.
var compressedExts = []string{"", ".gz", ".dz"}

// Discover returns a job with default settings for each file under baseDir
// with one of the given extensions, optionally followed by ".gz" or ".dz".
// Extensions are case-insensitive. DefaultExtensions are used if exts is
// empty. Directories starting with "." are skipped. Job paths are relative
// to baseDir and jobs are returned in lexical order.
//
// Discover returns all jobs found along with any errors that occurred while
// walking baseDir.
func Discover(baseDir string, exts []string) ([]*dictconv.Job, []error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var jobs []*dictconv.Job
	var errs []error
	if err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		// Walking the file path will ignore errors.
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			if path != baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExt(d.Name(), exts) {
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("discovering %q: %w", path, err))
			return nil
		}
		jobs = append(jobs, dictconv.NewJob(rel))
		return nil
	}); err != nil {
		errs = append(errs, err)
	}

	return jobs, errs
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		for _, c := range compressedExts {
			if strings.HasSuffix(name, ext+c) {
				return true
			}
		}
	}
	return false
}
