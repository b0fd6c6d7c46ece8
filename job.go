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

package dictconv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictconv/row"
)

const (
	// DefaultSrcColumn is the default source column index.
	DefaultSrcColumn = 0

	// DefaultDstColumn is the default destination column index.
	DefaultDstColumn = 2
)

// ErrJob indicates an invalid job.
var ErrJob = errors.New("invalid job")

// compressedExts are source extensions that are decompressed before
// decoding.
var compressedExts = []string{".gz", ".dz"}

// Job is a single source to dataset conversion.
type Job struct {
	// SourcePath is the path of the tabular source file. It may be empty if
	// only an existing dataset should be reused.
	SourcePath string

	// OutputPath is the path of the JSON dataset.
	OutputPath string

	// Label is the provenance label of the job's records.
	Label string

	// Direction maps the source and destination columns to languages.
	Direction row.Direction

	// SrcColumn is the index of the source column.
	SrcColumn int

	// DstColumn is the index of the destination column.
	DstColumn int

	// StripHTML converts HTML markup in fields to plain text.
	StripHTML bool
}

// NewJob returns a job for the source path with default settings.
func NewJob(sourcePath string) *Job {
	return &Job{
		SourcePath: sourcePath,
		OutputPath: DefaultOutputPath(sourcePath),
		Label:      sourcePath,
		Direction:  row.DefaultDirection,
		SrcColumn:  DefaultSrcColumn,
		DstColumn:  DefaultDstColumn,
	}
}

// Name returns the path identifying the job in messages.
func (j *Job) Name() string {
	if j.SourcePath != "" {
		return j.SourcePath
	}
	return j.OutputPath
}

// Validate returns an error if the job cannot be run.
func (j *Job) Validate() error {
	if j.OutputPath == "" {
		return fmt.Errorf("%w: missing output path", ErrJob)
	}
	if j.SrcColumn < 0 {
		return fmt.Errorf("%w: negative source column %d", ErrJob, j.SrcColumn)
	}
	if j.DstColumn < 0 {
		return fmt.Errorf("%w: negative destination column %d", ErrJob, j.DstColumn)
	}
	if j.Direction != row.FirstToSecond && j.Direction != row.SecondToFirst {
		return fmt.Errorf("%w: %v", row.ErrDirection, j.Direction)
	}
	return nil
}

// DefaultOutputPath returns the source path with its extension replaced by
// ".json". A compression extension is removed first, so both "words.csv"
// and "words.csv.gz" become "words.json".
func DefaultOutputPath(sourcePath string) string {
	if sourcePath == "" {
		return ""
	}
	p := sourcePath
	ext := filepath.Ext(p)
	for _, c := range compressedExts {
		if strings.EqualFold(ext, c) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".json"
}
