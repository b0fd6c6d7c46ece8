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

// Package config loads conversion job lists.
//
// A configuration file is JSON, or YAML if its name ends in .yaml or .yml:
//
//	{
//	  "fields": {"first": "uk", "second": "ja", "source": "src"},
//	  "strict": false,
//	  "fold": ["trim"],
//	  "files": [
//	    {"csv": "data/words.csv", "direction": "ja2uk", "src_col": 0, "dst_col": 2},
//	    {"json": "data/legacy.json", "label": "legacy"}
//	  ]
//	}
//
// Only "files" is required. Each entry needs "csv" or "json". Missing job
// settings take the defaults of [dictconv.NewJob].
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	dictconv "github.com/ianlewis/go-dictconv"
	"github.com/ianlewis/go-dictconv/internal/folding"
	"github.com/ianlewis/go-dictconv/manifest"
	"github.com/ianlewis/go-dictconv/row"
)

// DefaultPath is the default configuration file name.
const DefaultPath = "config.json"

var (
	// ErrConfig indicates a configuration file that cannot be used. It is
	// fatal to a run.
	ErrConfig = errors.New("config")

	// ErrJobConfig indicates an invalid job entry. Only the job fails.
	ErrJobConfig = errors.New("job config")
)

// Fields are the configured record keys. Empty keys take the defaults of
// [dictconv.DefaultFields].
type Fields struct {
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
	Source string `json:"source" yaml:"source"`
}

// Job is a configured job entry.
type Job struct {
	// CSV is the source path.
	CSV string `json:"csv" yaml:"csv"`

	// JSON is the output path.
	JSON string `json:"json" yaml:"json"`

	// Label is the provenance label.
	Label string `json:"label" yaml:"label"`

	// Direction is the direction name. See [row.ParseDirection].
	Direction string `json:"direction" yaml:"direction"`

	// SrcCol is the source column index.
	SrcCol *int `json:"src_col" yaml:"src_col"`

	// DstCol is the destination column index.
	DstCol *int `json:"dst_col" yaml:"dst_col"`

	// StripHTML converts HTML markup in fields to plain text.
	StripHTML bool `json:"strip_html" yaml:"strip_html"`

	// err is set if the entry could not be decoded.
	err error
}

// UnmarshalJSON implements [json.Unmarshaler]. A malformed entry does not
// fail the whole file. The error is reported by [File.Jobs] instead.
func (c *Job) UnmarshalJSON(b []byte) error {
	type plain Job
	var j plain
	if err := json.Unmarshal(b, &j); err != nil {
		*c = Job{err: fmt.Errorf("decoding entry: %w", err)}
		return nil
	}
	*c = Job(j)
	return nil
}

// UnmarshalYAML implements [yaml.Unmarshaler]. See [Job.UnmarshalJSON].
func (c *Job) UnmarshalYAML(value *yaml.Node) error {
	type plain Job
	var j plain
	if err := value.Decode(&j); err != nil {
		*c = Job{err: fmt.Errorf("decoding entry: %w", err)}
		return nil
	}
	*c = Job(j)
	return nil
}

// File is a configuration file.
type File struct {
	// Files are the jobs to run.
	Files []*Job `json:"files" yaml:"files"`

	// Fields are the record keys.
	Fields Fields `json:"fields" yaml:"fields"`

	// Strict skips comment lines and drops empty records.
	Strict bool `json:"strict" yaml:"strict"`

	// Fold are field folding modes applied in order.
	Fold []string `json:"fold" yaml:"fold"`

	// Manifest is the manifest path.
	Manifest string `json:"manifest" yaml:"manifest"`

	// Extensions are the source extensions recognized by discovery.
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return Parse(b, filepath.Ext(path))
}

// Parse parses and validates configuration data. ext selects the format:
// ".yaml" and ".yml" are YAML and anything else is JSON.
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: parsing yaml: %w", ErrConfig, err)
		}
	default:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: parsing json: %w", ErrConfig, err)
		}
	}

	if err := f.RecordFields().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := folding.ParseModes(f.Fold); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return &f, nil
}

// RecordFields returns the record keys with defaults applied.
func (f *File) RecordFields() dictconv.Fields {
	fields := dictconv.DefaultFields
	if f.Fields.First != "" {
		fields.First = f.Fields.First
	}
	if f.Fields.Second != "" {
		fields.Second = f.Fields.Second
	}
	if f.Fields.Source != "" {
		fields.Source = f.Fields.Source
	}
	return fields
}

// FoldModes returns the folding modes.
func (f *File) FoldModes() []folding.Mode {
	// Modes are validated by Parse.
	modes, _ := folding.ParseModes(f.Fold)
	return modes
}

// ManifestPath returns the manifest path with the default applied.
func (f *File) ManifestPath() string {
	if f.Manifest == "" {
		return manifest.DefaultPath
	}
	return f.Manifest
}

// Jobs returns the configured jobs in order. Entries that are invalid are
// returned as errors wrapping ErrJobConfig rather than jobs.
func (f *File) Jobs() ([]*dictconv.Job, []error) {
	var jobs []*dictconv.Job
	var errs []error

	fields := f.RecordFields()
	for i, c := range f.Files {
		job, err := c.job(fields)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: files[%d]: %w", ErrJobConfig, i, err))
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, errs
}

func (c *Job) job(fields dictconv.Fields) (*dictconv.Job, error) {
	if c == nil {
		return nil, errors.New("null entry")
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.CSV == "" && c.JSON == "" {
		return nil, errors.New("missing csv and json paths")
	}

	job := dictconv.NewJob(c.CSV)
	if c.JSON != "" {
		job.OutputPath = c.JSON
	}
	if c.CSV == "" {
		job.Label = c.JSON
	}
	if c.Label != "" {
		job.Label = c.Label
	}
	if c.Direction != "" {
		d, err := row.ParseDirection(c.Direction, fields.First, fields.Second)
		if err != nil {
			return nil, err
		}
		job.Direction = d
	}
	if c.SrcCol != nil {
		job.SrcColumn = *c.SrcCol
	}
	if c.DstCol != nil {
		job.DstColumn = *c.DstCol
	}
	job.StripHTML = c.StripHTML

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}
