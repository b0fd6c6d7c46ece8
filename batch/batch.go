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

// Package batch runs conversion jobs and writes the run's manifest.
//
// Jobs run one at a time in order. A failing job is reported and counted but
// does not stop the run. The manifest lists every job that completed,
// including skipped jobs, and is written once all jobs have run.
package batch

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	dictconv "github.com/ianlewis/go-dictconv"
	"github.com/ianlewis/go-dictconv/manifest"
)

// ErrJobsFailed indicates that at least one job failed.
var ErrJobsFailed = errors.New("jobs failed")

// Runner runs conversion jobs.
type Runner struct {
	// Converter converts each job. Its BaseDir is the base directory of the
	// run.
	Converter *dictconv.Converter

	// ManifestPath is the path of the manifest file. Relative paths are
	// resolved against the converter's base directory. No manifest is
	// written if empty.
	ManifestPath string

	// Out receives one line per job and the summary line.
	Out io.Writer

	// Err receives job errors and warnings.
	Err io.Writer
}

// Summary is the outcome of a run.
type Summary struct {
	// Rows is the total number of converted records.
	Rows int

	// Converted is the number of converted jobs.
	Converted int

	// Reused is the number of reused datasets.
	Reused int

	// Skipped is the number of skipped jobs.
	Skipped int

	// Failed is the number of failed jobs.
	Failed int

	// Manifest is the run's manifest.
	Manifest *manifest.Manifest
}

// Err returns an error wrapping ErrJobsFailed if any job failed.
func (s *Summary) Err() error {
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d", ErrJobsFailed, s.Failed)
	}
	return nil
}

// Run runs jobs in order. jobErrs are jobs that failed before they could
// be run, e.g. invalid configuration entries, and are counted as failures.
// Run returns an error only if the manifest cannot be written. Job failures
// are reported by Summary.Err.
func (r *Runner) Run(jobs []*dictconv.Job, jobErrs []error) (*Summary, error) {
	s := &Summary{
		Manifest: manifest.New(),
	}

	for _, err := range jobErrs {
		r.errorf("error: %v\n", err)
		s.Failed++
	}

	for _, job := range jobs {
		res, err := r.Converter.Convert(job)
		if err != nil {
			r.errorf("error: %s: %v\n", job.Name(), err)
			s.Failed++
			continue
		}
		r.report(res)

		switch res.Status {
		case dictconv.Converted:
			s.Converted++
			s.Rows += res.Rows
		case dictconv.Reused:
			s.Reused++
		case dictconv.Skipped:
			s.Skipped++
		}

		s.Manifest.Add(
			filepath.ToSlash(job.OutputPath),
			filepath.ToSlash(job.SourcePath),
			job.Label,
			res.Payload,
		)
	}

	if r.ManifestPath != "" {
		path := r.Converter.Path(r.ManifestPath)
		if err := s.Manifest.WriteFile(path); err != nil {
			return s, err
		}
		r.printf("manifest: %s (%d datasets)\n", r.ManifestPath, len(s.Manifest.Datasets))
	}

	r.printf("done: %d rows, %d converted, %d reused, %d skipped, %d failed\n",
		s.Rows, s.Converted, s.Reused, s.Skipped, s.Failed)

	return s, nil
}

func (r *Runner) report(res *dictconv.Result) {
	job := res.Job
	switch res.Status {
	case dictconv.Converted:
		r.printf("%s: %s -> %s (%s, %d rows)\n", res.Status, job.SourcePath, job.OutputPath, res.Encoding, res.Rows)
		if res.Encoding.Approximate() {
			r.errorf("warning: %s: decoded as %s with invalid input replaced\n", job.SourcePath, res.Encoding)
		}
	case dictconv.Reused:
		if job.SourcePath == "" {
			r.printf("%s: %s\n", res.Status, job.OutputPath)
			return
		}
		r.printf("%s: %s (source %s not found)\n", res.Status, job.OutputPath, job.SourcePath)
	case dictconv.Skipped:
		r.printf("%s: %s (no source or output)\n", res.Status, job.Name())
	}
}

func (r *Runner) printf(format string, a ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, a...)
	}
}

func (r *Runner) errorf(format string, a ...any) {
	if r.Err != nil {
		fmt.Fprintf(r.Err, format, a...)
	}
}
