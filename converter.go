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
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-dictconv/internal/atomicfile"
	"github.com/ianlewis/go-dictconv/lines"
	"github.com/ianlewis/go-dictconv/row"
	"github.com/ianlewis/go-dictconv/textenc"
)

// ErrConvert is a parent error for all conversion errors.
var ErrConvert = errors.New("convert")

// Status is the outcome of a conversion job.
type Status int

const (
	// Converted means the source was converted and the dataset written.
	Converted Status = iota

	// Reused means the source was absent and the existing dataset was
	// reused.
	Reused

	// Skipped means neither the source nor the dataset exist.
	Skipped
)

// String implements [fmt.Stringer].
func (s Status) String() string {
	switch s {
	case Converted:
		return "convert"
	case Reused:
		return "reuse"
	case Skipped:
		return "skip"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the result of a conversion job.
type Result struct {
	// Job is the converted job.
	Job *Job

	// Status is the outcome of the job.
	Status Status

	// Encoding is the detected encoding of the source. It is empty unless
	// the source was converted.
	Encoding textenc.Encoding

	// Rows is the number of converted records.
	Rows int

	// Payload is the dataset content. It is nil if the job was skipped.
	Payload []byte
}

// Converter converts sources to datasets.
type Converter struct {
	// BaseDir is the directory relative job paths are resolved against.
	// The current directory is used if empty.
	BaseDir string

	// Decoder decodes source text. textenc.DefaultDecoder is used if nil.
	Decoder *textenc.Decoder

	// Fields are the JSON keys of records. DefaultFields is used if zero.
	Fields Fields

	// Strict skips comment lines and drops records where both languages
	// are empty.
	Strict bool

	// Fold is applied to each field if not nil.
	Fold func(string) string
}

// Path resolves p against the converter's base directory.
func (c *Converter) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func (c *Converter) fields() Fields {
	if c.Fields == (Fields{}) {
		return DefaultFields
	}
	return c.Fields
}

// Records decodes the source data and maps its lines to records in source
// order. Records does not touch the filesystem.
func (c *Converter) Records(data []byte, job *Job) ([]row.Record, textenc.Encoding, error) {
	if err := job.Validate(); err != nil {
		return nil, "", err
	}

	d := c.Decoder
	if d == nil {
		d = textenc.DefaultDecoder
	}
	text, enc := d.Decode(data)

	lineOpts := lines.DefaultOptions
	if c.Strict {
		lineOpts = lines.StrictOptions
	}

	m := &row.Mapper{
		SrcColumn: job.SrcColumn,
		DstColumn: job.DstColumn,
		Direction: job.Direction,
		Label:     job.Label,
		StripHTML: job.StripHTML,
		Fold:      c.Fold,
		DropEmpty: c.Strict,
	}

	records := []row.Record{}
	s := lines.NewScanner(strings.NewReader(text), lineOpts)
	for s.Scan() {
		if r, ok := m.Map(s.Text()); ok {
			records = append(records, r)
		}
	}
	if err := s.Err(); err != nil {
		return nil, enc, fmt.Errorf("scanning lines: %w", err)
	}

	return records, enc, nil
}

// Convert runs the job. If the source exists it is converted and the
// dataset is written to the output path. Otherwise, if the output path
// exists, its content is reused. If neither exist the job is skipped.
func (c *Converter) Convert(job *Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}

	res := &Result{
		Job:    job,
		Status: Skipped,
	}

	srcPath := c.Path(job.SourcePath)
	outPath := c.Path(job.OutputPath)

	srcExists, err := exists(srcPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}

	if srcExists {
		data, err := readSource(srcPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConvert, err)
		}

		records, enc, err := c.Records(data, job)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConvert, err)
		}

		payload, err := MarshalRecords(records, c.fields())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConvert, err)
		}

		if err := atomicfile.WriteFile(outPath, payload, 0o644); err != nil {
			return nil, fmt.Errorf("%w: writing %q: %w", ErrConvert, outPath, err)
		}

		res.Status = Converted
		res.Encoding = enc
		res.Rows = len(records)
		res.Payload = payload
		return res, nil
	}

	outExists, err := exists(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}
	if outExists {
		payload, err := os.ReadFile(outPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %w", ErrConvert, outPath, err)
		}
		res.Status = Reused
		res.Payload = payload
	}

	return res, nil
}

func exists(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %q: %w", path, err)
}

// readSource reads the full content of the source file. Gzip (.gz) and
// dictzip (.dz) compressed sources are decompressed.
func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		z, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer z.Close()
		r = z
	case ".dz":
		z, err := dictzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer z.Close()
		r = z
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return b, nil
}
