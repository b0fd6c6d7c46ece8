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

package row

import (
	"strings"

	"github.com/k3a/html2text"
)

// Detector chooses the field delimiter of a line. The first candidate that
// occurs in the line is used. Fallback is used if no candidate occurs.
type Detector struct {
	Candidates []rune
	Fallback   rune
}

// DefaultDetector splits lines containing a tab on tabs and all other lines
// on commas.
var DefaultDetector = &Detector{
	Candidates: []rune{'\t'},
	Fallback:   ',',
}

// Detect returns the delimiter for line.
func (d *Detector) Detect(line string) rune {
	for _, c := range d.Candidates {
		if strings.ContainsRune(line, c) {
			return c
		}
	}
	return d.Fallback
}

// Mapper maps source lines to records.
type Mapper struct {
	// SrcColumn is the index of the source column.
	SrcColumn int

	// DstColumn is the index of the destination column.
	DstColumn int

	// Direction maps the source and destination columns to languages.
	Direction Direction

	// Label is the provenance label attached to every record.
	Label string

	// Detector chooses the delimiter of each line. DefaultDetector is used
	// if nil.
	Detector *Detector

	// StripHTML converts HTML markup in fields to plain text.
	StripHTML bool

	// Fold is applied to each field if not nil.
	Fold func(string) string

	// DropEmpty drops records where both languages are empty.
	DropEmpty bool
}

// Fields splits line on its delimiter and pads the result with empty
// strings to at least n fields.
func (m *Mapper) Fields(line string, n int) []string {
	d := m.Detector
	if d == nil {
		d = DefaultDetector
	}
	fields := strings.Split(line, string(d.Detect(line)))
	for len(fields) < n {
		fields = append(fields, "")
	}
	return fields
}

// Map returns the record for line. It returns false if the record is
// dropped. Rows with too few fields are padded with empty fields.
func (m *Mapper) Map(line string) (Record, bool) {
	fields := m.Fields(line, max(m.SrcColumn, m.DstColumn)+1)

	src := m.clean(fields[m.SrcColumn])
	dst := m.clean(fields[m.DstColumn])

	r := Record{
		First:  src,
		Second: dst,
		Source: m.Label,
	}
	if m.Direction == SecondToFirst {
		r.First, r.Second = dst, src
	}

	if m.DropEmpty && r.Empty() {
		return Record{}, false
	}
	return r, true
}

func (m *Mapper) clean(s string) string {
	if m.StripHTML {
		s = html2text.HTML2Text(s)
	}
	if m.Fold != nil {
		s = m.Fold(s)
	}
	return s
}
