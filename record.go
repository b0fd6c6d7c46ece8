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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ianlewis/go-dictconv/row"
)

// ErrFields indicates invalid record field names.
var ErrFields = errors.New("invalid field names")

// Fields are the JSON keys of a record.
type Fields struct {
	// First is the key of the first language.
	First string

	// Second is the key of the second language.
	Second string

	// Source is the key of the provenance label.
	Source string
}

// DefaultFields are the default JSON keys of a record.
var DefaultFields = Fields{
	First:  "first",
	Second: "second",
	Source: "src",
}

// Validate returns an error if any key is empty or keys are not distinct.
func (f Fields) Validate() error {
	if f.First == "" || f.Second == "" || f.Source == "" {
		return fmt.Errorf("%w: empty key in %+v", ErrFields, f)
	}
	if f.First == f.Second || f.First == f.Source || f.Second == f.Source {
		return fmt.Errorf("%w: duplicate key in %+v", ErrFields, f)
	}
	return nil
}

// MarshalRecords encodes records as a compact JSON array. Keys are written
// in the order first, second, source. HTML characters and non-ASCII text
// are not escaped. The output is identical for identical input.
func MarshalRecords(records []row.Record, fields Fields) ([]byte, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, kv := range [][2]string{
			{fields.First, r.First},
			{fields.Second, r.Second},
			{fields.Source, r.Source},
		} {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, kv[0]); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeString(&buf, kv[1]); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// UnmarshalRecords decodes a JSON array written by [MarshalRecords].
// Missing keys decode as empty strings.
func UnmarshalRecords(data []byte, fields Fields) ([]row.Record, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var objs []map[string]string
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	records := make([]row.Record, 0, len(objs))
	for _, o := range objs {
		records = append(records, row.Record{
			First:  o[fields.First],
			Second: o[fields.Second],
			Source: o[fields.Source],
		})
	}
	return records, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	start := buf.Len()
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding %q: %w", s, err)
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	if b := buf.Bytes()[start:]; bytes.Contains(b, []byte(`\u202`)) {
		out := unescapeSeparators(b)
		buf.Truncate(start)
		buf.Write(out)
	}
	return nil
}

// unescapeSeparators replaces the \u2028 and \u2029 escapes written by
// encoding/json with the raw runes. An escape is only replaced if it is
// preceded by an even number of backslashes, so an escaped backslash
// followed by the text "u2028" is left alone.
func unescapeSeparators(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' {
			out = append(out, b[i])
			continue
		}
		if i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == '\\' {
			// Escaped backslash.
			out = append(out, b[i], b[i+1])
			i++
			continue
		}
		if rest := b[i+1:]; bytes.HasPrefix(rest, []byte("u2028")) || bytes.HasPrefix(rest, []byte("u2029")) {
			r := '\u2028'
			if rest[4] == '9' {
				r = '\u2029'
			}
			out = utf8.AppendRune(out, r)
			i += 5
			continue
		}
		out = append(out, b[i])
	}
	return out
}
