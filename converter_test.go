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

package dictconv_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	dictconv "github.com/ianlewis/go-dictconv"
	"github.com/ianlewis/go-dictconv/internal/testutil"
	"github.com/ianlewis/go-dictconv/row"
	"github.com/ianlewis/go-dictconv/textenc"
)

func TestConverter_Records(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		conv     *dictconv.Converter
		data     []byte
		job      *dictconv.Job
		expected []row.Record
		encoding textenc.Encoding
	}{
		{
			name: "default columns",
			conv: &dictconv.Converter{},
			data: []byte("りんご,ringo,яблуко\r\nみかん\tmikan\tмандарин\r\n"),
			job:  &dictconv.Job{OutputPath: "o.json", Label: "L", DstColumn: 2},
			expected: []row.Record{
				{First: "яблуко", Second: "りんご", Source: "L"},
				{First: "мандарин", Second: "みかん", Source: "L"},
			},
			encoding: textenc.UTF8,
		},
		{
			name: "loose keeps comments and empty rows",
			conv: &dictconv.Converter{},
			data: []byte("# a,b,c\n,,\nx"),
			job:  &dictconv.Job{OutputPath: "o.json", Label: "L", DstColumn: 2},
			expected: []row.Record{
				{First: "c", Second: "# a", Source: "L"},
				{Source: "L"},
				{First: "", Second: "x", Source: "L"},
			},
			encoding: textenc.UTF8,
		},
		{
			name: "strict drops comments and empty rows",
			conv: &dictconv.Converter{Strict: true},
			data: []byte("# a,b,c\n,,\n// note\nx"),
			job:  &dictconv.Job{OutputPath: "o.json", Label: "L", DstColumn: 2},
			expected: []row.Record{
				{First: "", Second: "x", Source: "L"},
			},
			encoding: textenc.UTF8,
		},
		{
			name: "fold",
			conv: &dictconv.Converter{Fold: strings.TrimSpace},
			data: []byte("\xEF\xBB\xBF a , b "),
			job: &dictconv.Job{
				OutputPath: "o.json",
				Direction:  row.FirstToSecond,
				DstColumn:  1,
			},
			expected: []row.Record{
				{First: "a", Second: "b"},
			},
			encoding: textenc.UTF8BOM,
		},
		{
			name:     "empty source",
			conv:     &dictconv.Converter{},
			data:     nil,
			job:      dictconv.NewJob("a.csv"),
			expected: []row.Record{},
			encoding: textenc.UTF8,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			records, enc, err := test.conv.Records(test.data, test.job)
			if err != nil {
				t.Fatalf("Records: %v", err)
			}
			if diff := cmp.Diff(test.expected, records); diff != "" {
				t.Errorf("Records (-want, +got):\n%s", diff)
			}
			if want, got := test.encoding, enc; want != got {
				t.Errorf("encoding; want: %q, got: %q", want, got)
			}
		})
	}
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "data/words.csv", []byte("X,Y,Z\nA\tB\tC\nshort\n"))

	c := &dictconv.Converter{BaseDir: dir}
	job := dictconv.NewJob("data/words.csv")
	job.OutputPath = "out/nested/words.json"

	res, err := c.Convert(job)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if want, got := dictconv.Converted, res.Status; want != got {
		t.Errorf("Status; want: %v, got: %v", want, got)
	}
	if want, got := 3, res.Rows; want != got {
		t.Errorf("Rows; want: %d, got: %d", want, got)
	}
	if want, got := textenc.UTF8, res.Encoding; want != got {
		t.Errorf("Encoding; want: %q, got: %q", want, got)
	}

	want := `[{"first":"Z","second":"X","src":"data/words.csv"},` +
		`{"first":"C","second":"A","src":"data/words.csv"},` +
		`{"first":"","second":"short","src":"data/words.csv"}]`
	if got := string(res.Payload); want != got {
		t.Errorf("Payload; want: %s, got: %s", want, got)
	}

	written := testutil.ReadFile(t, filepath.Join(dir, "out/nested/words.json"))
	if !bytes.Equal(res.Payload, written) {
		t.Errorf("written file differs from payload: %s", written)
	}
}

// TestConverter_Convert_deterministic checks that converting the same source
// twice writes identical bytes.
func TestConverter_Convert_deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "words.tsv", []byte("слово\t\tword\nсир\t\tcheese\n"))

	c := &dictconv.Converter{BaseDir: dir, Fields: dictconv.Fields{First: "en", Second: "uk", Source: "src"}}

	first, err := c.Convert(dictconv.NewJob("words.tsv"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	second, err := c.Convert(dictconv.NewJob("words.tsv"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !bytes.Equal(first.Payload, second.Payload) {
		t.Fatalf("payloads differ:\n%s\n%s", first.Payload, second.Payload)
	}
}

func TestConverter_Convert_reuse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := []byte(`[{"first":"a","second":"b","src":"L"}]`)
	testutil.WriteFile(t, dir, "words.json", existing)

	c := &dictconv.Converter{BaseDir: dir}
	res, err := c.Convert(dictconv.NewJob("words.csv"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if want, got := dictconv.Reused, res.Status; want != got {
		t.Errorf("Status; want: %v, got: %v", want, got)
	}
	if want, got := 0, res.Rows; want != got {
		t.Errorf("Rows; want: %d, got: %d", want, got)
	}
	if !bytes.Equal(existing, res.Payload) {
		t.Errorf("Payload; want: %s, got: %s", existing, res.Payload)
	}
}

func TestConverter_Convert_reuseWithoutSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "only.json", []byte(`[]`))

	c := &dictconv.Converter{BaseDir: dir}
	res, err := c.Convert(&dictconv.Job{OutputPath: "only.json"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if want, got := dictconv.Reused, res.Status; want != got {
		t.Errorf("Status; want: %v, got: %v", want, got)
	}
}

func TestConverter_Convert_skip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := &dictconv.Converter{BaseDir: dir}
	res, err := c.Convert(dictconv.NewJob("missing.csv"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if want, got := dictconv.Skipped, res.Status; want != got {
		t.Errorf("Status; want: %v, got: %v", want, got)
	}
	if res.Payload != nil {
		t.Errorf("Payload; want: nil, got: %s", res.Payload)
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written for skipped job: %v", err)
	}
}

func TestConverter_Convert_unreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "dir.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := &dictconv.Converter{BaseDir: dir}
	_, err := c.Convert(dictconv.NewJob("dir.csv"))
	if !errors.Is(err, dictconv.ErrConvert) {
		t.Fatalf("Convert error; want: %v, got: %v", dictconv.ErrConvert, err)
	}
}

func TestConverter_Convert_invalidJob(t *testing.T) {
	t.Parallel()

	c := &dictconv.Converter{BaseDir: t.TempDir()}
	job := dictconv.NewJob("a.csv")
	job.SrcColumn = -1

	_, err := c.Convert(job)
	if !errors.Is(err, dictconv.ErrJob) {
		t.Fatalf("Convert error; want: %v, got: %v", dictconv.ErrJob, err)
	}
}

func TestConverter_Convert_compressed(t *testing.T) {
	t.Parallel()

	data := []byte("X,Y,Z\n")
	want := `[{"first":"Z","second":"X","src":"L"}]`

	tests := []struct {
		name string
		file string
		data func(*testing.T) []byte
	}{
		{
			name: "gzip",
			file: "words.csv.gz",
			data: func(t *testing.T) []byte { return testutil.MakeGzip(t, data) },
		},
		{
			name: "dictzip",
			file: "words.csv.dz",
			data: func(t *testing.T) []byte { return testutil.MakeDictzip(t, data) },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.WriteFile(t, dir, test.file, test.data(t))

			c := &dictconv.Converter{BaseDir: dir}
			job := dictconv.NewJob(test.file)
			job.Label = "L"

			res, err := c.Convert(job)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if got := string(res.Payload); want != got {
				t.Fatalf("Payload; want: %s, got: %s", want, got)
			}
			if want, got := "words.json", job.OutputPath; want != got {
				t.Fatalf("OutputPath; want: %q, got: %q", want, got)
			}
		})
	}
}
