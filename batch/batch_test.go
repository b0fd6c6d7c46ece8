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

package batch

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
	"github.com/ianlewis/go-dictconv/manifest"
	"github.com/ianlewis/go-dictconv/textenc"
)

func newRunner(dir string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Runner{
		Converter:    &dictconv.Converter{BaseDir: dir},
		ManifestPath: manifest.DefaultPath,
		Out:          &out,
		Err:          &errOut,
	}, &out, &errOut
}

func TestRunner_Run_partialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "one.csv", []byte("a,,b\n"))
	// A directory cannot be read as a source.
	if err := os.Mkdir(filepath.Join(dir, "two.csv"), 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteFile(t, dir, "three.csv", []byte("c,,d\ne,,f\n"))

	r, out, errOut := newRunner(dir)
	s, err := r.Run([]*dictconv.Job{
		dictconv.NewJob("one.csv"),
		dictconv.NewJob("two.csv"),
		dictconv.NewJob("three.csv"),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want, got := 1, s.Failed; want != got {
		t.Errorf("Failed; want: %d, got: %d", want, got)
	}
	if want, got := 3, s.Rows; want != got {
		t.Errorf("Rows; want: %d, got: %d", want, got)
	}
	if !errors.Is(s.Err(), ErrJobsFailed) {
		t.Errorf("Err; want: %v, got: %v", ErrJobsFailed, s.Err())
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.DefaultPath))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var paths []string
	for _, e := range m.Datasets {
		paths = append(paths, e.Path)
	}
	if diff := cmp.Diff([]string{"one.json", "three.json"}, paths); diff != "" {
		t.Errorf("manifest paths (-want, +got):\n%s", diff)
	}

	// Valid output is written despite the failure.
	if want, got := `[{"first":"b","second":"a","src":"one.csv"}]`, string(testutil.ReadFile(t, filepath.Join(dir, "one.json"))); want != got {
		t.Errorf("one.json; want: %s, got: %s", want, got)
	}
	if _, err := os.Stat(filepath.Join(dir, "three.json")); err != nil {
		t.Errorf("three.json: %v", err)
	}

	if !strings.Contains(errOut.String(), "error: two.csv:") {
		t.Errorf("error output missing job failure: %q", errOut.String())
	}
	if !strings.Contains(out.String(), "done: 3 rows, 2 converted, 0 reused, 0 skipped, 1 failed\n") {
		t.Errorf("summary missing: %q", out.String())
	}
}

func TestRunner_Run_idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "words.csv", []byte("りんご,,яблуко\r\nみかん,,мандарин\r\n"))

	var versions []string
	for range [2]struct{}{} {
		r, _, _ := newRunner(dir)
		s, err := r.Run([]*dictconv.Job{dictconv.NewJob("words.csv")}, nil)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if err := s.Err(); err != nil {
			t.Fatalf("Err: %v", err)
		}
		versions = append(versions, s.Manifest.Datasets[0].Version)
	}

	if versions[0] != versions[1] {
		t.Fatalf("versions differ: %q != %q", versions[0], versions[1])
	}
	if versions[0] == manifest.NoVersion {
		t.Fatalf("version; got: %q", versions[0])
	}
}

func TestRunner_Run_reuseAndSkip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := []byte(`[{"first":"a","second":"b","src":"L"}]`)
	testutil.WriteFile(t, dir, "old.json", existing)

	r, out, _ := newRunner(dir)
	s, err := r.Run([]*dictconv.Job{
		dictconv.NewJob("old.csv"),
		dictconv.NewJob("missing.csv"),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	want := []*manifest.Entry{
		{
			Path:    "old.json",
			Source:  "old.csv",
			Label:   "old.csv",
			Version: manifest.Version(existing),
		},
		{
			Path:    "missing.json",
			Source:  "missing.csv",
			Label:   "missing.csv",
			Version: manifest.NoVersion,
		},
	}
	if diff := cmp.Diff(want, s.Manifest.Datasets); diff != "" {
		t.Errorf("manifest (-want, +got):\n%s", diff)
	}
	if want, got := 0, s.Rows; want != got {
		t.Errorf("Rows; want: %d, got: %d", want, got)
	}
	if want, got := 1, s.Reused; want != got {
		t.Errorf("Reused; want: %d, got: %d", want, got)
	}
	if want, got := 1, s.Skipped; want != got {
		t.Errorf("Skipped; want: %d, got: %d", want, got)
	}
	for _, line := range []string{
		"reuse: old.json (source old.csv not found)\n",
		"skip: missing.csv (no source or output)\n",
	} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("output missing %q: %q", line, out.String())
		}
	}
}

func TestRunner_Run_jobErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, _, errOut := newRunner(dir)
	s, err := r.Run(nil, []error{errors.New("files[0]: bad entry")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want, got := 1, s.Failed; want != got {
		t.Fatalf("Failed; want: %d, got: %d", want, got)
	}
	if !strings.Contains(errOut.String(), "error: files[0]: bad entry\n") {
		t.Errorf("error output: %q", errOut.String())
	}

	// The manifest is still written.
	m, err := manifest.ReadFile(filepath.Join(dir, manifest.DefaultPath))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want, got := 0, len(m.Datasets); want != got {
		t.Fatalf("datasets; want: %d, got: %d", want, got)
	}
}

func TestRunner_Run_lossyWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "bad.csv", []byte("ok,,\xFF\n"))

	r, _, errOut := newRunner(dir)
	r.Converter.Decoder = &textenc.Decoder{
		Strategies: []textenc.Strategy{},
	}
	s, err := r.Run([]*dictconv.Job{dictconv.NewJob("bad.csv")}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Lossy decoding is not a failure.
	if err := s.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if !strings.Contains(errOut.String(), "warning: bad.csv:") {
		t.Errorf("warning missing: %q", errOut.String())
	}
}

func TestRunner_Run_lossyUTF16Warning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// UTF-16LE "a,,b" followed by an odd trailing byte.
	testutil.WriteFile(t, dir, "odd.csv", []byte{0xFF, 0xFE, 'a', 0, ',', 0, ',', 0, 'b', 0, 'c'})

	r, out, errOut := newRunner(dir)
	if _, err := r.Run([]*dictconv.Job{dictconv.NewJob("odd.csv")}, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "(utf-16le*, 1 rows)") {
		t.Errorf("output: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "warning: odd.csv: decoded as utf-16le*") {
		t.Errorf("warning missing: %q", errOut.String())
	}
}

func TestRunner_Run_manifestError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "file", nil)

	r, _, _ := newRunner(dir)
	r.ManifestPath = "file/manifest.json"
	if _, err := r.Run(nil, nil); err == nil {
		t.Fatal("Run: expected failure")
	}
}
