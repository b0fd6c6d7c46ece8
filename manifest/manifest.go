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

// Package manifest implements the dataset manifest.
//
// The manifest lists every dataset processed in a run along with a content
// version. The version is the first 12 hex characters of the SHA-1 digest of
// the dataset bytes, so unchanged datasets keep their version across runs.
// Datasets without content have the version [NoVersion].
//
// A manifest is built from scratch on each run and replaces the previous
// manifest file. It is not merged with it.
package manifest

import (
	"bytes"
	//nolint:gosec // SHA-1 is used for content versions, not security.
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ianlewis/go-dictconv/internal/atomicfile"
)

// DefaultPath is the default manifest file name.
const DefaultPath = "datasets-manifest.json"

// NoVersion is the version of a dataset without content.
const NoVersion = "none"

// versionLen is the number of hex characters in a version.
const versionLen = 12

// Entry is a single dataset in the manifest.
type Entry struct {
	// Path is the path of the dataset.
	Path string `json:"path"`

	// Source is the path of the dataset's source file.
	Source string `json:"source"`

	// Label is the provenance label of the dataset's records.
	Label string `json:"label"`

	// Version is the content version of the dataset.
	Version string `json:"version"`
}

// Manifest lists the datasets of a run.
type Manifest struct {
	Datasets []*Entry `json:"datasets"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{
		Datasets: []*Entry{},
	}
}

// Version returns the content version of payload, or NoVersion if payload
// is nil.
func Version(payload []byte) string {
	if payload == nil {
		return NoVersion
	}
	//nolint:gosec // SHA-1 is used for content versions, not security.
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])[:versionLen]
}

// Add appends an entry for the dataset and returns it.
func (m *Manifest) Add(path, source, label string, payload []byte) *Entry {
	e := &Entry{
		Path:    path,
		Source:  source,
		Label:   label,
		Version: Version(payload),
	}
	m.Datasets = append(m.Datasets, e)
	return e
}

// Marshal returns the manifest as indented JSON terminated by a newline.
func (m *Manifest) Marshal() ([]byte, error) {
	datasets := m.Datasets
	if datasets == nil {
		datasets = []*Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&Manifest{Datasets: datasets}); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the manifest to path, replacing any existing file.
func (m *Manifest) WriteFile(path string) error {
	b, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadFile reads a manifest from path.
func ReadFile(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %q: %w", path, err)
	}
	if m.Datasets == nil {
		m.Datasets = []*Entry{}
	}
	return &m, nil
}
