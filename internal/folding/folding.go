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

// Package folding implements folding of dictionary record fields.
package folding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrMode indicates an unknown folding mode.
var ErrMode = errors.New("unknown fold mode")

// Mode is a folding mode name.
type Mode string

const (
	// Trim removes leading and trailing whitespace.
	Trim Mode = "trim"

	// Space trims and collapses internal whitespace to a single space.
	Space Mode = "space"

	// NFC normalizes to Unicode Normalization Form C.
	NFC Mode = "nfc"

	// NFKC normalizes to Unicode Normalization Form KC.
	NFKC Mode = "nfkc"

	// Width folds full-width and half-width variants to their canonical
	// width, e.g. full-width Latin to ASCII and half-width katakana to
	// full-width.
	Width Mode = "width"
)

// Modes returns all supported modes.
func Modes() []Mode {
	return []Mode{Trim, Space, NFC, NFKC, Width}
}

func transformer(m Mode) (func() transform.Transformer, error) {
	switch m {
	case Space:
		return func() transform.Transformer { return &WhitespaceFolder{} }, nil
	case NFC:
		return func() transform.Transformer { return norm.NFC }, nil
	case NFKC:
		return func() transform.Transformer { return norm.NFKC }, nil
	case Width:
		return func() transform.Transformer { return width.Fold }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrMode, m)
	}
}

// New returns a function that applies the given modes in order. New returns
// nil if no modes are given.
func New(modes ...Mode) (func(string) string, error) {
	var steps []func(string) string
	for _, m := range modes {
		m = Mode(strings.ToLower(strings.TrimSpace(string(m))))
		if m == Trim {
			steps = append(steps, strings.TrimSpace)
			continue
		}

		newTransformer, err := transformer(m)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(s string) string {
			out, _, err := transform.String(newTransformer(), s)
			if err != nil {
				// Keep the input unchanged if folding fails.
				return s
			}
			return out
		})
	}

	if len(steps) == 0 {
		return nil, nil
	}

	return func(s string) string {
		for _, step := range steps {
			s = step(s)
		}
		return s
	}, nil
}

// ParseModes parses mode names.
func ParseModes(names []string) ([]Mode, error) {
	modes := make([]Mode, 0, len(names))
	for _, n := range names {
		m := Mode(strings.ToLower(strings.TrimSpace(n)))
		if m != Trim {
			if _, err := transformer(m); err != nil {
				return nil, err
			}
		}
		modes = append(modes, m)
	}
	return modes, nil
}
