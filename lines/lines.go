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

// Package lines splits decoded dictionary source text into logical lines.
//
// Line endings may be "\r\n", "\n" or a bare "\r", and may be mixed within
// the same text. Empty lines are never returned. Lines are otherwise
// returned as-is, without trimming.
package lines

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// maxLineSize is the largest line the Scanner accepts.
const maxLineSize = 16 * 1024 * 1024

// Options are options for splitting lines.
type Options struct {
	// CommentPrefixes are prefixes of lines that are skipped. No lines are
	// treated as comments if empty.
	CommentPrefixes []string
}

// DefaultOptions is the default options for a Scanner.
var DefaultOptions = &Options{}

// StrictOptions skips lines commented with '#' or '//'.
var StrictOptions = &Options{
	CommentPrefixes: []string{"#", "//"},
}

// Scanner scans logical lines from start to end.
type Scanner struct {
	s        *bufio.Scanner
	comments []string
}

// NewScanner returns a new Scanner reading from r.
func NewScanner(r io.Reader, options *Options) *Scanner {
	if options == nil {
		options = DefaultOptions
	}

	s := &Scanner{
		s:        bufio.NewScanner(r),
		comments: options.CommentPrefixes,
	}
	s.s.Buffer(nil, maxLineSize)
	s.s.Split(splitLines)
	return s
}

// Scan advances the scanner to the next line. It returns false if the scan
// stops either by reaching the end of the input or an error.
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		if len(s.s.Bytes()) == 0 || s.isComment(s.s.Text()) {
			continue
		}
		return true
	}
	return false
}

// Text returns the current line.
func (s *Scanner) Text() string {
	return s.s.Text()
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.s.Err()
}

func (s *Scanner) isComment(line string) bool {
	for _, p := range s.comments {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Split returns the logical lines of text. An error is only returned for
// lines that are too long.
func Split(text string, options *Options) ([]string, error) {
	var lines []string
	s := NewScanner(strings.NewReader(text), options)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("splitting lines: %w", err)
	}
	return lines, nil
}

// splitLines is a [bufio.SplitFunc] that splits on "\r\n", "\r" or "\n".
func splitLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// Found '\r'. We need one more byte to know if it is "\r\n".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// Request more data.
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}

	// Request more data.
	return 0, nil, nil
}
