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

// Package textenc detects the text encoding of dictionary source files and
// decodes them to UTF-8.
//
// Detection is an ordered list of strategies. Each strategy either decodes
// the input strictly or reports failure, and the first success wins:
//  1. UTF-16LE when the input starts with the little-endian byte order mark.
//  2. UTF-16BE when the input starts with the big-endian byte order mark.
//  3. UTF-8 when the input starts with the UTF-8 byte order mark. The mark is
//     removed.
//  4. UTF-8 when the input is valid UTF-8.
//  5. Shift-JIS when the input decodes without invalid sequences.
//  6. Latin-1 (ISO 8859-1), which maps every byte.
//
// If no strategy succeeds the input is decoded as UTF-8 with invalid
// sequences replaced and the encoding is marked as approximate.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the label of a detected encoding.
type Encoding string

const (
	// UTF16LE is UTF-16 little-endian with a byte order mark.
	UTF16LE Encoding = "utf-16le"

	// UTF16BE is UTF-16 big-endian with a byte order mark.
	UTF16BE Encoding = "utf-16be"

	// LossyUTF16LE is UTF-16 little-endian with a byte order mark where
	// invalid code units were replaced.
	LossyUTF16LE Encoding = "utf-16le*"

	// LossyUTF16BE is UTF-16 big-endian with a byte order mark where
	// invalid code units were replaced.
	LossyUTF16BE Encoding = "utf-16be*"

	// UTF8BOM is UTF-8 with a byte order mark.
	UTF8BOM Encoding = "utf-8-sig"

	// UTF8 is UTF-8 without a byte order mark.
	UTF8 Encoding = "utf-8"

	// ShiftJIS is the Shift-JIS family of Japanese encodings.
	ShiftJIS Encoding = "shift_jis"

	// Latin1 is ISO 8859-1.
	Latin1 Encoding = "latin-1"

	// LossyUTF8 is UTF-8 with invalid sequences replaced.
	LossyUTF8 Encoding = "utf-8*"
)

// Approximate returns true if the text was not decoded strictly.
func (e Encoding) Approximate() bool {
	return strings.HasSuffix(string(e), "*")
}

// String implements [fmt.Stringer].
func (e Encoding) String() string {
	return string(e)
}

var (
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// Strategy is a single decoding attempt.
type Strategy struct {
	// Encoding is the label reported when the strategy succeeds.
	Encoding Encoding

	// Decode returns the decoded text and true, or false if the input
	// cannot be decoded by this strategy.
	Decode func([]byte) (string, bool)
}

// Decoder tries its strategies in order.
type Decoder struct {
	Strategies []Strategy
}

// DefaultStrategies returns the default ordered decoding strategies.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Encoding: UTF16LE,
			Decode:   withBOM(bomUTF16LE, utf16LE, false),
		},
		{
			Encoding: UTF16BE,
			Decode:   withBOM(bomUTF16BE, utf16BE, false),
		},
		{
			Encoding: LossyUTF16LE,
			Decode:   withBOM(bomUTF16LE, utf16LE, true),
		},
		{
			Encoding: LossyUTF16BE,
			Decode:   withBOM(bomUTF16BE, utf16BE, true),
		},
		{
			Encoding: UTF8BOM,
			Decode: func(b []byte) (string, bool) {
				if !bytes.HasPrefix(b, bomUTF8) {
					return "", false
				}
				return decodeUTF8(b[len(bomUTF8):])
			},
		},
		{
			Encoding: UTF8,
			Decode:   decodeUTF8,
		},
		{
			Encoding: ShiftJIS,
			Decode:   strict(japanese.ShiftJIS),
		},
		{
			Encoding: Latin1,
			Decode:   strict(charmap.ISO8859_1),
		},
	}
}

// DefaultDecoder is the decoder used by [Decode].
var DefaultDecoder = &Decoder{
	Strategies: DefaultStrategies(),
}

// Decode decodes b using the default strategies.
func Decode(b []byte) (string, Encoding) {
	return DefaultDecoder.Decode(b)
}

// Decode returns the text of b and the encoding used to decode it. Decode
// always returns text. When no strategy succeeds the text is lossy UTF-8
// and the returned encoding is [LossyUTF8].
func (d *Decoder) Decode(b []byte) (string, Encoding) {
	for _, s := range d.Strategies {
		if text, ok := s.Decode(b); ok {
			return text, s.Encoding
		}
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError)), LossyUTF8
}

func decodeUTF8(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// withBOM decodes input starting with bom with enc. The mark itself is
// removed from the text. Unless lossy is set, decoding fails if the decoder
// substituted the replacement rune for invalid input, e.g. an odd trailing
// byte or an unpaired surrogate. An encoded U+FFFD in the source is
// indistinguishable from a substitution and also fails.
func withBOM(bom []byte, enc encoding.Encoding, lossy bool) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		if !bytes.HasPrefix(b, bom) {
			return "", false
		}
		out, err := enc.NewDecoder().Bytes(b[len(bom):])
		if err != nil {
			return "", false
		}
		if !lossy && bytes.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}
}

// strict decodes with enc and fails if the decoder substituted any invalid
// input with the replacement rune.
func strict(enc encoding.Encoding) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			return "", false
		}
		// The replacement rune cannot be represented in legacy encodings so
		// its presence always means a decoding error.
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}
}
