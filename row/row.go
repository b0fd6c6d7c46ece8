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

// Package row maps delimited source lines to bilingual dictionary records.
package row

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDirection indicates an unknown direction name.
var ErrDirection = errors.New("invalid direction")

// Record is a single translation pair.
type Record struct {
	// First is the text in the first language.
	First string

	// Second is the text in the second language.
	Second string

	// Source is the provenance label of the record.
	Source string
}

// Empty returns true if both languages are empty.
func (r Record) Empty() bool {
	return r.First == "" && r.Second == ""
}

// Direction is the order of the languages in a source row.
type Direction int

const (
	// SecondToFirst rows hold the second language in the source column and
	// the first language in the destination column.
	SecondToFirst Direction = iota

	// FirstToSecond rows hold the first language in the source column and
	// the second language in the destination column.
	FirstToSecond
)

// DefaultDirection is the direction used when none is configured.
const DefaultDirection = SecondToFirst

// String implements [fmt.Stringer].
func (d Direction) String() string {
	switch d {
	case FirstToSecond:
		return "firstToSecond"
	case SecondToFirst:
		return "secondToFirst"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name. Accepted names are
// "firstToSecond", "first2second", "secondToFirst" and "second2first" as
// well as "<first>2<second>" and "<second>2<first>" built from the given
// language names, e.g. "uk2ja" and "ja2uk" for "uk" and "ja". Names are
// case-insensitive.
//
// The names "uk2ja" and "ja2uk" are also accepted for word lists that
// predate configurable field names, where "uk" is the first language and
// "ja" the second. Names built from the given field names take precedence.
func ParseDirection(name, first, second string) (Direction, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "firsttosecond", "first2second":
		return FirstToSecond, nil
	case "secondtofirst", "second2first":
		return SecondToFirst, nil
	}
	if first != "" && second != "" {
		switch n {
		case strings.ToLower(first + "2" + second):
			return FirstToSecond, nil
		case strings.ToLower(second + "2" + first):
			return SecondToFirst, nil
		}
	}
	switch n {
	case "uk2ja":
		return FirstToSecond, nil
	case "ja2uk":
		return SecondToFirst, nil
	}
	return DefaultDirection, fmt.Errorf("%w: %q", ErrDirection, name)
}
