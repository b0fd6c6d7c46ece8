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

// Package dictconv converts tabular bilingual dictionary sources into JSON
// record datasets.
//
// A conversion job reads one source file and writes one dataset:
//  1. The source bytes are decoded to text. The encoding is detected by the
//     textenc package. Sources ending in .gz or .dz (dictzip) are
//     decompressed first.
//  2. The text is split into logical lines by the lines package.
//  3. Each line is split on its delimiter, tab if the line contains one and
//     comma otherwise, and two columns are mapped to the first and second
//     language of a record by the row package.
//  4. The records are written as a compact JSON array, e.g.
//     [{"first":"a","second":"b","src":"label"}].
//
// If the source file does not exist but the dataset does, the existing
// dataset is reused unchanged. The manifest package records a content
// version for each dataset.
package dictconv
