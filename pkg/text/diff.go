// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines surround each change in a diff
const contextLines = 3

type diffLine struct {
	kind byte // ' ', '-' or '+'
	text string
}

// LineDiff renders a unified line diff between before and after, labelled
// with path. It returns an empty string when the two are equal.
func LineDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var lines []diffLine
	for _, d := range diffs {
		kind := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = '-'
		case diffmatchpatch.DiffInsert:
			kind = '+'
		}
		for _, line := range splitLines(d.Text) {
			lines = append(lines, diffLine{kind: kind, text: strings.TrimSuffix(line, "\n")})
		}
	}

	// line numbers each entry sits at in the old and new text
	oldAt := make([]int, len(lines))
	newAt := make([]int, len(lines))
	oldNo, newNo := 1, 1
	for i, l := range lines {
		oldAt[i], newAt[i] = oldNo, newNo
		if l.kind != '+' {
			oldNo++
		}
		if l.kind != '-' {
			newNo++
		}
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "--- a/%s\n", path)
	fmt.Fprintf(&buf, "+++ b/%s\n", path)

	for _, h := range hunks(lines) {
		oldCount, newCount := 0, 0
		for _, l := range lines[h[0]:h[1]] {
			if l.kind != '+' {
				oldCount++
			}
			if l.kind != '-' {
				newCount++
			}
		}

		oldStart, newStart := oldAt[h[0]], newAt[h[0]]
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}

		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for _, l := range lines[h[0]:h[1]] {
			buf.WriteByte(l.kind)
			buf.WriteString(l.text)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// hunks returns [start, end) ranges of lines around each change, merging
// ranges whose context overlaps
func hunks(lines []diffLine) [][2]int {
	var out [][2]int
	for i, l := range lines {
		if l.kind == ' ' {
			continue
		}
		lo := max(i-contextLines, 0)
		hi := min(i+contextLines+1, len(lines))
		if n := len(out); n > 0 && lo <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], hi)
			continue
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

func splitLines(s string) []string {
	parts := strings.SplitAfter(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
