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
	"context"
	"io"

	"gitlab.com/tozd/go/errors"
)

// ErrNoMatch is returned by callers that require a rule to match.
var ErrNoMatch = errors.Base("pattern did not match")

// ReplacementRule defines a single pattern substitution
type ReplacementRule struct {
	// Name identifies the rule in results and logs
	Name string

	// Pattern is an RE2 regular expression locating the span to replace
	Pattern string

	// Replacement is copied verbatim over the matched span; it is never expanded
	Replacement string
}

// Match records where a rule matched. Offsets are byte offsets into the
// content as it was when the rule ran, so later rules see earlier edits.
type Match struct {
	Rule  string
	Start int
	End   int
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// Matches lists one entry per rule that matched, in rule order
	Matches []Match

	// Unmatched lists the names of rules that found nothing
	Unmatched []string

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies each rule once, in order, replacing only the first match
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
