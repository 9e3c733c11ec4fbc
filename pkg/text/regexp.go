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
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// RegexpReplacer implements TextReplacer with first-match regexp substitution
type RegexpReplacer struct{}

// NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for i, re := range compiled {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("replacing text: %w", err)
		}

		newContent, loc := ReplaceFirst(re, currentContent, rules[i].Replacement)
		if loc == nil {
			result.Unmatched = append(result.Unmatched, rules[i].Name)
			continue
		}

		result.ReplacementCount++
		result.Matches = append(result.Matches, Match{
			Rule:  rules[i].Name,
			Start: loc[0],
			End:   loc[1],
		})
		if newContent != currentContent {
			result.WasModified = true
		}

		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpReplacer) ValidateRules(rules []ReplacementRule) error {
	_, err := compileRules(rules)
	return err
}

// ReplaceFirst replaces the leftmost match of re in content with replacement,
// copied literally. It returns the match location, or nil when nothing matched
// and content is returned as is.
func ReplaceFirst(re *regexp.Regexp, content, replacement string) (string, []int) {
	loc := re.FindStringIndex(content)
	if loc == nil {
		return content, nil
	}
	return content[:loc[0]] + replacement + content[loc[1]:], loc
}

func compileRules(rules []ReplacementRule) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(rules))
	for i, rule := range rules {
		if rule.Pattern == "" {
			return nil, errors.Errorf("rule %d: pattern is required", i)
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, errors.Errorf("rule %d: compiling pattern: %w", i, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
