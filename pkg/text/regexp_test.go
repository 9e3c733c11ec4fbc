package text

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexpReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		rules         []ReplacementRule
		want          string
		wantCount     int
		wantMatches   []Match
		wantUnmatched []string
		wantError     string
		wantModified  bool
	}{
		{
			name:    "simple_replacement",
			content: "Hello World",
			rules: []ReplacementRule{
				{Name: "world", Pattern: `World`, Replacement: "Universe"},
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantMatches:  []Match{{Rule: "world", Start: 6, End: 11}},
			wantModified: true,
		},
		{
			name:    "only_first_match_is_replaced",
			content: "Hello World World",
			rules: []ReplacementRule{
				{Name: "world", Pattern: `World`, Replacement: "Universe"},
			},
			want:         "Hello Universe World",
			wantCount:    1,
			wantMatches:  []Match{{Rule: "world", Start: 6, End: 11}},
			wantModified: true,
		},
		{
			name:    "non_greedy_span",
			content: "start a; end; b; end;",
			rules: []ReplacementRule{
				{Name: "span", Pattern: `start[\s\S]*?end;`, Replacement: "X;"},
			},
			want:         "X; b; end;",
			wantCount:    1,
			wantMatches:  []Match{{Rule: "span", Start: 0, End: 13}},
			wantModified: true,
		},
		{
			name:    "replacement_is_literal",
			content: "name = old",
			rules: []ReplacementRule{
				{Name: "tmpl", Pattern: `(old)`, Replacement: "`${filters.productCode}` $1 \\n"},
			},
			want:         "name = `${filters.productCode}` $1 \\n",
			wantCount:    1,
			wantMatches:  []Match{{Rule: "tmpl", Start: 7, End: 10}},
			wantModified: true,
		},
		{
			name:    "multiple_rules_run_in_order",
			content: "Hello World",
			rules: []ReplacementRule{
				{Name: "hello", Pattern: `Hello`, Replacement: "Hi"},
				{Name: "world", Pattern: `World`, Replacement: "Universe"},
			},
			want:      "Hi Universe",
			wantCount: 2,
			wantMatches: []Match{
				{Rule: "hello", Start: 0, End: 5},
				{Rule: "world", Start: 3, End: 8},
			},
			wantModified: true,
		},
		{
			name:    "no_match",
			content: "Hello World",
			rules: []ReplacementRule{
				{Name: "goodbye", Pattern: `Goodbye`, Replacement: "Hi"},
			},
			want:          "Hello World",
			wantUnmatched: []string{"goodbye"},
		},
		{
			name:    "match_with_identical_replacement",
			content: "Hello World",
			rules: []ReplacementRule{
				{Name: "same", Pattern: `World`, Replacement: "World"},
			},
			want:        "Hello World",
			wantCount:   1,
			wantMatches: []Match{{Rule: "same", Start: 6, End: 11}},
		},
		{
			name:    "empty_content",
			content: "",
			rules: []ReplacementRule{
				{Name: "world", Pattern: `World`, Replacement: "Universe"},
			},
			want:          "",
			wantUnmatched: []string{"world"},
		},
		{
			name:    "empty_rules",
			content: "Hello World",
			rules:   []ReplacementRule{},
			want:    "Hello World",
		},
		{
			name:    "invalid_pattern",
			content: "Hello World",
			rules: []ReplacementRule{
				{Name: "bad", Pattern: `(`, Replacement: "x"},
			},
			wantError: "rule 0: compiling pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewRegexpReplacer()
			result, err := replacer.ReplaceText(
				context.Background(),
				strings.NewReader(tt.content),
				tt.rules,
			)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantMatches, result.Matches)
			assert.Equal(t, tt.wantUnmatched, result.Unmatched)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestRegexpReplacer_ReplaceTextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRegexpReplacer().ReplaceText(ctx, strings.NewReader("abc"), []ReplacementRule{
		{Name: "a", Pattern: `a`, Replacement: "b"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegexpReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []ReplacementRule
		wantError string
	}{
		{
			name: "valid_rules",
			rules: []ReplacementRule{
				{Name: "a", Pattern: `foo\(\)`, Replacement: "bar"},
			},
		},
		{
			name: "missing_pattern",
			rules: []ReplacementRule{
				{Name: "a", Replacement: "bar"},
			},
			wantError: "pattern is required",
		},
		{
			name: "unsupported_syntax",
			rules: []ReplacementRule{
				{Name: "a", Pattern: `(?=lookahead)`},
			},
			wantError: "rule 0: compiling pattern",
		},
		{
			name:  "empty_rules",
			rules: []ReplacementRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegexpReplacer().ValidateRules(tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}
