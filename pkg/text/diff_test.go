package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineDiff(t *testing.T) {
	t.Run("equal_content", func(t *testing.T) {
		assert.Empty(t, LineDiff("a.js", "same\n", "same\n"))
	})

	t.Run("long_unchanged_runs_are_collapsed", func(t *testing.T) {
		var lines []string
		for i := 0; i < 20; i++ {
			lines = append(lines, "line")
		}
		before := strings.Join(lines, "\n") + "\n"
		after := strings.Replace(before, "line\n", "first\n", 1)

		got := LineDiff("a.js", before, after)
		assert.Equal(t, "--- a/a.js\n+++ b/a.js\n@@ -1,4 +1,4 @@\n-line\n+first\n line\n line\n line\n", got)
	})

	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "change_on_first_line_gets_a_header",
			before: "a\nb\n",
			after:  "x\nb\n",
			want:   "--- a/f.js\n+++ b/f.js\n@@ -1,2 +1,2 @@\n-a\n+x\n b\n",
		},
		{
			name:   "insert_into_empty",
			before: "",
			after:  "a\n",
			want:   "--- a/f.js\n+++ b/f.js\n@@ -0,0 +1,1 @@\n+a\n",
		},
		{
			name:   "distant_changes_get_separate_hunks",
			before: "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n",
			after:  "one\n2\n3\n4\n5\n6\n7\n8\n9\nten\n",
			want: "--- a/f.js\n+++ b/f.js\n" +
				"@@ -1,4 +1,4 @@\n-1\n+one\n 2\n 3\n 4\n" +
				"@@ -7,4 +7,4 @@\n 7\n 8\n 9\n-10\n+ten\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineDiff("f.js", tt.before, tt.after))
		})
	}
}
