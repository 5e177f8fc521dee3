package edit

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "sph", 3, "sph", 0, 3},
		{"operand", "box { sph", 9, "sph", 6, 9},
		{"after_brace", "diff{box}", 5, "box", 5, 8},
		{"param_name", "box(x=1,y", 9, "y", 8, 9},
		{"after_equals", "box(x=", 6, "", 6, 6},
		{"next_line", "a\nbo", 4, "bo", 2, 4},
		{"mid_word", "sphere", 3, "sphere", 0, 6},
		{"at_start", "box", 0, "box", 0, 3},
		{"cursor_past_end", "box", 10, "box", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      []string
	}{
		{"top_level", "sph", 0, kindNames},
		{"operand", "box { sp", 6, kindNames},
		{"after_call", "box(x=1) sp", 9, kindNames},
		{"param_name", "box(", 4, []string{"x", "y", "z"}},
		{"second_param", "cylinder(h=1, ", 14, []string{"h", "d"}},
		{"param_value", "box(x=1", 6, nil},
		{"unknown_function", "foo(a", 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidates(tt.input, tt.wordStart)
			if !slices.Equal(got, tt.want) {
				t.Errorf("candidates(%q, %d) = %v, want %v",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestKindNames(t *testing.T) {
	if !slices.IsSorted(kindNames) {
		t.Errorf("kindNames not sorted: %v", kindNames)
	}

	for _, name := range []string{"box", "sphere", "cylinder", "union", "diff"} {
		if !slices.Contains(kindNames, name) {
			t.Errorf("kindNames missing %q", name)
		}
	}

	if slices.Contains(kindNames, "group") {
		t.Errorf("kindNames contains group")
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantFirst string
		wantStart int
		wantEnd   int
	}{
		{"prefix", "sph", 3, "sphere", 0, 3},
		{"operand", "box { cyl", 9, "cylinder", 6, 9},
		{"empty_word", "box ", 4, "", 4, 4},
		{"complete_word", "sphere", 6, "", 0, 6},
		{"no_candidates", "box(x=1", 7, "", 6, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, start, end := computeMatches(tt.input, tt.cursor)

			var first string
			if len(matches) > 0 {
				first = matches[0].Str
			}

			if first != tt.wantFirst || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("computeMatches(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, first, start, end,
					tt.wantFirst, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("r", kindNames)
	if len(matches) < 3 {
		t.Fatalf("expected several matches for %q, got %d", "r", len(matches))
	}

	wide := renderCandidateBar(matches, 0, false, 200)
	for _, m := range matches {
		if !strings.Contains(wide, m.Str) {
			t.Errorf("wide bar missing %q: %q", m.Str, wide)
		}
	}

	narrow := renderCandidateBar(matches, 0, true, 20)
	if !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar not ellipsized: %q", narrow)
	}

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("empty bar = %q", got)
	}
}
