package edit

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/sdfc/lang"
)

// kindNames lists every recognized geometry function name.
var kindNames = slices.Sorted(lang.Kinds())

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace and the punctuation of the source language.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r',
		'(', ')', '{', '}',
		'+', '-', '*', '/',
		'=', ',':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the names that may complete the word starting at
// wordStart: parameter names when the word names an argument of a known
// geometry function, nothing when it is part of an argument value, and
// geometry function names otherwise.
func candidates(input string, wordStart int) []string {
	call := detectCall(input, wordStart)
	if !call.inCall {
		return kindNames
	}

	if call.inValue {
		return nil
	}

	schema, ok := schemaOf(call.name)
	if !ok {
		return nil
	}

	names := make([]string, len(schema.Params))
	for i, p := range schema.Params {
		names[i] = p.Name
	}

	return names
}

// computeMatches ranks the candidates for the word at cursor, best first.
// An empty word has no matches so the hint line stays visible.
func computeMatches(input string, cursor int) (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, wordStart, wordEnd
	}

	names := candidates(input, wordStart)
	if len(names) == 0 {
		return nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, names)

	// A word that already spells the only candidate needs no completion.
	if len(matches) == 1 && matches[0].Str == word {
		return nil, wordStart, wordEnd
	}

	return matches, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := suggestionMatchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
