package lang

import "strconv"

// Interval is a half-open range [Min, Max) of byte offsets into source text.
type Interval struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// emptyInterval is the identity of [Interval.Union].
var emptyInterval = Interval{Min: -1, Max: -1}

// IsEmpty reports whether the interval covers no source position.
func (i Interval) IsEmpty() bool { return i.Min < 0 || i.Max < i.Min }

// Len returns the number of bytes covered by the interval.
func (i Interval) Len() int {
	if i.IsEmpty() {
		return 0
	}

	return i.Max - i.Min
}

// Union returns the smallest interval enclosing both i and other.
func (i Interval) Union(other Interval) Interval {
	switch {
	case i.IsEmpty():
		return other
	case other.IsEmpty():
		return i
	}

	return Interval{Min: min(i.Min, other.Min), Max: max(i.Max, other.Max)}
}

// Contains reports whether pos lies within the interval.
// The upper bound is inclusive so that a caret placed immediately after the
// last character still selects it.
func (i Interval) Contains(pos int) bool {
	return !i.IsEmpty() && i.Min <= pos && pos <= i.Max
}

// Text returns the slice of source covered by the interval.
func (i Interval) Text(source string) string {
	if i.IsEmpty() || i.Min > len(source) {
		return ""
	}

	return source[i.Min:min(i.Max, len(source))]
}

// Position converts the start of the interval into a 1-based line and column
// within source. Columns count bytes.
func (i Interval) Position(source string) (line, col int) {
	line, col = 1, 1

	end := min(max(i.Min, 0), len(source))

	for k := range end {
		if source[k] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}

func (i Interval) String() string {
	return "[" + strconv.Itoa(i.Min) + "," + strconv.Itoa(i.Max) + ")"
}
