// Package ranges accumulates deletion and replacement ranges over a source
// string and applies them in a single pass.
package ranges

import (
	"sort"
	"strings"
)

// Range is a half-open interval [Start, End) of byte offsets in the original
// string, to be replaced by Replacement. An empty Replacement deletes.
type Range struct {
	Start       int
	End         int
	Replacement string
}

// Len returns the number of source bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Touches reports whether two ranges overlap or abut. Ranges are half-open,
// so [0, 5) and [5, 10) do not intersect but do touch and get merged.
//
// Examples:
//   - [0, 5) and [3, 7) -> true (overlap from 3 to 5)
//   - [0, 5) and [5, 10) -> true (shared boundary)
//   - [0, 5) and [6, 10) -> false
func Touches(a, b Range) bool {
	return a.Start <= b.End && b.Start <= a.End
}

// Set is the normalized list of ranges: sorted ascending by Start, mutually
// non-overlapping and with no two ranges sharing a boundary.
type Set struct {
	list []Range
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Push adds the range [start, end) with the given replacement and
// re-normalizes the list. Negative or inverted bounds are clamped. A range
// that deletes nothing and inserts nothing is ignored.
func (s *Set) Push(start, end int, replacement string) {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	if start == end && replacement == "" {
		return
	}
	r := Range{Start: start, End: end, Replacement: replacement}

	// first index whose Start is greater than the new range's Start, so
	// equal starts keep arrival order
	i := sort.Search(len(s.list), func(i int) bool { return s.list[i].Start > r.Start })
	s.list = append(s.list, Range{})
	copy(s.list[i+1:], s.list[i:])
	s.list[i] = r

	// merge backward while the predecessor touches, then forward while the
	// successor does; every merge shrinks the list, so this terminates
	for i > 0 && Touches(s.list[i-1], s.list[i]) {
		s.list[i-1] = merge(s.list[i-1], s.list[i])
		s.list = append(s.list[:i], s.list[i+1:]...)
		i--
	}
	for i+1 < len(s.list) && Touches(s.list[i], s.list[i+1]) {
		s.list[i] = merge(s.list[i], s.list[i+1])
		s.list = append(s.list[:i+1], s.list[i+2:]...)
	}
}

// merge joins two touching ranges where a starts no later than b.
func merge(a, b Range) Range {
	return Range{
		Start:       a.Start,
		End:         max(a.End, b.End),
		Replacement: a.Replacement + b.Replacement,
	}
}

// Ranges returns a copy of the normalized list.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of ranges in the normalized list.
func (s *Set) Len() int {
	return len(s.list)
}

// Apply builds the result of replacing every range in src. Ranges reaching
// past the end of src are clamped to it.
func (s *Set) Apply(src string) string {
	if len(s.list) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, r := range s.list {
		start, end := min(r.Start, len(src)), min(r.End, len(src))
		if start < last {
			start = last
		}
		b.WriteString(src[last:start])
		b.WriteString(r.Replacement)
		last = max(end, start)
	}
	b.WriteString(src[last:])
	return b.String()
}
