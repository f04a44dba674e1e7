package rcfile

import "fmt"

// Span is a half-open byte interval [Start, End) into the source passed to
// Parse.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

// Contains reports whether offset lies inside the span. The end offset is
// excluded.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Slice returns the raw source text covered by the span. Out of range
// offsets are clamped.
func (s Span) Slice(source string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return source[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Spanned pairs a decoded value with the span it was decoded from.
type Spanned[T any] struct {
	Value T
	Span  Span
}

func spanned[T any](v T, start, end int) *Spanned[T] {
	return &Spanned[T]{Value: v, Span: Span{Start: start, End: end}}
}
