// Package pos defines byte offsets and spans over source text, and the
// conversion between byte offsets and editor-style line/column locations.
package pos

import "fmt"

// BytePos is a 0-based byte offset into a source text.
type BytePos int

// Span is a half-open byte range [Start, End) covering a node's source extent.
type Span struct {
	Start BytePos
	End   BytePos
}

// NewSpan returns the span [start, end).
func NewSpan(start, end BytePos) Span {
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return int(s.End - s.Start) }

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool { return s.End <= s.Start }

// Contains reports whether p lies inside the span, treating both boundaries
// as inside. A cursor placed directly after the last character of a token
// still refers to that token.
func (s Span) Contains(p BytePos) bool {
	return s.Start <= p && p <= s.End
}

// Owns reports whether the byte at p belongs to the span, i.e. Start <= p < End.
func (s Span) Owns(p BytePos) bool {
	return s.Start <= p && p < s.End
}

// ContainsSpan reports whether other lies entirely within s.
func (s Span) ContainsSpan(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Before reports whether s ends at or before other starts.
func (s Span) Before(other Span) bool {
	return s.End <= other.Start
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Text returns the slice of src covered by the span, clamped to src.
func (s Span) Text(src string) string {
	start, end := int(s.Start), int(s.End)
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start >= end {
		return ""
	}
	return src[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
