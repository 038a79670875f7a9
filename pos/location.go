package pos

import (
	"fmt"
	"sort"
)

// Location is an editor-style position. Line and Column are 0-based and
// Column counts bytes from the start of the line.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// LineIndex converts between byte offsets and line/column locations for one
// source text. It is immutable after construction and safe for concurrent use.
type LineIndex struct {
	starts []BytePos // byte offset at which each line begins
	size   BytePos
}

// NewLineIndex scans src once and records where every line starts.
func NewLineIndex(src string) *LineIndex {
	starts := []BytePos{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, BytePos(i+1))
		}
	}
	return &LineIndex{starts: starts, size: BytePos(len(src))}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (x *LineIndex) LineCount() int { return len(x.starts) }

// Offset converts a line/column location to a byte offset.
// The column may address the position just past the end of the line.
func (x *LineIndex) Offset(line, column int) (BytePos, error) {
	if line < 0 || line >= len(x.starts) {
		return 0, fmt.Errorf("line %d out of range [0, %d)", line, len(x.starts))
	}
	if column < 0 {
		return 0, fmt.Errorf("column %d is negative", column)
	}
	end := x.size
	if line+1 < len(x.starts) {
		end = x.starts[line+1] - 1 // exclude the newline
	}
	off := x.starts[line] + BytePos(column)
	if off > end {
		return 0, fmt.Errorf("column %d out of range for line %d (length %d)", column, line, end-x.starts[line])
	}
	return off, nil
}

// Location converts a byte offset to a line/column location.
func (x *LineIndex) Location(p BytePos) (Location, error) {
	if p < 0 || p > x.size {
		return Location{}, fmt.Errorf("offset %d out of range [0, %d]", p, x.size)
	}
	// The line containing p is the last line starting at or before p.
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > p }) - 1
	return Location{Line: line, Column: int(p - x.starts[line])}, nil
}
