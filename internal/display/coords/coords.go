// Package coords provides the coordinate primitives shared by every
// stage of the display pipeline: points, clipping biases, and the
// row-range edits stages hand downstream after a sync.
package coords

import "fmt"

// Point represents a row and column position in some coordinate space
// (buffer, fold, tab, wrap, or block space). Both are 0-indexed.
// Column is measured in bytes from the start of the row.
type Point struct {
	Row    uint32
	Column uint32
}

// NewPoint creates a point at the given row and column.
func NewPoint(row, column uint32) Point {
	return Point{Row: row, Column: column}
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Row == 0 && p.Column == 0
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Row < other.Row {
		return -1
	}
	if p.Row > other.Row {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Add treats other as an extent and appends it to p. If the extent
// spans rows, the resulting column is the extent's final column;
// otherwise columns accumulate on p's row.
func (p Point) Add(other Point) Point {
	if other.Row > 0 {
		return Point{Row: p.Row + other.Row, Column: other.Column}
	}
	return Point{Row: p.Row, Column: p.Column + other.Column}
}

// Sub returns the extent from other to p. Requires other <= p.
func (p Point) Sub(other Point) Point {
	if p.Compare(other) < 0 {
		panic(fmt.Sprintf("coords: point %v precedes %v", p, other))
	}
	if p.Row == other.Row {
		return Point{Row: 0, Column: p.Column - other.Column}
	}
	return Point{Row: p.Row - other.Row, Column: p.Column}
}

// Min returns the smaller of the two points.
func (p Point) Min(other Point) Point {
	if p.Compare(other) <= 0 {
		return p
	}
	return other
}

// Max returns the larger of the two points.
func (p Point) Max(other Point) Point {
	if p.Compare(other) >= 0 {
		return p
	}
	return other
}

// Bias disambiguates positions that fall between two valid points,
// such as inside an expanded tab or a collapsed fold. Left resolves
// backward, Right forward.
type Bias uint8

const (
	// Left resolves an ambiguous position toward the start of the text.
	Left Bias = iota

	// Right resolves an ambiguous position toward the end of the text.
	Right
)

// String returns the bias name.
func (b Bias) String() string {
	if b == Left {
		return "left"
	}
	return "right"
}

// RowRange is a half-open range of rows [Start, End).
type RowRange struct {
	Start uint32
	End   uint32
}

// Len returns the number of rows in the range.
func (r RowRange) Len() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no rows.
func (r RowRange) IsEmpty() bool {
	return r.End <= r.Start
}

// String returns a human-readable representation of the range.
func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// RowEdit records that the rows Old in a stage's previous snapshot were
// replaced by the rows New in its current snapshot. Stages emit sorted,
// disjoint edit lists after every sync; downstream stages consume them
// to reuse the untouched parts of their own state.
type RowEdit struct {
	Old RowRange
	New RowRange
}

// String returns a human-readable representation of the edit.
func (e RowEdit) String() string {
	return fmt.Sprintf("{old: %v, new: %v}", e.Old, e.New)
}
