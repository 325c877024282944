package buffer

import (
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/engine/rope"
)

// Snapshot is a read-only view of a buffer at a specific revision. It
// never changes, even as the buffer it came from is edited.
type Snapshot struct {
	rope     rope.Rope
	revision RevisionID
}

// Revision returns the revision this snapshot was taken at.
func (s *Snapshot) Revision() RevisionID {
	return s.revision
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// Len returns the byte length of the snapshot.
func (s *Snapshot) Len() int {
	return s.rope.Len()
}

// LineCount returns the number of lines (newlines + 1).
func (s *Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// MaxPoint returns the position just past the last character.
func (s *Snapshot) MaxPoint() coords.Point {
	row := s.rope.Lines()
	return coords.Point{Row: row, Column: s.rope.LineLen(row)}
}

// LineLen returns the byte length of a line, excluding its newline.
func (s *Snapshot) LineLen(row uint32) uint32 {
	if row > s.rope.Lines() {
		return 0
	}
	return s.rope.LineLen(row)
}

// LineText returns the text of a line, excluding its newline.
func (s *Snapshot) LineText(row uint32) string {
	if row > s.rope.Lines() {
		return ""
	}
	return s.rope.LineText(row)
}

// TextRange returns the text between two points.
func (s *Snapshot) TextRange(start, end coords.Point) string {
	return s.rope.Slice(s.PointToOffset(start), s.PointToOffset(end))
}

// PointToOffset converts a point to a byte offset, clamping the column
// to the row's length.
func (s *Snapshot) PointToOffset(p coords.Point) int {
	return s.rope.PointToOffset(p.Row, p.Column)
}

// OffsetToPoint converts a byte offset to a point.
func (s *Snapshot) OffsetToPoint(offset int) coords.Point {
	row, col := s.rope.OffsetToPoint(offset)
	return coords.Point{Row: row, Column: col}
}

// ClipPoint clamps a point to a valid position in the snapshot.
func (s *Snapshot) ClipPoint(p coords.Point) coords.Point {
	maxRow := s.rope.Lines()
	if p.Row > maxRow {
		return s.MaxPoint()
	}
	if lineLen := s.rope.LineLen(p.Row); p.Column > lineLen {
		return coords.Point{Row: p.Row, Column: lineLen}
	}
	return p
}

// Chunks returns an iterator over the text between two points.
func (s *Snapshot) Chunks(start, end coords.Point) *rope.ChunkIter {
	return s.rope.Chunks(s.PointToOffset(start), s.PointToOffset(end))
}
