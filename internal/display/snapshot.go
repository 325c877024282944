package display

import (
	"strings"

	"github.com/00676/displaymap/internal/display/block"
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/style"
)

// Snapshot is an immutable view of the fully transformed display.
// Rows and points are in display coordinates: folds collapsed, tabs
// expanded, soft wraps applied, and block rows interleaved.
type Snapshot struct {
	block *block.Snapshot
}

// RowCount returns the number of display rows.
func (s *Snapshot) RowCount() uint32 {
	return s.block.RowCount()
}

// MaxPoint returns the position just past the last character.
func (s *Snapshot) MaxPoint() coords.Point {
	return s.block.MaxPoint()
}

// LineLen returns the rendered byte length of a display row.
func (s *Snapshot) LineLen(row uint32) uint32 {
	return s.block.LineLen(row)
}

// LongestRow returns the widest display row and its rendered length.
func (s *Snapshot) LongestRow() (uint32, uint32) {
	return s.block.LongestRow()
}

// IsBlockLine reports whether the row renders a decoration block.
func (s *Snapshot) IsBlockLine(row uint32) bool {
	return s.block.IsBlockRow(row)
}

// BlockForRow returns the block rendered on the given row, or nil.
func (s *Snapshot) BlockForRow(row uint32) *block.Block {
	return s.block.BlockForRow(row)
}

// IsLineFolded reports whether the display row contains a collapsed
// fold. Block rows are never folded.
func (s *Snapshot) IsLineFolded(row uint32) bool {
	if s.block.IsBlockRow(row) {
		return false
	}
	wp := s.block.ToWrapPoint(coords.Point{Row: row})
	return s.block.Wrap().IsLineFolded(wp.Row)
}

// ToDisplayPoint projects a buffer point into display coordinates.
func (s *Snapshot) ToDisplayPoint(p coords.Point, bias coords.Bias) coords.Point {
	return s.block.FromBufferPoint(p, bias)
}

// ToBufferPoint projects a display point back to buffer coordinates.
func (s *Snapshot) ToBufferPoint(p coords.Point, bias coords.Bias) coords.Point {
	return s.block.ToBufferPoint(p, bias)
}

// ClipPoint snaps a display point to the nearest valid cursor
// position.
func (s *Snapshot) ClipPoint(p coords.Point, bias coords.Bias) coords.Point {
	return s.block.ClipPoint(p, bias)
}

// Chunks returns a styled-text iterator over the given display rows.
// A nil theme renders everything unstyled.
func (s *Snapshot) Chunks(rows coords.RowRange, theme *style.Theme) *block.ChunkIter {
	return s.block.Chunks(rows, theme)
}

// RowInfos returns an iterator describing each display row for gutter
// rendering, starting at the given row.
func (s *Snapshot) RowInfos(start uint32) *block.RowIter {
	return s.block.RowInfos(start)
}

// Row classification, re-exported from the block stage for callers
// that only deal with the composed display.
type (
	RowKind = block.RowKind
	RowInfo = block.RowInfo
)

const (
	RowBuffer = block.RowBuffer
	RowWrap   = block.RowWrap
	RowBlock  = block.RowBlock
)

// Line returns the rendered text of one display row.
func (s *Snapshot) Line(row uint32) string {
	var sb strings.Builder
	it := s.block.Chunks(coords.RowRange{Start: row, End: row + 1}, nil)
	for it.Next() {
		sb.WriteString(it.Chunk().Text)
	}
	return sb.String()
}

// Text returns the rendered text of the whole display, rows joined by
// newlines.
func (s *Snapshot) Text() string {
	var sb strings.Builder
	it := s.block.Chunks(coords.RowRange{Start: 0, End: s.RowCount()}, nil)
	for it.Next() {
		sb.WriteString(it.Chunk().Text)
	}
	return sb.String()
}
