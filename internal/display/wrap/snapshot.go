package wrap

import (
	"sort"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/fold"
	"github.com/00676/displaymap/internal/display/tab"
	"github.com/00676/displaymap/internal/engine/buffer"
)

// rowEntry locates a wrap row within tab space: the tab row it slices
// and the byte column the slice starts at. A tab row's first entry
// always has startCol 0.
type rowEntry struct {
	tabRow   uint32
	startCol uint32
}

// Snapshot is an immutable view of the wrap stage and the upstream
// surface the block layer reads.
type Snapshot struct {
	tab  *tab.Snapshot
	rows []rowEntry
}

// Tab returns the upstream tab snapshot.
func (s *Snapshot) Tab() *tab.Snapshot {
	return s.tab
}

// Buffer returns the buffer snapshot at the bottom of the chain.
func (s *Snapshot) Buffer() *buffer.Snapshot {
	return s.tab.Fold().Buffer()
}

// RowCount returns the number of wrap rows.
func (s *Snapshot) RowCount() uint32 {
	return uint32(len(s.rows))
}

// MaxPoint returns the position just past the last character.
func (s *Snapshot) MaxPoint() coords.Point {
	row := s.RowCount() - 1
	return coords.Point{Row: row, Column: s.LineLen(row)}
}

// LineLen returns the byte length of a wrap row.
func (s *Snapshot) LineLen(row uint32) uint32 {
	start, end := s.rowSpan(row)
	return end - start
}

// LongestRow returns the row with the most bytes and its length.
func (s *Snapshot) LongestRow() (uint32, uint32) {
	var bestRow, bestLen uint32
	for row := uint32(0); row < s.RowCount(); row++ {
		if l := s.LineLen(row); l > bestLen {
			bestRow, bestLen = row, l
		}
	}
	return bestRow, bestLen
}

// IsLineFolded reports whether the wrap row's tab row contains a fold
// placeholder.
func (s *Snapshot) IsLineFolded(row uint32) bool {
	if row >= s.RowCount() {
		return false
	}
	return s.tab.IsLineFolded(s.rows[row].tabRow)
}

// Chunks returns the text of the given wrap rows, "\n" chunks between
// rows.
func (s *Snapshot) Chunks(rows coords.RowRange) []fold.Chunk {
	end := min(rows.End, s.RowCount())
	var out []fold.Chunk
	for row := rows.Start; row < end; row++ {
		if row > rows.Start {
			out = append(out, fold.Chunk{Text: "\n"})
		}
		out = append(out, s.rowChunks(row)...)
	}
	return out
}

// rowChunks slices one wrap row out of its tab row's chunks.
func (s *Snapshot) rowChunks(row uint32) []fold.Chunk {
	start, end := s.rowSpan(row)
	var out []fold.Chunk
	var col uint32
	for _, c := range s.tab.Chunks(coords.RowRange{Start: s.rows[row].tabRow, End: s.rows[row].tabRow + 1}) {
		chunkEnd := col + uint32(len(c.Text))
		lo := max(start, col)
		hi := min(end, chunkEnd)
		if lo < hi {
			out = append(out, fold.Chunk{Text: c.Text[lo-col : hi-col], Placeholder: c.Placeholder})
		}
		col = chunkEnd
		if col >= end {
			break
		}
	}
	return out
}

// rowSpan returns the byte columns [start, end) a wrap row covers in
// its tab row.
func (s *Snapshot) rowSpan(row uint32) (uint32, uint32) {
	e := s.rows[row]
	if int(row+1) < len(s.rows) && s.rows[row+1].tabRow == e.tabRow {
		return e.startCol, s.rows[row+1].startCol
	}
	return e.startCol, s.tab.LineLen(e.tabRow)
}

// firstWrapRow returns the first wrap row of a tab row; a tab row past
// the end maps to RowCount.
func (s *Snapshot) firstWrapRow(tabRow uint32) uint32 {
	return uint32(sort.Search(len(s.rows), func(i int) bool {
		return s.rows[i].tabRow >= tabRow
	}))
}

// FromBufferPoint maps a buffer point into wrap space. At a soft wrap
// boundary, Left bias resolves to the end of the earlier row and Right
// bias to the start of the later one.
func (s *Snapshot) FromBufferPoint(p coords.Point, bias coords.Bias) coords.Point {
	foldSnap := s.tab.Fold()
	tp := s.tab.ToTabPoint(foldSnap.ToFoldPoint(p, bias))
	return s.fromTabPoint(tp, bias)
}

func (s *Snapshot) fromTabPoint(tp coords.Point, bias coords.Bias) coords.Point {
	i := sort.Search(len(s.rows), func(i int) bool {
		e := s.rows[i]
		return e.tabRow > tp.Row || (e.tabRow == tp.Row && e.startCol > tp.Column)
	}) - 1
	if i < 0 {
		return coords.Point{}
	}
	e := s.rows[i]
	if bias == coords.Left && tp.Column == e.startCol && e.startCol > 0 {
		prev := s.rows[i-1]
		return coords.Point{Row: uint32(i - 1), Column: e.startCol - prev.startCol}
	}
	return coords.Point{Row: uint32(i), Column: tp.Column - e.startCol}
}

// ToBufferPoint maps a wrap point back to buffer space. Bias resolves
// positions that fall inside tab expansions or fold placeholders.
func (s *Snapshot) ToBufferPoint(p coords.Point, bias coords.Bias) coords.Point {
	if p.Row >= s.RowCount() {
		return s.Buffer().MaxPoint()
	}
	e := s.rows[p.Row]
	_, end := s.rowSpan(p.Row)
	tp := coords.Point{Row: e.tabRow, Column: min(e.startCol+p.Column, end)}
	foldSnap := s.tab.Fold()
	return foldSnap.ToBufferPoint(s.tab.ToFoldPoint(tp, bias))
}

// ClipPoint clamps a wrap point to a valid position, snapping out of
// tab expansions and placeholders per the bias.
func (s *Snapshot) ClipPoint(p coords.Point, bias coords.Bias) coords.Point {
	if p.Row >= s.RowCount() {
		return s.MaxPoint()
	}
	if l := s.LineLen(p.Row); p.Column > l {
		p.Column = l
	}
	return s.fromTabPoint(s.clipTabPoint(p, bias), bias)
}

// clipTabPoint maps a wrap point to a valid tab point via the buffer.
func (s *Snapshot) clipTabPoint(p coords.Point, bias coords.Bias) coords.Point {
	bp := s.ToBufferPoint(p, bias)
	foldSnap := s.tab.Fold()
	return s.tab.ToTabPoint(foldSnap.ToFoldPoint(bp, bias))
}

// BufferRowAt returns the buffer row of a wrap row and whether the
// wrap row is a soft-wrap continuation.
func (s *Snapshot) BufferRowAt(row uint32) (uint32, bool) {
	e := s.rows[row]
	return s.tab.BufferRow(e.tabRow), e.startCol > 0
}

// BufferRows returns an iterator over the buffer row of each wrap row,
// starting at the given wrap row. Soft-wrapped continuation rows are
// flagged.
func (s *Snapshot) BufferRows(row uint32) *RowIter {
	return &RowIter{snap: s, next: row}
}

// RowIter yields the buffer row and soft-wrap flag of successive wrap
// rows.
type RowIter struct {
	snap    *Snapshot
	next    uint32
	row     uint32
	wrapped bool
}

// Next advances the iterator, returning false past the last row.
func (it *RowIter) Next() bool {
	if it.next >= it.snap.RowCount() {
		return false
	}
	e := it.snap.rows[it.next]
	it.row = it.snap.tab.BufferRow(e.tabRow)
	it.wrapped = e.startCol > 0
	it.next++
	return true
}

// Row returns the current buffer row.
func (it *RowIter) Row() uint32 {
	return it.row
}

// SoftWrapped returns true if the current wrap row is a continuation
// of the previous one.
func (it *RowIter) SoftWrapped() bool {
	return it.wrapped
}
