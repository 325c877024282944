package fold

import (
	"sort"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/engine/buffer"
)

// placeholderLen is the byte length of Placeholder.
const placeholderLen = uint32(len(Placeholder))

// Chunk is a piece of fold-space text. Placeholder marks the ellipsis
// standing in for a folded range, so later stages can style it.
type Chunk struct {
	Text        string
	Placeholder bool
}

// Snapshot is an immutable view of the fold stage: the buffer with
// folded ranges collapsed. Fold rows merge every buffer row whose
// start lies inside a fold into the row of the fold's start.
type Snapshot struct {
	buffer    *buffer.Snapshot
	folds     []Range
	rowStarts []uint32 // buffer row starting each fold row
}

// Buffer returns the underlying buffer snapshot.
func (s *Snapshot) Buffer() *buffer.Snapshot {
	return s.buffer
}

// RowCount returns the number of fold rows.
func (s *Snapshot) RowCount() uint32 {
	return uint32(len(s.rowStarts))
}

// MaxPoint returns the position just past the last character.
func (s *Snapshot) MaxPoint() coords.Point {
	row := s.RowCount() - 1
	return coords.Point{Row: row, Column: s.LineLen(row)}
}

// LineLen returns the byte length of a fold row, counting placeholder
// bytes.
func (s *Snapshot) LineLen(row uint32) uint32 {
	var total uint32
	for _, f := range s.fragments(row) {
		total += f.end.Column - f.start.Column
		if f.folded {
			total += placeholderLen
		}
	}
	return total
}

// IsLineFolded returns true if the fold row contains a placeholder.
func (s *Snapshot) IsLineFolded(row uint32) bool {
	frags := s.fragments(row)
	return len(frags) > 0 && frags[0].folded
}

// ToFoldPoint converts a buffer point to fold space. Points inside a
// folded range resolve to the placeholder's edge chosen by bias.
func (s *Snapshot) ToFoldPoint(p coords.Point, bias coords.Bias) coords.Point {
	row := s.rowForBufferRow(p.Row)
	var col uint32
	for _, f := range s.fragments(row) {
		if p.Row == f.start.Row && p.Column >= f.start.Column && p.Column <= f.end.Column {
			return coords.Point{Row: row, Column: col + p.Column - f.start.Column}
		}
		col += f.end.Column - f.start.Column
		if f.folded {
			if p.Compare(f.end) > 0 && p.Compare(f.foldEnd) < 0 {
				if bias == coords.Right {
					col += placeholderLen
				}
				return coords.Point{Row: row, Column: col}
			}
			col += placeholderLen
		}
	}
	return coords.Point{Row: row, Column: col}
}

// ToBufferPoint converts a fold point back to buffer space. Points
// inside a placeholder resolve to the folded range's start.
func (s *Snapshot) ToBufferPoint(p coords.Point) coords.Point {
	if p.Row >= s.RowCount() {
		return s.buffer.MaxPoint()
	}
	col := p.Column
	frags := s.fragments(p.Row)
	for _, f := range frags {
		fragLen := f.end.Column - f.start.Column
		if col <= fragLen {
			return coords.Point{Row: f.start.Row, Column: f.start.Column + col}
		}
		col -= fragLen
		if f.folded {
			if col < placeholderLen {
				return f.end
			}
			col -= placeholderLen
		}
	}
	return frags[len(frags)-1].end
}

// Chunks returns the text of the given fold rows as chunks, with "\n"
// chunks between rows.
func (s *Snapshot) Chunks(rows coords.RowRange) []Chunk {
	end := min(rows.End, s.RowCount())
	var out []Chunk
	for row := rows.Start; row < end; row++ {
		if row > rows.Start {
			out = append(out, Chunk{Text: "\n"})
		}
		for _, f := range s.fragments(row) {
			if f.end.Column > f.start.Column {
				out = append(out, Chunk{Text: s.buffer.TextRange(f.start, f.end)})
			}
			if f.folded {
				out = append(out, Chunk{Text: Placeholder, Placeholder: true})
			}
		}
	}
	return out
}

// BufferRow returns the buffer row that starts the given fold row.
func (s *Snapshot) BufferRow(row uint32) uint32 {
	if row >= s.RowCount() {
		row = s.RowCount() - 1
	}
	return s.rowStarts[row]
}

// BufferRows returns an iterator over the buffer row that starts each
// fold row, beginning at the given fold row.
func (s *Snapshot) BufferRows(row uint32) *RowIter {
	return &RowIter{snap: s, next: row}
}

// RowIter yields the first buffer row of successive fold rows.
type RowIter struct {
	snap *Snapshot
	next uint32
	row  uint32
}

// Next advances the iterator, returning false past the last row.
func (it *RowIter) Next() bool {
	if it.next >= it.snap.RowCount() {
		return false
	}
	it.row = it.snap.rowStarts[it.next]
	it.next++
	return true
}

// Row returns the current buffer row.
func (it *RowIter) Row() uint32 {
	return it.row
}

// fragment is a run of literal buffer text within a fold row; folded
// marks a placeholder following it, covering [end, foldEnd).
type fragment struct {
	start, end coords.Point
	folded     bool
	foldEnd    coords.Point
}

func (s *Snapshot) fragments(row uint32) []fragment {
	if row >= s.RowCount() {
		return nil
	}
	cur := coords.Point{Row: s.rowStarts[row]}
	fi := sort.Search(len(s.folds), func(i int) bool {
		return s.folds[i].Start.Compare(cur) >= 0
	})

	var frags []fragment
	for {
		if fi < len(s.folds) && s.folds[fi].Start.Row == cur.Row {
			f := s.folds[fi]
			frags = append(frags, fragment{start: cur, end: f.Start, folded: true, foldEnd: f.End})
			cur = f.End
			fi++
			continue
		}
		frags = append(frags, fragment{start: cur, end: coords.Point{Row: cur.Row, Column: s.buffer.LineLen(cur.Row)}})
		return frags
	}
}

// rowForBufferRow returns the fold row containing a buffer row.
func (s *Snapshot) rowForBufferRow(bufRow uint32) uint32 {
	i := sort.Search(len(s.rowStarts), func(i int) bool {
		return s.rowStarts[i] > bufRow
	})
	if i == 0 {
		return 0
	}
	return uint32(i - 1)
}
