// Package tab implements the display stage that expands hard tabs
// into spaces up to the next tab stop. Rows map 1:1 to fold rows; only
// columns move.
package tab

import (
	"strings"
	"sync"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/fold"
)

// DefaultWidth is the tab width used until configured otherwise.
const DefaultWidth = 4

// Map owns the tab stage's state.
type Map struct {
	mu    sync.Mutex
	width uint32
	snap  *Snapshot
}

// NewMap creates the tab stage over an initial fold snapshot.
func NewMap(upstream *fold.Snapshot, width uint32) (*Map, *Snapshot) {
	if width == 0 {
		width = DefaultWidth
	}
	m := &Map{width: width}
	m.snap = &Snapshot{fold: upstream, width: width}
	return m, m.snap
}

// Sync adopts a new upstream snapshot. Rows are 1:1 with fold rows, so
// the edits pass through unchanged.
func (m *Map) Sync(upstream *fold.Snapshot, edits []coords.RowEdit) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &Snapshot{fold: upstream, width: m.width}
	return m.snap, edits
}

// SetWidth changes the tab width, returning the new snapshot and an
// edit invalidating every row. A no-op change returns no edits.
func (m *Map) SetWidth(width uint32) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if width == 0 {
		width = DefaultWidth
	}
	if width == m.width {
		return m.snap, nil
	}
	m.width = width
	m.snap = &Snapshot{fold: m.snap.fold, width: width}
	rows := coords.RowRange{Start: 0, End: m.snap.RowCount()}
	return m.snap, []coords.RowEdit{{Old: rows, New: rows}}
}

// Snapshot is an immutable view of the tab stage.
type Snapshot struct {
	fold  *fold.Snapshot
	width uint32
}

// Fold returns the upstream fold snapshot.
func (s *Snapshot) Fold() *fold.Snapshot {
	return s.fold
}

// Width returns the tab width.
func (s *Snapshot) Width() uint32 {
	return s.width
}

// RowCount returns the number of rows, identical to the fold stage's.
func (s *Snapshot) RowCount() uint32 {
	return s.fold.RowCount()
}

// MaxPoint returns the position just past the last character.
func (s *Snapshot) MaxPoint() coords.Point {
	row := s.RowCount() - 1
	return coords.Point{Row: row, Column: s.LineLen(row)}
}

// LineLen returns the byte length of a row after tab expansion.
func (s *Snapshot) LineLen(row uint32) uint32 {
	var col uint32
	for _, c := range s.fold.Chunks(coords.RowRange{Start: row, End: row + 1}) {
		col = s.advance(col, c.Text)
	}
	return col
}

// IsLineFolded reports whether the row contains a fold placeholder.
func (s *Snapshot) IsLineFolded(row uint32) bool {
	return s.fold.IsLineFolded(row)
}

// Chunks returns the text of the given rows with tabs expanded, "\n"
// chunks between rows.
func (s *Snapshot) Chunks(rows coords.RowRange) []fold.Chunk {
	var out []fold.Chunk
	var col uint32
	for _, c := range s.fold.Chunks(rows) {
		if c.Text == "\n" {
			col = 0
			out = append(out, c)
			continue
		}
		if !strings.ContainsRune(c.Text, '\t') {
			col += uint32(len(c.Text))
			out = append(out, c)
			continue
		}
		text := c.Text
		for {
			i := strings.IndexByte(text, '\t')
			if i < 0 {
				break
			}
			if i > 0 {
				out = append(out, fold.Chunk{Text: text[:i], Placeholder: c.Placeholder})
				col += uint32(i)
			}
			stop := nextTabStop(col, s.width)
			out = append(out, fold.Chunk{Text: strings.Repeat(" ", int(stop-col)), Placeholder: c.Placeholder})
			col = stop
			text = text[i+1:]
		}
		if len(text) > 0 {
			out = append(out, fold.Chunk{Text: text, Placeholder: c.Placeholder})
			col += uint32(len(text))
		}
	}
	return out
}

// BufferRows returns the fold stage's row iterator; rows are 1:1.
func (s *Snapshot) BufferRows(row uint32) *fold.RowIter {
	return s.fold.BufferRows(row)
}

// BufferRow returns the buffer row that starts the given row.
func (s *Snapshot) BufferRow(row uint32) uint32 {
	return s.fold.BufferRow(row)
}

// ToTabPoint converts a fold point to tab space.
func (s *Snapshot) ToTabPoint(p coords.Point) coords.Point {
	var foldCol, tabCol uint32
	for _, c := range s.fold.Chunks(coords.RowRange{Start: p.Row, End: p.Row + 1}) {
		for i := 0; i < len(c.Text); i++ {
			if foldCol == p.Column {
				return coords.Point{Row: p.Row, Column: tabCol}
			}
			if c.Text[i] == '\t' {
				tabCol = nextTabStop(tabCol, s.width)
			} else {
				tabCol++
			}
			foldCol++
		}
	}
	return coords.Point{Row: p.Row, Column: tabCol}
}

// ToFoldPoint converts a tab point back to fold space. Points inside
// an expanded tab resolve to the tab's edge chosen by bias.
func (s *Snapshot) ToFoldPoint(p coords.Point, bias coords.Bias) coords.Point {
	var foldCol, tabCol uint32
	for _, c := range s.fold.Chunks(coords.RowRange{Start: p.Row, End: p.Row + 1}) {
		for i := 0; i < len(c.Text); i++ {
			var next uint32
			if c.Text[i] == '\t' {
				next = nextTabStop(tabCol, s.width)
			} else {
				next = tabCol + 1
			}
			if p.Column < next {
				if p.Column > tabCol && bias == coords.Right {
					return coords.Point{Row: p.Row, Column: foldCol + 1}
				}
				return coords.Point{Row: p.Row, Column: foldCol}
			}
			tabCol = next
			foldCol++
		}
	}
	return coords.Point{Row: p.Row, Column: foldCol}
}

func (s *Snapshot) advance(col uint32, text string) uint32 {
	for i := 0; i < len(text); i++ {
		if text[i] == '\t' {
			col = nextTabStop(col, s.width)
		} else {
			col++
		}
	}
	return col
}

// nextTabStop returns the column of the tab stop after col.
func nextTabStop(col, width uint32) uint32 {
	return col + width - col%width
}
