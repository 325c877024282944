package block

import (
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/wrap"
)

// Snapshot is an immutable view of the block stage: the wrap snapshot
// it was synced against plus the transform tree. All queries run in
// O(log n) over the transform count.
type Snapshot struct {
	wrap *wrap.Snapshot
	tree *Tree
}

// Wrap returns the upstream wrap snapshot.
func (s *Snapshot) Wrap() *wrap.Snapshot {
	return s.wrap
}

// RowCount returns the number of block rows, including block lines.
func (s *Snapshot) RowCount() uint32 {
	return s.tree.summary().Output.Row + 1
}

// MaxPoint returns the position just past the last character.
func (s *Snapshot) MaxPoint() coords.Point {
	return s.tree.summary().Output
}

// LineLen returns the rendered byte length of a block row: the wrap
// row's length for text rows, the padded line length for block rows.
func (s *Snapshot) LineLen(row uint32) uint32 {
	if max := s.MaxPoint().Row; row > max {
		row = max
	}
	cur := s.tree.newCursor(dimOutput)
	cur.seek(coords.Point{Row: row + 1}, coords.Left)
	if cur.item() == nil {
		cur.prev()
	}
	t := cur.item()
	start := cur.startSummary()
	if t.isIsomorphic() {
		if row == start.Output.Row {
			return start.Output.Column + s.wrap.LineLen(start.Input.Row) - start.Input.Column
		}
		return s.wrap.LineLen(start.Input.Row + (row - start.Output.Row))
	}
	lineIdx := row - start.Output.Row
	if t.block.disposition == Below {
		if row == start.Output.Row {
			// Partial row the block's leading line break terminates.
			return start.Output.Column
		}
		lineIdx--
	}
	return paddedLineLen(t.block.text.LineLen(lineIdx), t.column)
}

// LongestRow returns the widest block row and its rendered length.
func (s *Snapshot) LongestRow() (uint32, uint32) {
	sum := s.tree.summary()
	wrapRow, wrapLen := s.wrap.LongestRow()
	if sum.LongestChars > wrapLen {
		return sum.LongestRow, sum.LongestChars
	}
	return s.ToBlockPoint(coords.Point{Row: wrapRow}).Row, wrapLen
}

// IsBlockRow reports whether the row renders block content rather than
// buffer text.
func (s *Snapshot) IsBlockRow(row uint32) bool {
	return s.blockForRow(row) != nil
}

// BlockForRow returns the block rendered on the given row, or nil for
// a text row.
func (s *Snapshot) BlockForRow(row uint32) *Block {
	return s.blockForRow(row)
}

func (s *Snapshot) blockForRow(row uint32) *Block {
	cur := s.tree.newCursor(dimOutput)
	cur.seek(coords.Point{Row: row, Column: 0}, coords.Right)
	if cur.item() == nil {
		// Rows at the very end may only be reachable from the last
		// transform.
		cur.prev()
	}
	t := cur.item()
	if t == nil {
		return nil
	}
	if t.isIsomorphic() {
		start := cur.startSummary().Output
		if start.Row == row && start.Column == 0 {
			// A Below block whose last line is empty ends exactly at
			// this row boundary; the row is still the block's.
			c := cur.clone()
			c.prev()
			if pt := c.item(); pt != nil && pt.block != nil && pt.block.disposition == Below {
				return pt.block
			}
		}
		return nil
	}
	if t.block.disposition == Below && row == cur.startSummary().Output.Row {
		// The block's leading line break only terminates the previous
		// text row.
		return nil
	}
	return t.block
}

// ToWrapPoint projects a block point into wrap space. Points on block
// rows resolve to the block's nearest edge: the start of the next real
// row for Above blocks, the end of the previous one for Below blocks.
func (s *Snapshot) ToWrapPoint(p coords.Point) coords.Point {
	cur := s.tree.newCursor(dimOutput)
	cur.seek(p, coords.Right)
	t := cur.item()
	if t == nil {
		return s.wrap.MaxPoint()
	}
	start := cur.startSummary()
	if t.isIsomorphic() {
		return start.Input.Add(p.Sub(start.Output))
	}
	return start.Input
}

// ToBlockPoint projects a wrap point into block space. For any point
// on a real row the projection inverts ToWrapPoint.
func (s *Snapshot) ToBlockPoint(wp coords.Point) coords.Point {
	wp = wp.Min(s.wrap.MaxPoint())
	cur := s.tree.newCursor(dimInput)
	cur.seek(wp, coords.Left)

	// When the landed transform ends exactly at wp, the row content may
	// resume after a run of Above blocks.
	if t := cur.item(); t != nil && t.isIsomorphic() && cur.endSummary().Input == wp {
		probe := cur.clone()
		probe.next()
		for probe.item() != nil && !probe.item().isIsomorphic() && probe.item().block.disposition == Above {
			probe.next()
		}
		if probe.item() != nil && probe.item().isIsomorphic() {
			cur = probe
		}
	}
	for cur.item() != nil && !cur.item().isIsomorphic() {
		cur.next()
	}
	if cur.item() == nil {
		return s.MaxPoint()
	}
	start := cur.startSummary()
	return start.Output.Add(wp.Sub(start.Input))
}

// FromBufferPoint projects a buffer point through the whole pipeline
// into block space.
func (s *Snapshot) FromBufferPoint(p coords.Point, bias coords.Bias) coords.Point {
	return s.ToBlockPoint(s.wrap.FromBufferPoint(p, bias))
}

// ToBufferPoint projects a block point back to buffer space.
func (s *Snapshot) ToBufferPoint(p coords.Point, bias coords.Bias) coords.Point {
	return s.wrap.ToBufferPoint(s.ToWrapPoint(p), bias)
}

// ClipPoint snaps a point to the nearest valid cursor position: on a
// real row, outside tab expansions and fold placeholders. Points on
// block rows snap past the block in the bias direction.
func (s *Snapshot) ClipPoint(p coords.Point, bias coords.Bias) coords.Point {
	cur := s.tree.newCursor(dimOutput)
	cur.seek(p, coords.Right)
	t := cur.item()
	if t == nil {
		out, _ := s.clipBackward(cur)
		return out
	}
	start := cur.startSummary()
	if t.isIsomorphic() {
		input := start.Input.Add(p.Sub(start.Output))
		clipped := s.wrap.ClipPoint(input, bias)
		return start.Output.Add(clipped.Sub(start.Input))
	}
	if t.block.disposition == Below && p == start.Output && prevIsIsomorphic(cur) {
		// Exactly at the end of the previous text row.
		return p
	}
	if bias == coords.Left {
		if out, ok := s.clipBackward(cur); ok {
			return out
		}
		out, _ := s.clipForward(cur)
		return out
	}
	if out, ok := s.clipForward(cur); ok {
		return out
	}
	out, _ := s.clipBackward(cur)
	return out
}

// clipBackward walks to the nearest isomorphic transform before the
// cursor and returns the last valid position it covers.
func (s *Snapshot) clipBackward(cur *cursor) (coords.Point, bool) {
	c := cur.clone()
	for c.prev(); c.item() != nil; c.prev() {
		if !c.item().isIsomorphic() {
			continue
		}
		end := c.endSummary().Output
		if end.Column == 0 && end.Row > 0 && nextIsAboveBlock(c) {
			// The boundary row belongs to the following Above block;
			// the last real position is the end of the prior row, if
			// this transform's content reaches it.
			start := c.startSummary().Output
			first := start.Row
			if start.Column > 0 {
				first = start.Row + 1
			}
			if row := end.Row - 1; row >= first {
				return coords.Point{Row: row, Column: s.LineLen(row)}, true
			}
			continue
		}
		return end, true
	}
	return coords.Point{}, false
}

// clipForward walks to the nearest isomorphic transform after the
// cursor and returns the first valid position it covers.
func (s *Snapshot) clipForward(cur *cursor) (coords.Point, bool) {
	c := cur.clone()
	for c.next(); c.item() != nil; c.next() {
		if !c.item().isIsomorphic() {
			continue
		}
		start := c.startSummary().Output
		if start.Column == 0 {
			return start, true
		}
		// The transform resumes mid-row after a Below block; the first
		// real position is the next row's start, unless the transform
		// only closes this row and an Above block claims the next.
		next := coords.Point{Row: start.Row + 1}
		if c.endSummary().Output == next && nextIsAboveBlock(c) {
			continue
		}
		return next, true
	}
	return coords.Point{}, false
}

func prevIsIsomorphic(cur *cursor) bool {
	c := cur.clone()
	c.prev()
	return c.item() != nil && c.item().isIsomorphic()
}

func nextIsAboveBlock(cur *cursor) bool {
	c := cur.clone()
	c.next()
	t := c.item()
	return t != nil && t.block != nil && t.block.disposition == Above
}
