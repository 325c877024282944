package block

import (
	"strings"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/style"
)

// rowContent resolves what an output row renders: a wrap row when
// block is nil, otherwise one line of a block's text.
type rowContent struct {
	block   *Block
	line    uint32
	column  uint32
	wrapRow uint32
}

// resolveRow maps an output row to its content source.
func (s *Snapshot) resolveRow(row uint32) rowContent {
	cur := s.tree.newCursor(dimOutput)
	cur.seek(coords.Point{Row: row + 1}, coords.Left)
	if cur.item() == nil {
		cur.prev()
	}
	t := cur.item()
	start := cur.startSummary()

	if t.isIsomorphic() {
		if row > start.Output.Row {
			return rowContent{wrapRow: start.Input.Row + (row - start.Output.Row)}
		}
		if blk, ok := prevBelowBlock(cur); ok {
			// The transform resumes exactly where the block's last
			// line ends; the row is the block's.
			return rowContent{block: blk, line: blk.text.Lines(), column: blockColumn(cur)}
		}
		return rowContent{wrapRow: start.Input.Row}
	}

	if t.block.disposition == Above {
		return rowContent{block: t.block, line: row - start.Output.Row, column: t.column}
	}
	if row == start.Output.Row {
		if blk, ok := prevBelowBlock(cur); ok {
			return rowContent{block: blk, line: blk.text.Lines(), column: blockColumn(cur)}
		}
		// The row the block's leading line break terminates.
		return rowContent{wrapRow: start.Input.Row}
	}
	return rowContent{block: t.block, line: row - start.Output.Row - 1, column: t.column}
}

func prevBelowBlock(cur *cursor) (*Block, bool) {
	c := cur.clone()
	c.prev()
	if t := c.item(); t != nil && t.block != nil && t.block.disposition == Below {
		return t.block, true
	}
	return nil, false
}

func blockColumn(cur *cursor) uint32 {
	c := cur.clone()
	c.prev()
	return c.item().column
}

// ChunkIter yields the styled text of a range of output rows, one
// chunk at a time. Rows are separated by bare "\n" chunks; block lines
// carry their padding as a leading space chunk and are split at style
// run boundaries.
type ChunkIter struct {
	snap    *Snapshot
	theme   *style.Theme
	row     uint32
	end     uint32
	started bool
	queue   []style.Chunk
	qi      int
	cur     style.Chunk
}

// Chunks returns an iterator over the given output rows. A nil theme
// renders everything unstyled.
func (s *Snapshot) Chunks(rows coords.RowRange, theme *style.Theme) *ChunkIter {
	end := rows.End
	if count := s.RowCount(); end > count {
		end = count
	}
	return &ChunkIter{snap: s, theme: theme, row: rows.Start, end: end}
}

// Next advances the iterator, returning false when the rows are
// exhausted.
func (it *ChunkIter) Next() bool {
	for it.qi >= len(it.queue) {
		if it.row >= it.end {
			return false
		}
		it.queue = it.queue[:0]
		it.qi = 0
		if it.started {
			it.queue = append(it.queue, style.Chunk{Text: "\n", Style: it.textStyle()})
		}
		it.started = true
		it.fillRow(it.row)
		it.row++
	}
	it.cur = it.queue[it.qi]
	it.qi++
	return true
}

// Chunk returns the current chunk.
func (it *ChunkIter) Chunk() style.Chunk {
	return it.cur
}

func (it *ChunkIter) textStyle() style.Style {
	if it.theme == nil {
		return style.Style{}
	}
	return it.theme.Text
}

func (it *ChunkIter) fillRow(row uint32) {
	rc := it.snap.resolveRow(row)
	if rc.block == nil {
		for _, c := range it.snap.wrap.Chunks(coords.RowRange{Start: rc.wrapRow, End: rc.wrapRow + 1}) {
			st := it.textStyle()
			if c.Placeholder && it.theme != nil {
				st = it.theme.FoldPlaceholder
			}
			it.queue = append(it.queue, style.Chunk{Text: c.Text, Style: st})
		}
		return
	}

	line := rc.block.text.LineText(rc.line)
	base := style.Style{}
	if it.theme != nil {
		base = it.theme.BlockText
	}
	if line == "" {
		return
	}
	if rc.column > 0 {
		it.queue = append(it.queue, style.Chunk{Text: strings.Repeat(" ", int(rc.column)), Style: base})
	}

	var ctx *style.Context
	if it.theme != nil {
		ctx = &style.Context{Theme: it.theme, Line: rc.line}
	}
	runs := rc.block.source.Runs(ctx, line)
	for _, run := range runs {
		if len(line) == 0 {
			break
		}
		n := min(int(run.Len), len(line))
		it.queue = append(it.queue, style.Chunk{Text: line[:n], Style: run.Style})
		line = line[n:]
	}
	if len(line) > 0 {
		it.queue = append(it.queue, style.Chunk{Text: line, Style: base})
	}
}

// RowKind classifies an output row.
type RowKind uint8

const (
	// RowBuffer is the first output row of a buffer row.
	RowBuffer RowKind = iota

	// RowWrap is a soft-wrap continuation of the previous row.
	RowWrap

	// RowBlock renders a line of a block.
	RowBlock
)

func (k RowKind) String() string {
	switch k {
	case RowBuffer:
		return "buffer"
	case RowWrap:
		return "wrap"
	default:
		return "block"
	}
}

// RowInfo describes one output row for gutter rendering: the buffer
// row it starts (RowBuffer), the block it belongs to (RowBlock), or a
// soft-wrap continuation (RowWrap).
type RowInfo struct {
	Kind      RowKind
	BufferRow uint32
	Block     *Block
}

// RowIter yields a RowInfo for successive output rows.
type RowIter struct {
	snap *Snapshot
	row  uint32
	info RowInfo
}

// RowInfos returns an iterator over output rows starting at the given
// row.
func (s *Snapshot) RowInfos(start uint32) *RowIter {
	return &RowIter{snap: s, row: start}
}

// Next advances the iterator, returning false past the last row.
func (it *RowIter) Next() bool {
	if it.row >= it.snap.RowCount() {
		return false
	}
	rc := it.snap.resolveRow(it.row)
	if rc.block != nil {
		it.info = RowInfo{Kind: RowBlock, Block: rc.block}
	} else if bufRow, wrapped := it.snap.wrap.BufferRowAt(rc.wrapRow); wrapped {
		it.info = RowInfo{Kind: RowWrap}
	} else {
		it.info = RowInfo{Kind: RowBuffer, BufferRow: bufRow}
	}
	it.row++
	return true
}

// Info returns the current row's description.
func (it *RowIter) Info() RowInfo {
	return it.info
}
