// Package block implements the final display stage: it interleaves
// decoration blocks (diagnostics, code lens, inline review threads)
// with the soft-wrapped text below it. Blocks are anchored to buffer
// positions, rendered above or below their anchor row, and tracked in
// a summary-augmented tree so coordinate queries stay logarithmic in
// the transform count.
package block

import (
	"fmt"
	"slices"
	"sort"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/style"
	"github.com/00676/displaymap/internal/display/wrap"
	"github.com/00676/displaymap/internal/engine/buffer"
	"github.com/00676/displaymap/internal/engine/rope"
)

// ID identifies a block for removal and restyling. IDs are unique per
// Map and never reused.
type ID uint64

// Disposition places a block relative to its anchor row.
type Disposition uint8

const (
	// Above renders the block before its anchor row.
	Above Disposition = iota

	// Below renders the block after its anchor row.
	Below
)

func (d Disposition) String() string {
	if d == Above {
		return "above"
	}
	return "below"
}

// Properties describes a block to insert.
type Properties struct {
	// Position is the buffer position the block anchors to. The anchor
	// is left-biased: text inserted at the position leaves the block in
	// place.
	Position coords.Point

	// Text is the block's content. Lines are separated by "\n"; the
	// text carries no trailing newline.
	Text string

	// Source styles the block's lines. The zero source renders them
	// unstyled.
	Source style.Source

	Disposition Disposition
}

// Block is an inserted decoration block.
type Block struct {
	id          ID
	anchor      *buffer.Anchor
	text        rope.Rope
	source      style.Source
	disposition Disposition
}

// ID returns the block's identifier.
func (b *Block) ID() ID {
	return b.id
}

// Position returns the block's current anchor position.
func (b *Block) Position() coords.Point {
	return b.anchor.Point()
}

// Disposition returns where the block renders relative to its anchor.
func (b *Block) Disposition() Disposition {
	return b.disposition
}

// Text returns the block's content.
func (b *Block) Text() string {
	return b.text.String()
}

// Map owns the block stage: the registered blocks and the transform
// tree mapping wrap space to block space. All access goes through Read
// and Write, which first fold the upstream edits into the tree.
type Map struct {
	buf      *buffer.Buffer
	nextID   ID
	wrapSnap *wrap.Snapshot
	blocks   []*Block // sorted by (anchor position, id)
	tree     *Tree
}

// NewMap creates the block stage over an initial wrap snapshot.
func NewMap(buf *buffer.Buffer, upstream *wrap.Snapshot) (*Map, *Snapshot) {
	m := &Map{buf: buf, nextID: 1, tree: &Tree{}}
	m.sync(upstream, []coords.RowEdit{{
		Old: coords.RowRange{Start: 0, End: 1},
		New: coords.RowRange{Start: 0, End: upstream.RowCount()},
	}})
	return m, m.snapshot()
}

// Read folds the upstream edits into the tree and returns a query
// snapshot.
func (m *Map) Read(upstream *wrap.Snapshot, edits []coords.RowEdit) *Snapshot {
	m.sync(upstream, edits)
	return m.snapshot()
}

// Write folds the upstream edits into the tree and returns a writer
// for mutating the block set.
func (m *Map) Write(upstream *wrap.Snapshot, edits []coords.RowEdit) *Writer {
	m.sync(upstream, edits)
	return &Writer{m: m}
}

// Restyle swaps the style sources of the given blocks in place. The
// tree shape is untouched, so no resync or edit fan-out happens.
func (m *Map) Restyle(styles map[ID]style.Source) {
	for _, blk := range m.blocks {
		if src, ok := styles[blk.id]; ok {
			blk.source = src
		}
	}
}

func (m *Map) snapshot() *Snapshot {
	return &Snapshot{wrap: m.wrapSnap, tree: m.tree}
}

// sync rebuilds the edited slices of the transform tree against a new
// wrap snapshot. Unedited prefixes, gaps between edits, and the suffix
// are reused from the old tree; blocks whose anchor rows fall inside an
// edited region are repositioned and re-padded from their anchors.
func (m *Map) sync(upstream *wrap.Snapshot, edits []coords.RowEdit) {
	if len(edits) == 0 && m.tree.root != nil {
		m.wrapSnap = upstream
		return
	}

	buf := upstream.Buffer()
	oldMax := m.tree.summary().Input
	newMax := upstream.MaxPoint()
	cur := m.tree.newCursor(dimInput)
	var b builder
	lastBlockIx := 0

	for i := 0; i < len(edits); i++ {
		e := edits[i]
		oldStart := coords.Point{Row: e.Old.Start}
		b.pushParts(cur.slice(oldStart))
		b.pushIsomorphic(oldStart.Sub(cur.startSummary().Input))

		oldEnd := coords.Point{Row: e.Old.End}
		newEnd := coords.Point{Row: e.New.End}
		cur.seek(oldEnd, coords.Left)
		cur.next()

		// Absorb later edits that land inside the transform we just
		// consumed.
		for i+1 < len(edits) && edits[i+1].Old.Start <= cur.startSummary().Input.Row {
			i++
			oldEnd = coords.Point{Row: edits[i].Old.End}
			newEnd = coords.Point{Row: edits[i].New.End}
			cur.seek(oldEnd, coords.Left)
			cur.next()
		}

		placements := m.placeBlocks(upstream, buf, e.New.Start, newEnd, newMax, &lastBlockIx)

		oldEnd = oldEnd.Min(oldMax)
		newEnd = newEnd.Min(newMax)

		for _, pl := range placements {
			insertion := coords.Point{Row: pl.row}
			if pl.block.disposition == Below {
				insertion.Column = upstream.LineLen(pl.row)
			}
			b.pushIsomorphic(insertion.Sub(b.sum.Input))
			if pl.block.disposition == Below {
				b.ensureTrailingIsomorphic()
			}
			b.pushTransform(blockTransform(pl.block, pl.column))
		}

		b.pushIsomorphic(newEnd.Sub(b.sum.Input))
		b.pushIsomorphic(cur.startSummary().Input.Sub(oldEnd))
	}

	b.pushParts(cur.suffix())
	b.ensureTrailingIsomorphic()
	if b.sum.Input != newMax {
		panic(fmt.Sprintf("block: tree input %v does not cover wrap extent %v", b.sum.Input, newMax))
	}

	m.tree = b.build()
	m.wrapSnap = upstream
}

// placement is a block's computed position for one sync: the wrap row
// it attaches to and the padding column from its anchor.
type placement struct {
	row    uint32
	column uint32
	block  *Block
}

// placeBlocks collects the blocks anchored inside [newStart, newEnd) in
// render order: by wrap row, Above before Below, then insertion order.
func (m *Map) placeBlocks(upstream *wrap.Snapshot, buf *buffer.Snapshot, newStart uint32, newEnd, newMax coords.Point, lastBlockIx *int) []placement {
	startPoint := upstream.ToBufferPoint(coords.Point{Row: newStart}, coords.Left)
	from := *lastBlockIx
	blocksStart := from + sort.Search(len(m.blocks)-from, func(i int) bool {
		return m.blocks[from+i].anchor.Point().Compare(startPoint) >= 0
	})

	blocksEnd := len(m.blocks)
	if newEnd.Row <= newMax.Row {
		endPoint := upstream.ToBufferPoint(coords.Point{Row: newEnd.Row}, coords.Left)
		blocksEnd = blocksStart + sort.Search(len(m.blocks)-blocksStart, func(i int) bool {
			return m.blocks[blocksStart+i].anchor.Point().Compare(endPoint) >= 0
		})
	}
	*lastBlockIx = blocksEnd

	placements := make([]placement, 0, blocksEnd-blocksStart)
	for _, blk := range m.blocks[blocksStart:blocksEnd] {
		pos := blk.anchor.Point()
		rowPoint := coords.Point{Row: pos.Row}
		if blk.disposition == Below {
			rowPoint.Column = buf.LineLen(pos.Row)
		}
		placements = append(placements, placement{
			row:    upstream.FromBufferPoint(rowPoint, coords.Left).Row,
			column: upstream.FromBufferPoint(pos, coords.Left).Column,
			block:  blk,
		})
	}
	sort.SliceStable(placements, func(a, b int) bool {
		if placements[a].row != placements[b].row {
			return placements[a].row < placements[b].row
		}
		if placements[a].block.disposition != placements[b].block.disposition {
			return placements[a].block.disposition < placements[b].block.disposition
		}
		return placements[a].block.id < placements[b].block.id
	})
	return placements
}

// Writer mutates the block set. It is only valid until the next Read
// or Write on the same Map.
type Writer struct {
	m *Map
}

// Insert registers new blocks, returning their IDs in argument order.
// Positions are clipped to the buffer and anchored left-biased.
func (w *Writer) Insert(blocks ...Properties) []ID {
	m := w.m
	upstream := m.wrapSnap
	buf := upstream.Buffer()

	ids := make([]ID, 0, len(blocks))
	var edits []coords.RowEdit
	for _, props := range blocks {
		id := m.nextID
		m.nextID++
		ids = append(ids, id)

		anchor := m.buf.AnchorBefore(buf.ClipPoint(props.Position))
		pos := anchor.Point()
		blk := &Block{
			id:          id,
			anchor:      anchor,
			text:        rope.FromString(props.Text),
			source:      props.Source,
			disposition: props.Disposition,
		}
		i := sort.Search(len(m.blocks), func(i int) bool {
			return m.blocks[i].anchor.Point().Compare(pos) > 0
		})
		m.blocks = slices.Insert(m.blocks, i, blk)

		startRow := upstream.FromBufferPoint(coords.Point{Row: pos.Row}, coords.Left).Row
		var endRow uint32
		if pos.Row == buf.MaxPoint().Row {
			endRow = upstream.MaxPoint().Row + 1
		} else {
			endRow = upstream.FromBufferPoint(coords.Point{Row: pos.Row + 1}, coords.Left).Row
		}
		j := sort.Search(len(edits), func(j int) bool {
			return edits[j].Old.Start >= startRow
		})
		if j == len(edits) || edits[j].Old.Start != startRow {
			rows := coords.RowRange{Start: startRow, End: endRow}
			edits = slices.Insert(edits, j, coords.RowEdit{Old: rows, New: rows})
		}
	}

	m.sync(upstream, edits)
	return ids
}

// Remove deletes the given blocks, releasing their anchors. Unknown
// IDs are ignored.
func (w *Writer) Remove(ids ...ID) {
	m := w.m
	upstream := m.wrapSnap
	buf := upstream.Buffer()

	idSet := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	var edits []coords.RowEdit
	lastRow := uint32(0)
	haveLast := false
	kept := m.blocks[:0]
	for _, blk := range m.blocks {
		if _, ok := idSet[blk.id]; !ok {
			kept = append(kept, blk)
			continue
		}
		pos := blk.anchor.Point()
		if !haveLast || pos.Row != lastRow {
			startRow := upstream.FromBufferPoint(coords.Point{Row: pos.Row}, coords.Left).Row
			endRow := upstream.FromBufferPoint(coords.Point{Row: pos.Row, Column: buf.LineLen(pos.Row)}, coords.Left).Row + 1
			rows := coords.RowRange{Start: startRow, End: endRow}
			edits = append(edits, coords.RowEdit{Old: rows, New: rows})
			lastRow, haveLast = pos.Row, true
		}
		blk.anchor.Release()
	}
	m.blocks = kept

	m.sync(upstream, edits)
}
