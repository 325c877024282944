// Package display composes the four coordinate stages over a buffer:
// fold collapses ranges, tab expands tab stops, wrap soft-wraps at a
// cell width, and block interleaves decoration rows. Map owns the
// stages and keeps them synced with buffer edits; Snapshot is the
// immutable read surface in display (block) coordinates.
package display

import (
	"sync"

	"github.com/00676/displaymap/internal/display/block"
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/fold"
	"github.com/00676/displaymap/internal/display/style"
	"github.com/00676/displaymap/internal/display/tab"
	"github.com/00676/displaymap/internal/display/wrap"
	"github.com/00676/displaymap/internal/engine/buffer"
)

// Map coordinates the display stages of one buffer.
type Map struct {
	mu       sync.Mutex
	buf      *buffer.Buffer
	rev      buffer.RevisionID
	lastRows uint32

	folds  *fold.Map
	tabs   *tab.Map
	wraps  *wrap.Map
	blocks *block.Map
}

// NewMap creates a display map over buf. tabWidth is in cells;
// wrapWidth of zero disables soft wrapping.
func NewMap(buf *buffer.Buffer, tabWidth, wrapWidth uint32) *Map {
	snap := buf.Snapshot()
	m := &Map{buf: buf, rev: snap.Revision(), lastRows: snap.LineCount()}

	folds, fs := fold.NewMap(buf)
	tabs, ts := tab.NewMap(fs, tabWidth)
	wraps, ws := wrap.NewMap(ts, wrapWidth)
	blocks, _ := block.NewMap(buf, ws)

	m.folds, m.tabs, m.wraps, m.blocks = folds, tabs, wraps, blocks
	return m
}

// Snapshot syncs the stages with any buffer edits and returns the
// current display snapshot.
func (m *Map) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, we := m.syncUpstreamLocked()
	return &Snapshot{block: m.blocks.Read(ws, we)}
}

// syncUpstreamLocked pulls buffer edits through fold, tab, and wrap,
// returning the wrap snapshot and wrap-space edits for the block stage.
func (m *Map) syncUpstreamLocked() (*wrap.Snapshot, []coords.RowEdit) {
	edits, err := m.buf.ChangesSince(m.rev)
	snap := m.buf.Snapshot()
	if err != nil {
		// The edit log no longer reaches our revision; resync the whole
		// row range.
		edits = []coords.RowEdit{{
			Old: coords.RowRange{Start: 0, End: m.lastRows},
			New: coords.RowRange{Start: 0, End: snap.LineCount()},
		}}
	}
	m.rev = snap.Revision()
	m.lastRows = snap.LineCount()

	fs, fe := m.folds.Sync(snap, edits)
	ts, te := m.tabs.Sync(fs, fe)
	return m.wraps.Sync(ts, te)
}

// Fold collapses the given buffer ranges behind placeholders.
func (m *Map) Fold(ranges ...fold.Range) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()

	fs, fe := m.folds.Fold(ranges)
	ts, te := m.tabs.Sync(fs, fe)
	ws, we := m.wraps.Sync(ts, te)
	return &Snapshot{block: m.blocks.Read(ws, we)}
}

// Unfold expands folds intersecting the given buffer ranges.
func (m *Map) Unfold(ranges ...fold.Range) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()

	fs, fe := m.folds.Unfold(ranges)
	ts, te := m.tabs.Sync(fs, fe)
	ws, we := m.wraps.Sync(ts, te)
	return &Snapshot{block: m.blocks.Read(ws, we)}
}

// InsertBlocks adds decoration blocks, returning their ids in input
// order.
func (m *Map) InsertBlocks(blocks ...block.Properties) []block.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, we := m.syncUpstreamLocked()
	return m.blocks.Write(ws, we).Insert(blocks...)
}

// RemoveBlocks deletes blocks by id; unknown ids are ignored.
func (m *Map) RemoveBlocks(ids ...block.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, we := m.syncUpstreamLocked()
	m.blocks.Write(ws, we).Remove(ids...)
}

// RestyleBlocks swaps the style sources of existing blocks without
// moving them.
func (m *Map) RestyleBlocks(styles map[block.ID]style.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks.Restyle(styles)
}

// SetTabWidth changes the tab stop width.
func (m *Map) SetTabWidth(width uint32) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()

	ts, te := m.tabs.SetWidth(width)
	ws, we := m.wraps.Sync(ts, te)
	return &Snapshot{block: m.blocks.Read(ws, we)}
}

// SetWrapWidth changes the soft-wrap width; zero disables wrapping.
func (m *Map) SetWrapWidth(width uint32) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()

	ws, we := m.wraps.SetWrapWidth(width)
	return &Snapshot{block: m.blocks.Read(ws, we)}
}

// flushLocked brings every stage up to date with pending buffer edits
// before a stage-local reconfiguration produces its own edits.
func (m *Map) flushLocked() {
	ws, we := m.syncUpstreamLocked()
	m.blocks.Read(ws, we)
}
