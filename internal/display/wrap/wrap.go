// Package wrap implements the display stage that soft-wraps tab rows
// at a configurable cell width. Width is measured in terminal cells
// over grapheme clusters; wrap positions are byte columns in tab
// space, so downstream coordinates stay byte-based.
package wrap

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/tab"
)

// Map owns the wrap stage's state.
type Map struct {
	mu    sync.Mutex
	width uint32 // cell width; 0 disables wrapping
	snap  *Snapshot
}

// NewMap creates the wrap stage over an initial tab snapshot. A width
// of 0 disables wrapping.
func NewMap(upstream *tab.Snapshot, width uint32) (*Map, *Snapshot) {
	m := &Map{width: width}
	m.snap = buildSnapshot(upstream, width)
	return m, m.snap
}

// Sync adopts a new upstream snapshot, translating the tab-space edits
// into wrap-space edits.
func (m *Map) Sync(upstream *tab.Snapshot, edits []coords.RowEdit) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.snap
	m.snap = buildSnapshot(upstream, m.width)

	out := make([]coords.RowEdit, 0, len(edits))
	for _, e := range edits {
		translated := coords.RowEdit{
			Old: coords.RowRange{Start: old.firstWrapRow(e.Old.Start), End: old.firstWrapRow(e.Old.End)},
			New: coords.RowRange{Start: m.snap.firstWrapRow(e.New.Start), End: m.snap.firstWrapRow(e.New.End)},
		}
		if n := len(out); n > 0 && translated.Old.Start <= out[n-1].Old.End {
			out[n-1].Old.End = max(out[n-1].Old.End, translated.Old.End)
			out[n-1].New.End = max(out[n-1].New.End, translated.New.End)
		} else {
			out = append(out, translated)
		}
	}
	return m.snap, out
}

// SetWrapWidth changes the wrap width (0 disables), returning the new
// snapshot and an edit replacing every row. A no-op change returns no
// edits.
func (m *Map) SetWrapWidth(width uint32) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if width == m.width {
		return m.snap, nil
	}
	m.width = width
	old := m.snap
	m.snap = buildSnapshot(old.tab, width)
	return m.snap, []coords.RowEdit{{
		Old: coords.RowRange{Start: 0, End: old.RowCount()},
		New: coords.RowRange{Start: 0, End: m.snap.RowCount()},
	}}
}

// buildSnapshot computes the wrap row table for an upstream snapshot.
func buildSnapshot(upstream *tab.Snapshot, width uint32) *Snapshot {
	rowCount := upstream.RowCount()
	rows := make([]rowEntry, 0, rowCount)
	for tabRow := uint32(0); tabRow < rowCount; tabRow++ {
		rows = append(rows, rowEntry{tabRow: tabRow})
		if width == 0 {
			continue
		}
		text := rowText(upstream, tabRow)
		var byteCol, cells uint32
		var rowStart uint32
		for len(text) > 0 {
			cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(text, -1)
			w := uint32(runewidth.StringWidth(cluster))
			if cells+w > width && byteCol > rowStart {
				rows = append(rows, rowEntry{tabRow: tabRow, startCol: byteCol})
				rowStart = byteCol
				cells = 0
			}
			cells += w
			byteCol += uint32(len(cluster))
			text = rest
		}
	}
	return &Snapshot{tab: upstream, rows: rows}
}

// rowText materializes the text of one tab row.
func rowText(upstream *tab.Snapshot, row uint32) string {
	var sb strings.Builder
	for _, c := range upstream.Chunks(coords.RowRange{Start: row, End: row + 1}) {
		sb.WriteString(c.Text)
	}
	return sb.String()
}
