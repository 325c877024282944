// Package fold implements the first display stage: collapsing point
// ranges of the buffer behind an ellipsis placeholder. Folded ranges
// are anchored to the buffer, so they follow edits; the rows they span
// merge into the row of the fold's start.
package fold

import (
	"sort"
	"sync"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/engine/buffer"
)

// Placeholder is the text a folded range renders as.
const Placeholder = "…"

// Range is a half-open folded point range in buffer coordinates.
type Range struct {
	Start, End coords.Point
}

// Map owns the fold stage's state: the set of folded ranges and the
// last snapshot handed downstream.
type Map struct {
	mu    sync.Mutex
	buf   *buffer.Buffer
	folds []*entry
	snap  *Snapshot
}

type entry struct {
	start, end *buffer.Anchor
}

// NewMap creates the fold stage over a buffer and returns its initial
// snapshot.
func NewMap(buf *buffer.Buffer) (*Map, *Snapshot) {
	m := &Map{buf: buf}
	m.snap = m.buildSnapshot(buf.Snapshot())
	return m, m.snap
}

// Sync brings the stage up to date with an upstream buffer snapshot
// and the row edits that produced it, returning the new snapshot and
// the corresponding fold-space edits.
func (m *Map) Sync(upstream *buffer.Snapshot, edits []coords.RowEdit) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(edits) == 0 && upstream.Revision() == m.snap.buffer.Revision() {
		return m.snap, nil
	}

	old := m.snap
	m.snap = m.buildSnapshot(upstream)

	composed := coords.NewPatch(edits).Edits()
	out := make([]coords.RowEdit, 0, len(composed))
	for _, e := range composed {
		oldEnd := e.Old.Start
		if e.Old.End > e.Old.Start {
			oldEnd = e.Old.End - 1
		}
		newEnd := e.New.Start
		if e.New.End > e.New.Start {
			newEnd = e.New.End - 1
		}
		translated := coords.RowEdit{
			Old: coords.RowRange{Start: old.rowForBufferRow(e.Old.Start), End: old.rowForBufferRow(oldEnd) + 1},
			New: coords.RowRange{Start: m.snap.rowForBufferRow(e.New.Start), End: m.snap.rowForBufferRow(newEnd) + 1},
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

// Fold collapses the given ranges. Empty ranges and ranges that
// intersect an existing fold are ignored. Returns the new snapshot and
// the fold-space edits.
func (m *Map) Fold(ranges []Range) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	upstream := m.snap.buffer
	patch := &coords.Patch{}
	prev := m.snap
	for _, r := range ranges {
		r.Start = upstream.ClipPoint(r.Start)
		r.End = upstream.ClipPoint(r.End)
		if r.Start.Compare(r.End) >= 0 || m.intersectsLocked(r) {
			continue
		}

		e := &entry{start: m.buf.AnchorBefore(r.Start), end: m.buf.AnchorBefore(r.End)}
		i := sort.Search(len(m.folds), func(i int) bool {
			return m.folds[i].start.Point().After(r.Start)
		})
		m.folds = append(m.folds[:i], append([]*entry{e}, m.folds[i:]...)...)

		next := m.buildSnapshot(upstream)
		patch.Push(rowEditBetween(prev, next, r))
		prev = next
	}
	m.snap = prev
	return m.snap, patch.Edits()
}

// Unfold expands any fold that intersects one of the given ranges.
func (m *Map) Unfold(ranges []Range) (*Snapshot, []coords.RowEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	upstream := m.snap.buffer
	patch := &coords.Patch{}
	prev := m.snap
	for _, r := range ranges {
		for {
			removed := false
			for i, e := range m.folds {
				fr := Range{Start: e.start.Point(), End: e.end.Point()}
				if fr.Start.Compare(r.End) >= 0 || r.Start.Compare(fr.End) >= 0 {
					continue
				}
				e.start.Release()
				e.end.Release()
				m.folds = append(m.folds[:i], m.folds[i+1:]...)

				next := m.buildSnapshot(upstream)
				patch.Push(rowEditBetween(prev, next, fr))
				prev = next
				removed = true
				break
			}
			if !removed {
				break
			}
		}
	}
	m.snap = prev
	return m.snap, patch.Edits()
}

// rowEditBetween describes the fold-row change caused by adding or
// removing a fold over r, given the snapshots before and after.
func rowEditBetween(prev, next *Snapshot, r Range) coords.RowEdit {
	return coords.RowEdit{
		Old: coords.RowRange{Start: prev.rowForBufferRow(r.Start.Row), End: prev.rowForBufferRow(r.End.Row) + 1},
		New: coords.RowRange{Start: next.rowForBufferRow(r.Start.Row), End: next.rowForBufferRow(r.End.Row) + 1},
	}
}

func (m *Map) intersectsLocked(r Range) bool {
	for _, e := range m.folds {
		if e.start.Point().Compare(r.End) < 0 && r.Start.Compare(e.end.Point()) < 0 {
			return true
		}
	}
	return false
}

// buildSnapshot resolves anchors against an upstream snapshot, drops
// folds that edits have collapsed to nothing, and recomputes the row
// table.
func (m *Map) buildSnapshot(upstream *buffer.Snapshot) *Snapshot {
	folds := make([]Range, 0, len(m.folds))
	kept := m.folds[:0]
	for _, e := range m.folds {
		r := Range{Start: upstream.ClipPoint(e.start.Point()), End: upstream.ClipPoint(e.end.Point())}
		if r.Start.Compare(r.End) >= 0 {
			e.start.Release()
			e.end.Release()
			continue
		}
		kept = append(kept, e)
		folds = append(folds, r)
	}
	m.folds = kept

	maxRow := upstream.MaxPoint().Row
	rowStarts := make([]uint32, 0, maxRow+1)
	fi := 0
	for row := uint32(0); ; row++ {
		for fi < len(folds) && folds[fi].End.Row < row {
			fi++
		}
		covered := fi < len(folds) && folds[fi].Start.Row < row && row <= folds[fi].End.Row
		if !covered {
			rowStarts = append(rowStarts, row)
		}
		if row == maxRow {
			break
		}
	}

	return &Snapshot{buffer: upstream, folds: folds, rowStarts: rowStarts}
}
