package buffer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrPointOutOfRange = errors.New("point out of range")
	ErrRangeInvalid    = errors.New("invalid range")
)

// RevisionID identifies a buffer state. Every successful edit advances
// the buffer's revision by one.
type RevisionID uint64

// Buffer wraps a Rope with edit operations, anchors, and an edit log.
// All methods are safe for concurrent use.
type Buffer struct {
	mu       sync.RWMutex
	rope     rope.Rope
	revision RevisionID
	anchors  []*Anchor

	// log holds one entry per revision, oldest first. logBase is the
	// revision of the first entry.
	log     []coords.RowEdit
	logBase RevisionID
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{rope: rope.New(), logBase: 1}
}

// FromString creates a buffer with initial content.
func FromString(s string) *Buffer {
	b := New()
	b.rope = rope.FromString(s)
	return b
}

// Revision returns the current revision.
func (b *Buffer) Revision() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Snapshot captures the current buffer state. The snapshot is immutable
// and safe to read while the buffer keeps changing.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{rope: b.rope, revision: b.revision}
}

// Insert inserts text at the given point and returns the resulting
// revision.
func (b *Buffer) Insert(at coords.Point, text string) (RevisionID, error) {
	return b.Replace(at, at, text)
}

// Delete removes the text between start and end and returns the
// resulting revision.
func (b *Buffer) Delete(start, end coords.Point) (RevisionID, error) {
	return b.Replace(start, end, "")
}

// Replace replaces the text between start and end with new text. The
// edit is recorded in the log and all anchors are updated in place.
func (b *Buffer) Replace(start, end coords.Point, text string) (RevisionID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start.After(end) {
		return b.revision, fmt.Errorf("%w: start %v after end %v", ErrRangeInvalid, start, end)
	}
	maxPoint := b.maxPointLocked()
	if end.After(maxPoint) {
		return b.revision, fmt.Errorf("%w: end %v past %v", ErrPointOutOfRange, end, maxPoint)
	}

	startOffset := b.rope.PointToOffset(start.Row, start.Column)
	endOffset := b.rope.PointToOffset(end.Row, end.Column)
	b.rope = b.rope.Replace(startOffset, endOffset, text)

	insertedRows := uint32(strings.Count(text, "\n"))
	b.log = append(b.log, coords.RowEdit{
		Old: coords.RowRange{Start: start.Row, End: end.Row + 1},
		New: coords.RowRange{Start: start.Row, End: start.Row + insertedRows + 1},
	})
	b.revision++

	newEnd := start.Add(textExtent(text))
	for _, a := range b.anchors {
		a.point = adjustPoint(a.point, start, end, newEnd)
	}

	return b.revision, nil
}

// ChangesSince returns the row edits applied after the given revision,
// oldest first. A revision older than the retained log returns an
// error; callers should then resync from scratch.
func (b *Buffer) ChangesSince(rev RevisionID) ([]coords.RowEdit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if rev >= b.revision {
		return nil, nil
	}
	if rev+1 < b.logBase {
		return nil, fmt.Errorf("revision %d predates retained edit log (base %d)", rev, b.logBase)
	}
	edits := b.log[rev+1-b.logBase:]
	out := make([]coords.RowEdit, len(edits))
	copy(out, edits)
	return out, nil
}

// TrimLog discards log entries at or below the given revision. Callers
// trim once every consumer has caught up past rev.
func (b *Buffer) TrimLog(rev RevisionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if rev+1 <= b.logBase {
		return
	}
	keepFrom := rev + 1
	if keepFrom > b.revision+1 {
		keepFrom = b.revision + 1
	}
	b.log = append([]coords.RowEdit(nil), b.log[keepFrom-b.logBase:]...)
	b.logBase = keepFrom
}

func (b *Buffer) maxPointLocked() coords.Point {
	row := b.rope.Lines()
	return coords.Point{Row: row, Column: b.rope.LineLen(row)}
}

// MaxPoint returns the position just past the last character.
func (b *Buffer) MaxPoint() coords.Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.maxPointLocked()
}

// textExtent returns the extent of a string as a Point: rows is the
// newline count, column the length of the final line.
func textExtent(text string) coords.Point {
	summary := rope.FromString(text).Summary()
	return coords.Point{Row: summary.Lines, Column: summary.LastLineLen}
}

// adjustPoint maps a left-biased position across a replace of
// [start, end) by text ending at newEnd.
func adjustPoint(p, start, end, newEnd coords.Point) coords.Point {
	if p.Compare(start) <= 0 {
		return p
	}
	if p.Compare(end) <= 0 {
		return start
	}
	if p.Row == end.Row {
		return coords.Point{Row: newEnd.Row, Column: newEnd.Column + (p.Column - end.Column)}
	}
	return coords.Point{Row: p.Row + newEnd.Row - end.Row, Column: p.Column}
}
