package buffer

import (
	"slices"

	"github.com/00676/displaymap/internal/display/coords"
)

// Anchor is a stable position in a buffer. It moves with the text it
// precedes: an edit before the anchor shifts it, an edit covering it
// collapses it to the edit's start, and an insertion exactly at the
// anchor leaves it in place (left bias).
//
// Anchors are updated in place on every edit and stay valid until
// released.
type Anchor struct {
	buffer *Buffer
	point  coords.Point
}

// AnchorBefore creates a left-biased anchor at the given point, clamped
// to the buffer's extent.
func (b *Buffer) AnchorBefore(p coords.Point) *Anchor {
	b.mu.Lock()
	defer b.mu.Unlock()

	a := &Anchor{buffer: b, point: p.Min(b.maxPointLocked())}
	b.anchors = append(b.anchors, a)
	return a
}

// Point returns the anchor's current position.
func (a *Anchor) Point() coords.Point {
	a.buffer.mu.RLock()
	defer a.buffer.mu.RUnlock()
	return a.point
}

// Release detaches the anchor; it stops tracking edits.
func (a *Anchor) Release() {
	b := a.buffer
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := slices.Index(b.anchors, a); i >= 0 {
		b.anchors = slices.Delete(b.anchors, i, i+1)
	}
}
