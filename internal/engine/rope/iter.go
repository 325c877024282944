package rope

// ChunkIter iterates over the text of a byte range as a sequence of
// string chunks (one per leaf touched by the range). The iterator is
// finite and not restartable.
type ChunkIter struct {
	stack   []iterFrame
	start   int
	end     int
	chunk   string
	offset  int // byte offset of the current chunk's first byte
	started bool
}

type iterFrame struct {
	node     *node
	childIdx int
	offset   int // byte offset at the start of this node
}

// Chunks returns an iterator over the text in [start, end).
func (r Rope) Chunks(start, end int) *ChunkIter {
	it := &ChunkIter{start: start, end: min(end, r.Len())}
	if r.root != nil && it.start < it.end {
		it.stack = append(it.stack, iterFrame{node: r.root})
	}
	return it
}

// Next advances to the next chunk. It returns false when the range is
// exhausted.
func (it *ChunkIter) Next() bool {
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		n := frame.node

		if n.isLeaf() {
			it.stack = it.stack[:len(it.stack)-1]
			lo := max(it.start-frame.offset, 0)
			hi := min(it.end-frame.offset, len(n.text))
			if lo < hi {
				it.chunk = n.text[lo:hi]
				it.offset = frame.offset + lo
				it.started = true
				return true
			}
			continue
		}

		if frame.childIdx >= len(n.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		childOffset := frame.offset
		for i := 0; i < frame.childIdx; i++ {
			childOffset += n.children[i].summary.Bytes
		}
		child := n.children[frame.childIdx]
		frame.childIdx++

		childEnd := childOffset + child.summary.Bytes
		if childEnd <= it.start || childOffset >= it.end {
			continue
		}
		it.stack = append(it.stack, iterFrame{node: child, offset: childOffset})
	}

	it.chunk = ""
	return false
}

// Chunk returns the current chunk text.
func (it *ChunkIter) Chunk() string {
	return it.chunk
}

// Offset returns the byte offset of the current chunk's first byte.
func (it *ChunkIter) Offset() int {
	return it.offset
}
