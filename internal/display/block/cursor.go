package block

import "github.com/00676/displaymap/internal/display/coords"

// dimension selects which coordinate space a cursor seeks in.
type dimension uint8

const (
	dimInput dimension = iota
	dimOutput
)

func (d dimension) point(s Summary) coords.Point {
	if d == dimInput {
		return s.Input
	}
	return s.Output
}

type frame struct {
	n   *node
	idx int
}

// cursor walks the transform tree leaf by leaf, keeping the aggregate
// summary of everything before the current transform. Seeks descend
// from the root in O(log n); next, prev and slice reuse the descent
// path.
type cursor struct {
	tree  *Tree
	dim   dimension
	stack []frame // path root..leaf; empty when off either end
	start Summary // aggregate before the current transform
	off   int8    // -1 before the first leaf, +1 past the last
}

func (t *Tree) newCursor(dim dimension) *cursor {
	return &cursor{tree: t, dim: dim, off: -1}
}

func (c *cursor) clone() *cursor {
	dup := *c
	dup.stack = append([]frame(nil), c.stack...)
	return &dup
}

// item returns the current transform, or nil when the cursor is off
// either end of the tree.
func (c *cursor) item() *Transform {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1].n.transform
}

// startSummary returns the aggregate summary before the current
// transform.
func (c *cursor) startSummary() Summary {
	return c.start
}

// endSummary returns the aggregate through the current transform.
func (c *cursor) endSummary() Summary {
	if t := c.item(); t != nil {
		return c.start.Add(t.summary)
	}
	return c.start
}

// seek positions the cursor at the first transform whose end in the
// cursor's dimension is >= target (Left bias) or > target (Right
// bias). Past the last transform the cursor reports a nil item.
func (c *cursor) seek(target coords.Point, bias coords.Bias) {
	c.stack = c.stack[:0]
	c.start = Summary{}
	c.off = 0
	n := c.tree.root
	if n == nil {
		c.off = 1
		return
	}
	for {
		if n.transform != nil {
			c.stack = append(c.stack, frame{n: n})
			return
		}
		descended := false
		for i, ch := range n.children {
			end := c.dim.point(c.start.Add(ch.summary))
			cmp := end.Compare(target)
			if cmp > 0 || (bias == coords.Left && cmp == 0) {
				c.stack = append(c.stack, frame{n: n, idx: i})
				n = ch
				descended = true
				break
			}
			c.start = c.start.Add(ch.summary)
		}
		if !descended {
			c.stack = c.stack[:0]
			c.off = 1
			return
		}
	}
}

// next advances to the following transform.
func (c *cursor) next() {
	if c.off > 0 {
		return
	}
	if c.off < 0 {
		if c.tree.root == nil {
			c.off = 1
			return
		}
		c.start = Summary{}
		c.off = 0
		c.descendFirst(c.tree.root)
		return
	}
	c.skip(len(c.stack) - 1)
}

// skip advances past the whole subtree rooted at stack level j. The
// current transform must be that subtree's first leaf.
func (c *cursor) skip(j int) {
	c.start = c.start.Add(c.stack[j].n.summary)
	c.stack = c.stack[:j]
	for len(c.stack) > 0 {
		f := &c.stack[len(c.stack)-1]
		f.idx++
		if f.idx < len(f.n.children) {
			c.descendFirst(f.n.children[f.idx])
			return
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	c.off = 1
}

func (c *cursor) descendFirst(n *node) {
	for {
		c.stack = append(c.stack, frame{n: n})
		if n.transform != nil {
			return
		}
		n = n.children[0]
	}
}

func (c *cursor) descendLast(n *node) {
	for {
		if n.transform != nil {
			c.stack = append(c.stack, frame{n: n})
			return
		}
		c.stack = append(c.stack, frame{n: n, idx: len(n.children) - 1})
		n = n.children[len(n.children)-1]
	}
}

// prev moves to the preceding transform.
func (c *cursor) prev() {
	if c.off < 0 {
		return
	}
	if c.off > 0 {
		if c.tree.root == nil {
			c.off = -1
			return
		}
		c.off = 0
		c.stack = c.stack[:0]
		c.descendLast(c.tree.root)
		c.recomputeStart()
		return
	}
	j := len(c.stack) - 2
	for j >= 0 && c.stack[j].idx == 0 {
		j--
	}
	if j < 0 {
		c.stack = c.stack[:0]
		c.start = Summary{}
		c.off = -1
		return
	}
	c.stack = c.stack[:j+1]
	f := &c.stack[j]
	f.idx--
	c.descendLast(f.n.children[f.idx])
	c.recomputeStart()
}

func (c *cursor) recomputeStart() {
	var acc Summary
	for _, f := range c.stack {
		for i := 0; i < f.idx; i++ {
			acc = acc.Add(f.n.children[i].summary)
		}
	}
	c.start = acc
}

// slice advances the cursor to the first transform whose input end is
// >= target, returning the skipped subtrees in order. Reused subtrees
// keep their nodes, so the caller can hand them straight to a builder.
func (c *cursor) slice(target coords.Point) []*node {
	if c.off < 0 {
		c.next()
	}
	var parts []*node
	for c.item() != nil {
		j := c.firstLeafLevel()
		took := false
		for ; j < len(c.stack); j++ {
			cand := c.stack[j].n
			end := c.dim.point(c.start.Add(cand.summary))
			if end.Compare(target) < 0 {
				parts = append(parts, cand)
				c.skip(j)
				took = true
				break
			}
		}
		if !took {
			break
		}
	}
	return parts
}

// suffix returns every remaining subtree from the cursor position to
// the end of the tree.
func (c *cursor) suffix() []*node {
	if c.off < 0 {
		c.next()
	}
	var parts []*node
	for c.item() != nil {
		j := c.firstLeafLevel()
		parts = append(parts, c.stack[j].n)
		c.skip(j)
	}
	return parts
}

// firstLeafLevel returns the highest stack level whose subtree begins
// at the current transform.
func (c *cursor) firstLeafLevel() int {
	j := len(c.stack) - 1
	for j > 0 && c.stack[j-1].idx == 0 {
		j--
	}
	return j
}
