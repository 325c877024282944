package block

import "github.com/00676/displaymap/internal/display/coords"

// Summary aggregates the extents of a run of transforms. Input is the
// wrap-space extent consumed, Output the block-space extent produced.
// LongestRow/LongestChars track the widest rendered block line in the
// run (row offset relative to the run's output start), so layout
// queries never scan block text.
type Summary struct {
	Input        coords.Point
	Output       coords.Point
	LongestRow   uint32
	LongestChars uint32
}

// Add combines two adjacent summaries.
func (s Summary) Add(other Summary) Summary {
	r := Summary{
		Input:        s.Input.Add(other.Input),
		Output:       s.Output.Add(other.Output),
		LongestRow:   s.LongestRow,
		LongestChars: s.LongestChars,
	}
	if other.LongestChars > s.LongestChars {
		r.LongestRow = s.Output.Row + other.LongestRow
		r.LongestChars = other.LongestChars
	}
	return r
}

// Transform is one node of the block layer's mapping: either an
// isomorphic run (equal input and output extents) or a block (no input,
// output covering the block's rendered lines).
type Transform struct {
	summary Summary
	block   *Block // nil for isomorphic runs
	column  uint32 // padding column, recomputed from the anchor each sync
}

func isomorphic(extent coords.Point) Transform {
	return Transform{summary: Summary{Input: extent, Output: extent}}
}

// blockTransform builds the transform for a block. An Above block
// renders as its lines each followed by a line break; a Below block as
// a line break followed by its lines, so its extent ends mid-row.
func blockTransform(b *Block, column uint32) Transform {
	lines := b.text.Lines() + 1
	var longestRow, longestChars uint32
	for i := uint32(0); i < lines; i++ {
		l := paddedLineLen(b.text.LineLen(i), column)
		if l > longestChars {
			longestChars = l
			longestRow = i
		}
	}

	output := coords.Point{Row: lines}
	if b.disposition == Below {
		output.Column = paddedLineLen(b.text.LineLen(lines-1), column)
		longestRow++
	}
	return Transform{
		summary: Summary{Output: output, LongestRow: longestRow, LongestChars: longestChars},
		block:   b,
		column:  column,
	}
}

// paddedLineLen is the rendered length of a block line: padding only
// applies to non-empty lines.
func paddedLineLen(textLen, column uint32) uint32 {
	if textLen == 0 {
		return 0
	}
	return textLen + column
}

func (t *Transform) isIsomorphic() bool {
	return t.block == nil
}

// Tree is an immutable summary-augmented B+ tree of transforms.
// Subtrees are shared freely between trees, which is what makes each
// sync's prefix/suffix reuse cheap.
type Tree struct {
	root *node
}

func (t *Tree) summary() Summary {
	if t == nil || t.root == nil {
		return Summary{}
	}
	return t.root.summary
}

// maxTreeChildren is the maximum children per internal tree node.
const maxTreeChildren = 8

// node is a tree node: leaves hold one transform, internal nodes hold
// children. Nodes are never mutated after construction.
type node struct {
	height    uint8
	summary   Summary
	children  []*node
	transform *Transform // leaf only
}

func newLeafNode(t Transform) *node {
	return &node{summary: t.summary, transform: &t}
}

func newInternalNode(children []*node) *node {
	sum := children[0].summary
	for _, ch := range children[1:] {
		sum = sum.Add(ch.summary)
	}
	return &node{height: children[0].height + 1, summary: sum, children: children}
}

// buildNodes assembles a balanced tree from same-height nodes.
func buildNodes(children []*node) *node {
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= maxTreeChildren {
		return newInternalNode(children)
	}
	var parents []*node
	for i := 0; i < len(children); i += maxTreeChildren {
		end := min(i+maxTreeChildren, len(children))
		parents = append(parents, newInternalNode(children[i:end:end]))
	}
	return buildNodes(parents)
}

// concatTreeNodes concatenates two subtrees, equalizing heights.
func concatTreeNodes(left, right *node) *node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	for left.height < right.height {
		left = newInternalNode([]*node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*node{right})
	}
	if left.transform != nil {
		return newInternalNode([]*node{left, right})
	}
	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildNodes(all)
}

// builder accumulates transforms and reused subtrees during a sync,
// producing a balanced tree at the end. Trailing isomorphic transforms
// merge in place instead of allocating new nodes.
type builder struct {
	parts   []*node
	pending []Transform
	sum     Summary
}

func (b *builder) pushTransform(t Transform) {
	b.pending = append(b.pending, t)
	b.sum = b.sum.Add(t.summary)
}

// pushIsomorphic extends the trailing isomorphic transform or starts a
// new one. Zero extents are dropped.
func (b *builder) pushIsomorphic(extent coords.Point) {
	if extent.IsZero() {
		return
	}
	if n := len(b.pending); n > 0 && b.pending[n-1].isIsomorphic() && !b.pending[n-1].summary.Input.IsZero() {
		b.pending[n-1].summary.Input = b.pending[n-1].summary.Input.Add(extent)
		b.pending[n-1].summary.Output = b.pending[n-1].summary.Output.Add(extent)
	} else {
		b.pending = append(b.pending, isomorphic(extent))
	}
	b.sum = b.sum.Add(Summary{Input: extent, Output: extent})
}

// pushParts appends reused subtrees from the old tree.
func (b *builder) pushParts(parts []*node) {
	if len(parts) == 0 {
		return
	}
	b.flush()
	for _, p := range parts {
		b.parts = append(b.parts, p)
		b.sum = b.sum.Add(p.summary)
	}
}

func (b *builder) flush() {
	for _, t := range b.pending {
		b.parts = append(b.parts, newLeafNode(t))
	}
	b.pending = b.pending[:0]
}

// lastTransform returns the most recently pushed transform, or nil for
// an empty builder.
func (b *builder) lastTransform() *Transform {
	if n := len(b.pending); n > 0 {
		return &b.pending[n-1]
	}
	n := lastNode(b.parts)
	if n == nil {
		return nil
	}
	return n.transform
}

func lastNode(parts []*node) *node {
	if len(parts) == 0 {
		return nil
	}
	n := parts[len(parts)-1]
	for n.transform == nil {
		n = n.children[len(n.children)-1]
	}
	return n
}

// ensureTrailingIsomorphic appends a zero-extent isomorphic transform
// when the tree would otherwise end with an Above block, so the final
// row boundary always has a landing transform.
func (b *builder) ensureTrailingIsomorphic() {
	last := b.lastTransform()
	if last == nil || (last.block != nil && last.block.disposition == Above) {
		b.pushTransform(isomorphic(coords.Point{}))
	}
}

func (b *builder) build() *Tree {
	b.flush()
	var root *node
	for _, p := range b.parts {
		root = concatTreeNodes(root, p)
	}
	return &Tree{root: root}
}
