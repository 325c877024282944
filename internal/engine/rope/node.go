package rope

import (
	"strings"
	"unicode/utf8"
)

// Tree structure constants.
const (
	// maxChildren is the maximum children per internal node.
	maxChildren = 8

	// maxLeafBytes is the target byte length of a leaf's text.
	maxLeafBytes = 64
)

// node is a node in the rope B+ tree. Leaf nodes (height == 0) hold a
// span of text; internal nodes hold child references. Nodes are never
// mutated after construction, so subtrees are freely shared between
// ropes.
type node struct {
	height   uint8
	summary  Summary
	children []*node // internal nodes only
	text     string  // leaf nodes only
}

// newLeaf creates a leaf node holding the given text.
func newLeaf(text string) *node {
	return &node{height: 0, summary: computeSummary(text), text: text}
}

// newInternal creates an internal node over the given children.
// Children may differ in height near split boundaries; traversal relies
// on summaries only, so the height field is advisory.
func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf("")
	}

	var sum Summary
	for _, child := range children {
		sum = sum.Add(child.summary)
	}
	return &node{
		height:   children[0].height + 1,
		summary:  sum,
		children: children,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// buildFromChildren assembles a balanced tree from same-height nodes.
func buildFromChildren(children []*node) *node {
	if len(children) == 0 {
		return newLeaf("")
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= maxChildren {
		return newInternal(children)
	}

	var parents []*node
	for i := 0; i < len(children); i += maxChildren {
		end := min(i+maxChildren, len(children))
		parents = append(parents, newInternal(children[i:end:end]))
	}
	return buildFromChildren(parents)
}

// concatNodes concatenates two subtrees, rebalancing as needed.
func concatNodes(left, right *node) *node {
	if left == nil || left.summary.Bytes == 0 {
		if right == nil {
			return newLeaf("")
		}
		return right
	}
	if right == nil || right.summary.Bytes == 0 {
		return left
	}

	if left.isLeaf() && right.isLeaf() {
		if left.summary.Bytes+right.summary.Bytes <= maxLeafBytes {
			return newLeaf(left.text + right.text)
		}
		return newInternal([]*node{left, right})
	}

	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	if left.isLeaf() {
		return newInternal([]*node{left, right})
	}

	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildFromChildren(all)
}

// splitNode splits a subtree at the given byte offset. The left result
// covers [0, offset), the right covers [offset, end).
func splitNode(n *node, offset int) (*node, *node) {
	if offset <= 0 {
		return newLeaf(""), n
	}
	if offset >= n.summary.Bytes {
		return n, newLeaf("")
	}

	if n.isLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}

	var left, right []*node
	pos := 0
	for _, child := range n.children {
		childEnd := pos + child.summary.Bytes
		switch {
		case childEnd <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			l, r := splitNode(child, offset-pos)
			if l.summary.Bytes > 0 {
				left = append(left, l)
			}
			if r.summary.Bytes > 0 {
				right = append(right, r)
			}
		}
		pos = childEnd
	}

	return buildFromChildren(left), buildFromChildren(right)
}

// appendTo appends all text in this subtree to the builder.
func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		sb.WriteString(n.text)
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the byte range [start, end) to the builder.
func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.isLeaf() {
		start = max(start, 0)
		end = min(end, len(n.text))
		if start < end {
			sb.WriteString(n.text[start:end])
		}
		return
	}

	pos := 0
	for _, child := range n.children {
		childEnd := pos + child.summary.Bytes
		if childEnd > start && pos < end {
			child.appendRange(sb, start-pos, end-pos)
		}
		if childEnd >= end {
			break
		}
		pos = childEnd
	}
}

// leafChunks splits text into leaf nodes of at most maxLeafBytes,
// breaking only at rune boundaries.
func leafChunks(s string) []*node {
	var leaves []*node
	for len(s) > 0 {
		n := min(maxLeafBytes, len(s))
		// Back off to a rune boundary.
		for n < len(s) && !utf8.RuneStart(s[n]) {
			n--
		}
		leaves = append(leaves, newLeaf(s[:n]))
		s = s[n:]
	}
	return leaves
}
