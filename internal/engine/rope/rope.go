package rope

import "strings"

// Rope is an immutable rope. Operations return new Rope values; the
// original is never modified, so snapshots are cheap and safe to share.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return Rope{root: buildFromChildren(leafChunks(s))}
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// Lines returns the number of newline characters.
func (r Rope) Lines() uint32 {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Lines
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	return r.Lines() + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() Summary {
	if r.root == nil {
		return Summary{}
	}
	return r.root.summary
}

// String returns the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end int) string {
	if r.root == nil || start >= end {
		return ""
	}
	end = min(end, r.Len())
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

// Split splits the rope at offset; the left rope holds [0, offset).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := splitNode(r.root, offset)
	return Rope{root: left}, Rope{root: right}
}

// Insert inserts text at the given byte offset.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes text in the byte range [start, end).
func (r Rope) Delete(start, end int) Rope {
	if start >= end || start >= r.Len() {
		return r
	}
	left, rest := r.Split(start)
	_, right := rest.Split(min(end, r.Len()) - start)
	return left.Concat(right)
}

// Replace replaces the byte range [start, end) with new text.
func (r Rope) Replace(start, end int, text string) Rope {
	return r.Delete(start, end).Insert(start, text)
}

// LineStartOffset returns the byte offset of the start of the given
// 0-indexed line. Lines past the end resolve to the rope's length.
func (r Rope) LineStartOffset(line uint32) int {
	if r.root == nil || line == 0 {
		return 0
	}
	if line > r.Lines() {
		return r.Len()
	}

	// Descend, consuming whole subtrees that end before the target
	// newline.
	n := r.root
	offset := 0
	remaining := line // number of newlines to skip
	for !n.isLeaf() {
		for _, child := range n.children {
			if child.summary.Lines >= remaining {
				n = child
				break
			}
			remaining -= child.summary.Lines
			offset += child.summary.Bytes
		}
	}

	for i := 0; i < len(n.text); i++ {
		if n.text[i] == '\n' {
			remaining--
			if remaining == 0 {
				return offset + i + 1
			}
		}
	}
	return r.Len()
}

// LineEndOffset returns the byte offset just past the last character of
// the given line (excluding its newline).
func (r Rope) LineEndOffset(line uint32) int {
	if line >= r.Lines() {
		return r.Len()
	}
	return r.LineStartOffset(line+1) - 1
}

// LineLen returns the byte length of the given line, excluding its
// newline.
func (r Rope) LineLen(line uint32) uint32 {
	return uint32(r.LineEndOffset(line) - r.LineStartOffset(line))
}

// LineText returns the text of the given line, excluding its newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset to a 0-indexed (row, column)
// pair. Offsets past the end clamp to the final point.
func (r Rope) OffsetToPoint(offset int) (row, column uint32) {
	if r.root == nil || offset <= 0 {
		return 0, 0
	}
	if offset > r.Len() {
		offset = r.Len()
	}

	n := r.root
	pos := 0
	var lines uint32
	for !n.isLeaf() {
		for _, child := range n.children {
			if pos+child.summary.Bytes >= offset {
				n = child
				break
			}
			pos += child.summary.Bytes
			lines += child.summary.Lines
		}
	}

	for i := 0; i < offset-pos; i++ {
		if n.text[i] == '\n' {
			lines++
		}
	}

	return lines, uint32(offset - r.LineStartOffset(lines))
}

// PointToOffset converts a (row, column) pair to a byte offset,
// clamping the column to the row's length.
func (r Rope) PointToOffset(row, column uint32) int {
	start := r.LineStartOffset(row)
	end := r.LineEndOffset(row)
	if int(column) > end-start {
		return end
	}
	return start + int(column)
}
