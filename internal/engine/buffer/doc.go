// Package buffer provides the mutable text buffer at the root of the
// display pipeline. A Buffer wraps an immutable rope with edit
// operations, stable anchors, and a revision-stamped log of row-range
// changes that downstream layers replay incrementally.
package buffer
