// Package rope implements an immutable rope over a B+ tree whose nodes
// carry aggregated text metrics (bytes, newlines, line lengths). All
// operations return new ropes and share structure with their inputs,
// which makes snapshots cheap and read access safe across goroutines.
//
// The display pipeline uses ropes in two places: the text buffer at the
// head of the pipeline, and the literal text carried by each block
// decoration. Both need the same queries: O(log n) offset/point
// conversion, per-line lengths answered from subtree summaries, and
// chunked iteration over byte ranges.
package rope
