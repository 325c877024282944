package block

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/fold"
	"github.com/00676/displaymap/internal/display/style"
	"github.com/00676/displaymap/internal/display/tab"
	"github.com/00676/displaymap/internal/display/wrap"
	"github.com/00676/displaymap/internal/engine/buffer"
)

// pipeline wires the full display chain for tests and propagates
// buffer edits through every stage.
type pipeline struct {
	buf    *buffer.Buffer
	fold   *fold.Map
	tab    *tab.Map
	wrap   *wrap.Map
	blocks *Map
	rev    buffer.RevisionID
}

func newPipeline(text string, wrapWidth uint32) *pipeline {
	buf := buffer.FromString(text)
	foldMap, foldSnap := fold.NewMap(buf)
	tabMap, tabSnap := tab.NewMap(foldSnap, 4)
	wrapMap, wrapSnap := wrap.NewMap(tabSnap, wrapWidth)
	blockMap, _ := NewMap(buf, wrapSnap)
	return &pipeline{
		buf:    buf,
		fold:   foldMap,
		tab:    tabMap,
		wrap:   wrapMap,
		blocks: blockMap,
		rev:    buf.Revision(),
	}
}

func (p *pipeline) propagate() (*wrap.Snapshot, []coords.RowEdit) {
	bufEdits, err := p.buf.ChangesSince(p.rev)
	if err != nil {
		panic(err)
	}
	p.rev = p.buf.Revision()
	foldSnap, foldEdits := p.fold.Sync(p.buf.Snapshot(), bufEdits)
	tabSnap, tabEdits := p.tab.Sync(foldSnap, foldEdits)
	return p.wrap.Sync(tabSnap, tabEdits)
}

func (p *pipeline) read() *Snapshot {
	return p.blocks.Read(p.propagate())
}

func (p *pipeline) write() *Writer {
	return p.blocks.Write(p.propagate())
}

func (p *pipeline) foldRange(r fold.Range) *Snapshot {
	foldSnap, foldEdits := p.fold.Fold([]fold.Range{r})
	tabSnap, tabEdits := p.tab.Sync(foldSnap, foldEdits)
	return p.blocks.Read(p.wrap.Sync(tabSnap, tabEdits))
}

func snapText(s *Snapshot) string {
	var sb strings.Builder
	for it := s.Chunks(coords.RowRange{Start: 0, End: s.RowCount()}, nil); it.Next(); {
		sb.WriteString(it.Chunk().Text)
	}
	return sb.String()
}

func pt(row, col uint32) coords.Point {
	return coords.Point{Row: row, Column: col}
}

func TestBlocksAboveAndBelow(t *testing.T) {
	p := newPipeline("aaa\nbbb\nccc\nddd", 0)
	ids := p.write().Insert(
		Properties{Position: pt(1, 0), Text: "BLOCK 1"},
		Properties{Position: pt(1, 2), Text: "BLOCK 2"},
		Properties{Position: pt(3, 2), Text: "BLOCK 3", Disposition: Below},
	)
	if len(ids) != 3 {
		t.Fatalf("Insert returned %d ids", len(ids))
	}
	snap := p.read()

	want := "aaa\nBLOCK 1\n  BLOCK 2\nbbb\nccc\nddd\n  BLOCK 3"
	if got := snapText(snap); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if got := snap.RowCount(); got != 7 {
		t.Errorf("RowCount = %d, want 7", got)
	}
	if got := snap.MaxPoint(); got != pt(6, 9) {
		t.Errorf("MaxPoint = %v, want (6:9)", got)
	}

	wantLens := []uint32{3, 7, 9, 3, 3, 3, 9}
	for row, want := range wantLens {
		if got := snap.LineLen(uint32(row)); got != want {
			t.Errorf("LineLen(%d) = %d, want %d", row, got, want)
		}
	}

	if row, chars := snap.LongestRow(); row != 2 || chars != 9 {
		t.Errorf("LongestRow = (%d, %d), want (2, 9)", row, chars)
	}

	wantIDs := map[uint32]ID{1: ids[0], 2: ids[1], 6: ids[2]}
	for row := uint32(0); row < snap.RowCount(); row++ {
		want, isBlock := wantIDs[row]
		b := snap.BlockForRow(row)
		if !isBlock {
			if b != nil {
				t.Errorf("BlockForRow(%d) = id %d, want nil", row, b.ID())
			}
			continue
		}
		if b == nil || b.ID() != want {
			t.Errorf("BlockForRow(%d) = %v, want id %d", row, b, want)
		}
	}
}

func TestPointMapping(t *testing.T) {
	p := newPipeline("aaa\nbbb\nccc\nddd", 0)
	p.write().Insert(
		Properties{Position: pt(1, 0), Text: "BLOCK 1"},
		Properties{Position: pt(1, 2), Text: "BLOCK 2"},
		Properties{Position: pt(3, 2), Text: "BLOCK 3", Disposition: Below},
	)
	snap := p.read()

	toWrap := []struct{ in, want coords.Point }{
		{pt(0, 2), pt(0, 2)},
		{pt(1, 5), pt(1, 0)}, // Above block row: start of next real row
		{pt(2, 0), pt(1, 0)},
		{pt(3, 0), pt(1, 0)},
		{pt(4, 1), pt(2, 1)},
		{pt(6, 2), pt(3, 3)}, // Below block row: end of previous real row
		{pt(7, 0), pt(3, 3)},
	}
	for _, tt := range toWrap {
		if got := snap.ToWrapPoint(tt.in); got != tt.want {
			t.Errorf("ToWrapPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	toBlock := []struct{ in, want coords.Point }{
		{pt(0, 0), pt(0, 0)},
		{pt(1, 0), pt(3, 0)}, // lands past the Above blocks
		{pt(2, 2), pt(4, 2)},
		{pt(3, 0), pt(5, 0)},
		{pt(3, 3), pt(5, 3)}, // stays before the Below block
	}
	for _, tt := range toBlock {
		if got := snap.ToBlockPoint(tt.in); got != tt.want {
			t.Errorf("ToBlockPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	// Round trip through every real position.
	for row := uint32(0); row < snap.RowCount(); row++ {
		if snap.IsBlockRow(row) {
			continue
		}
		for col := uint32(0); col <= snap.LineLen(row); col++ {
			bp := pt(row, col)
			if got := snap.ToBlockPoint(snap.ToWrapPoint(bp)); got != bp {
				t.Errorf("round trip %v -> %v -> %v", bp, snap.ToWrapPoint(bp), got)
			}
		}
	}
}

func TestClipPoint(t *testing.T) {
	p := newPipeline("aaa\nbbb\nccc\nddd", 0)
	p.write().Insert(
		Properties{Position: pt(1, 0), Text: "BLOCK 1"},
		Properties{Position: pt(1, 2), Text: "BLOCK 2"},
		Properties{Position: pt(3, 2), Text: "BLOCK 3", Disposition: Below},
	)
	snap := p.read()

	tests := []struct {
		in   coords.Point
		bias coords.Bias
		want coords.Point
	}{
		{pt(0, 1), coords.Left, pt(0, 1)},
		{pt(0, 9), coords.Left, pt(0, 3)},
		{pt(1, 3), coords.Left, pt(0, 3)},  // inside Above block
		{pt(1, 3), coords.Right, pt(3, 0)}, // inside Above block
		{pt(2, 0), coords.Left, pt(0, 3)},
		{pt(2, 0), coords.Right, pt(3, 0)},
		{pt(3, 1), coords.Left, pt(3, 1)},
		{pt(5, 3), coords.Left, pt(5, 3)},  // end of last real row
		{pt(6, 4), coords.Left, pt(5, 3)},  // inside trailing Below block
		{pt(6, 4), coords.Right, pt(5, 3)}, // nothing after the block
		{pt(6, 9), coords.Right, pt(5, 3)},
		{pt(99, 0), coords.Left, pt(5, 3)},
	}
	for _, tt := range tests {
		if got := snap.ClipPoint(tt.in, tt.bias); got != tt.want {
			t.Errorf("ClipPoint(%v, %v) = %v, want %v", tt.in, tt.bias, got, tt.want)
		}
	}
}

func TestRowInfos(t *testing.T) {
	p := newPipeline("aaa\nbbb\nccc\nddd", 0)
	ids := p.write().Insert(
		Properties{Position: pt(1, 0), Text: "BLOCK 1"},
		Properties{Position: pt(1, 2), Text: "BLOCK 2"},
		Properties{Position: pt(3, 2), Text: "BLOCK 3", Disposition: Below},
	)
	snap := p.read()

	var kinds []RowKind
	var blockIDs []ID
	for it := snap.RowInfos(0); it.Next(); {
		info := it.Info()
		kinds = append(kinds, info.Kind)
		if info.Kind == RowBlock {
			blockIDs = append(blockIDs, info.Block.ID())
		}
	}
	wantKinds := []RowKind{RowBuffer, RowBlock, RowBlock, RowBuffer, RowBuffer, RowBuffer, RowBlock}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("kinds = %v, want %v", kinds, wantKinds)
	}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] {
			t.Errorf("row %d kind = %v, want %v", i, kinds[i], wantKinds[i])
		}
	}
	if len(blockIDs) != 3 || blockIDs[0] != ids[0] || blockIDs[1] != ids[1] || blockIDs[2] != ids[2] {
		t.Errorf("block ids = %v, want %v", blockIDs, ids)
	}
}

func TestEditRepositionsBlocks(t *testing.T) {
	p := newPipeline("aaa\nbbb\nccc\nddd", 0)
	p.write().Insert(
		Properties{Position: pt(1, 0), Text: "BLOCK 1"},
		Properties{Position: pt(1, 2), Text: "BLOCK 2"},
		Properties{Position: pt(3, 2), Text: "BLOCK 3", Disposition: Below},
	)
	p.read()

	// Splitting row 1 carries BLOCK 2's anchor onto the new row and
	// narrows its padding to the anchor's new column.
	if _, err := p.buf.Insert(pt(1, 1), "!!!\n"); err != nil {
		t.Fatal(err)
	}
	snap := p.read()

	want := "aaa\nBLOCK 1\nb!!!\n BLOCK 2\nbb\nccc\nddd\n  BLOCK 3"
	if got := snapText(snap); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestEmptyBlockLine(t *testing.T) {
	p := newPipeline("aaa", 0)
	p.write().Insert(Properties{Position: pt(0, 2), Text: "", Disposition: Below})
	snap := p.read()

	if got := snapText(snap); got != "aaa\n" {
		t.Errorf("text = %q, want %q", got, "aaa\n")
	}
	if got := snap.RowCount(); got != 2 {
		t.Errorf("RowCount = %d, want 2", got)
	}
	// The empty line renders with no padding.
	if got := snap.LineLen(1); got != 0 {
		t.Errorf("LineLen(1) = %d, want 0", got)
	}
	if b := snap.BlockForRow(1); b == nil {
		t.Error("BlockForRow(1) = nil, want the empty block")
	}
}

func TestAboveBlockFirstLineLen(t *testing.T) {
	p := newPipeline("aaa\nbbb", 0)
	p.write().Insert(Properties{Position: pt(1, 2), Text: "NOTE"})
	snap := p.read()

	if got := snapText(snap); got != "aaa\n  NOTE\nbbb" {
		t.Fatalf("text = %q", got)
	}
	// The padded first line of an Above block, not the zero column of
	// the row boundary before it.
	if got := snap.LineLen(1); got != 6 {
		t.Errorf("LineLen(1) = %d, want 6", got)
	}
}

func TestMultiLineBlock(t *testing.T) {
	p := newPipeline("aaa\nbbb", 0)
	p.write().Insert(Properties{Position: pt(1, 1), Text: "one\ntwo"})
	snap := p.read()

	want := "aaa\n one\n two\nbbb"
	if got := snapText(snap); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestBlockOnEmptyBuffer(t *testing.T) {
	p := newPipeline("", 0)
	p.write().Insert(Properties{Position: pt(0, 0), Text: "BLK"})
	snap := p.read()

	if got := snapText(snap); got != "BLK\n" {
		t.Errorf("text = %q, want %q", got, "BLK\n")
	}
	var kinds []RowKind
	for it := snap.RowInfos(0); it.Next(); {
		kinds = append(kinds, it.Info().Kind)
	}
	if len(kinds) != 2 || kinds[0] != RowBlock || kinds[1] != RowBuffer {
		t.Errorf("kinds = %v, want [block buffer]", kinds)
	}
}

func TestRemove(t *testing.T) {
	p := newPipeline("aaa\nbbb", 0)
	w := p.write()
	ids := w.Insert(
		Properties{Position: pt(0, 0), Text: "FIRST"},
		Properties{Position: pt(1, 0), Text: "SECOND", Disposition: Below},
	)
	if got := snapText(p.read()); got != "FIRST\naaa\nbbb\nSECOND" {
		t.Fatalf("text = %q", got)
	}

	p.write().Remove(ids[0])
	if got := snapText(p.read()); got != "aaa\nbbb\nSECOND" {
		t.Errorf("after first removal text = %q", got)
	}

	p.write().Remove(ids[1])
	snap := p.read()
	if got := snapText(snap); got != "aaa\nbbb" {
		t.Errorf("after second removal text = %q", got)
	}
	if got := snap.RowCount(); got != 2 {
		t.Errorf("RowCount = %d, want 2", got)
	}
}

func TestWrappedRows(t *testing.T) {
	p := newPipeline("aaaa bbbb", 5)
	p.write().Insert(Properties{Position: pt(0, 7), Text: "dg", Disposition: Below})
	snap := p.read()

	// Wrap rows: "aaaa " / "bbbb"; the block pads to the anchor's wrap
	// column, not its buffer column.
	if got := snapText(snap); got != "aaaa \nbbbb\n  dg" {
		t.Fatalf("text = %q", got)
	}

	var kinds []RowKind
	for it := snap.RowInfos(0); it.Next(); {
		kinds = append(kinds, it.Info().Kind)
	}
	want := []RowKind{RowBuffer, RowWrap, RowBlock}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("row %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestFoldedRows(t *testing.T) {
	p := newPipeline("aaa\nbbb\nccc\nddd", 0)
	p.write().Insert(Properties{Position: pt(3, 0), Text: "BLK"})
	if got := snapText(p.read()); got != "aaa\nbbb\nccc\nBLK\nddd" {
		t.Fatalf("text = %q", got)
	}

	snap := p.foldRange(fold.Range{Start: pt(1, 1), End: pt(2, 1)})
	if got := snapText(snap); got != "aaa\nb…cc\nBLK\nddd" {
		t.Errorf("text after fold = %q", got)
	}
}

func TestReadWithoutEditsKeepsTree(t *testing.T) {
	p := newPipeline("aaa\nbbb", 0)
	p.write().Insert(Properties{Position: pt(1, 0), Text: "BLK"})
	snap1 := p.read()
	snap2 := p.read()
	if snap1.tree != snap2.tree {
		t.Error("no-op read rebuilt the transform tree")
	}
}

func TestRestyle(t *testing.T) {
	p := newPipeline("aaa", 0)
	red := style.New(style.RGB(255, 0, 0))
	ids := p.write().Insert(Properties{
		Position: pt(0, 0),
		Text:     "BLOCK",
		Source:   style.Static(style.Run{Len: 5, Style: red}),
	})
	theme := style.DefaultTheme()
	snap := p.read()

	find := func(s *Snapshot) (style.Style, bool) {
		for it := s.Chunks(coords.RowRange{Start: 0, End: 1}, theme); it.Next(); {
			if it.Chunk().Text == "BLOCK" {
				return it.Chunk().Style, true
			}
		}
		return style.Style{}, false
	}

	if st, ok := find(snap); !ok || st != red {
		t.Fatalf("styled chunk = %v ok=%v, want %v", st, ok, red)
	}

	blue := style.New(style.RGB(0, 0, 255))
	p.blocks.Restyle(map[ID]style.Source{
		ids[0]: style.Static(style.Run{Len: 5, Style: blue}),
	})
	if st, ok := find(p.read()); !ok || st != blue {
		t.Errorf("restyled chunk = %v ok=%v, want %v", st, ok, blue)
	}
}

func TestPaddingChunks(t *testing.T) {
	p := newPipeline("aaa\nbbb", 0)
	p.write().Insert(Properties{Position: pt(1, 2), Text: "NOTE"})
	snap := p.read()

	var texts []string
	for it := snap.Chunks(coords.RowRange{Start: 1, End: 2}, nil); it.Next(); {
		texts = append(texts, it.Chunk().Text)
	}
	want := []string{"  ", "NOTE"}
	if len(texts) != len(want) || texts[0] != want[0] || texts[1] != want[1] {
		t.Errorf("chunks = %q, want %q", texts, want)
	}
}

// renderReference renders the expected output rows by brute force:
// for each buffer row, its Above block lines, the row itself, then its
// Below block lines. Valid only without folds, tabs, or wrapping.
func renderReference(buf *buffer.Snapshot, blocks []*Block) []string {
	byRow := func(row uint32, d Disposition) []*Block {
		var out []*Block
		for _, b := range blocks {
			if b.disposition == d && b.anchor.Point().Row == row {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
		return out
	}
	blockLines := func(b *Block) []string {
		col := b.anchor.Point().Column
		count := b.text.Lines() + 1
		lines := make([]string, 0, count)
		for i := uint32(0); i < count; i++ {
			txt := b.text.LineText(i)
			if txt != "" {
				txt = strings.Repeat(" ", int(col)) + txt
			}
			lines = append(lines, txt)
		}
		return lines
	}

	var lines []string
	for row := uint32(0); row < buf.LineCount(); row++ {
		for _, b := range byRow(row, Above) {
			lines = append(lines, blockLines(b)...)
		}
		lines = append(lines, buf.LineText(row))
		for _, b := range byRow(row, Below) {
			lines = append(lines, blockLines(b)...)
		}
	}
	return lines
}

func TestRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", "x", "note", "first\nsecond", "a\n\nb"}

	for iter := 0; iter < 40; iter++ {
		p := newPipeline(randomText(rng), 0)
		var ids []ID

		for op := 0; op < 12; op++ {
			switch rng.Intn(4) {
			case 0, 1:
				pos := randomPoint(rng, p.buf.Snapshot())
				d := Disposition(rng.Intn(2))
				newIDs := p.write().Insert(Properties{
					Position:    pos,
					Text:        texts[rng.Intn(len(texts))],
					Disposition: d,
				})
				ids = append(ids, newIDs...)
			case 2:
				if len(ids) > 0 {
					i := rng.Intn(len(ids))
					p.write().Remove(ids[i])
					ids = append(ids[:i], ids[i+1:]...)
				}
			case 3:
				buf := p.buf.Snapshot()
				start := randomPoint(rng, buf)
				end := randomPoint(rng, buf)
				if end.Before(start) {
					start, end = end, start
				}
				insert := []string{"", "z", "zz\nz", "\n"}[rng.Intn(4)]
				if _, err := p.buf.Replace(start, end, insert); err != nil {
					t.Fatalf("iter %d op %d: %v", iter, op, err)
				}
			}

			snap := p.read()
			ref := renderReference(p.buf.Snapshot(), p.blocks.blocks)
			checkAgainstReference(t, fmt.Sprintf("iter %d op %d", iter, op), snap, ref)
		}
	}
}

func checkAgainstReference(t *testing.T, tag string, snap *Snapshot, ref []string) {
	t.Helper()
	if got, want := snapText(snap), strings.Join(ref, "\n"); got != want {
		t.Fatalf("%s: text = %q, want %q", tag, got, want)
	}
	if got := snap.RowCount(); got != uint32(len(ref)) {
		t.Fatalf("%s: RowCount = %d, want %d", tag, got, len(ref))
	}
	for row := range ref {
		if got := snap.LineLen(uint32(row)); got != uint32(len(ref[row])) {
			t.Fatalf("%s: LineLen(%d) = %d, want %d", tag, row, got, len(ref[row]))
		}
	}

	// Point mapping round trip over real rows.
	buf := snap.Wrap().Buffer()
	for row := uint32(0); row < buf.LineCount(); row++ {
		for _, col := range []uint32{0, buf.LineLen(row)} {
			bp := pt(row, col)
			got := snap.ToBufferPoint(snap.FromBufferPoint(bp, coords.Left), coords.Left)
			if got != bp {
				t.Fatalf("%s: buffer round trip %v -> %v", tag, bp, got)
			}
		}
	}

	// Clip ordering and idempotence.
	for row := uint32(0); row < snap.RowCount(); row += 1 + row/7 {
		for _, col := range []uint32{0, 1, snap.LineLen(row) + 1} {
			probe := pt(row, col)
			left := snap.ClipPoint(probe, coords.Left)
			right := snap.ClipPoint(probe, coords.Right)
			if right.Before(left) {
				t.Fatalf("%s: clip(%v): left %v after right %v", tag, probe, left, right)
			}
			if again := snap.ClipPoint(left, coords.Left); again != left {
				t.Fatalf("%s: clip not idempotent at %v: %v -> %v", tag, probe, left, again)
			}
		}
	}
}

func (p *pipeline) setWrapWidth(width uint32) *Snapshot {
	p.blocks.Read(p.propagate())
	return p.blocks.Read(p.wrap.SetWrapWidth(width))
}

// TestRandomizedWrapWidths interleaves edits and block mutations with
// wrap-width changes. There is no brute-force text reference once rows
// soft-wrap, so it checks the structural invariants instead: row
// accounting against the wrap stage, point mapping round trips over
// real rows, and clip ordering.
func TestRandomizedWrapWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	texts := []string{"", "x", "note", "first\nsecond"}

	for iter := 0; iter < 30; iter++ {
		p := newPipeline(randomText(rng), uint32(rng.Intn(13)))
		var ids []ID
		snap := p.read()

		for op := 0; op < 15; op++ {
			switch rng.Intn(5) {
			case 0, 1:
				pos := randomPoint(rng, p.buf.Snapshot())
				newIDs := p.write().Insert(Properties{
					Position:    pos,
					Text:        texts[rng.Intn(len(texts))],
					Disposition: Disposition(rng.Intn(2)),
				})
				ids = append(ids, newIDs...)
				snap = p.read()
			case 2:
				if len(ids) > 0 {
					i := rng.Intn(len(ids))
					p.write().Remove(ids[i])
					ids = append(ids[:i], ids[i+1:]...)
				}
				snap = p.read()
			case 3:
				buf := p.buf.Snapshot()
				start := randomPoint(rng, buf)
				end := randomPoint(rng, buf)
				if end.Before(start) {
					start, end = end, start
				}
				insert := []string{"", "z", "zz\nz", "\n"}[rng.Intn(4)]
				if _, err := p.buf.Replace(start, end, insert); err != nil {
					t.Fatalf("iter %d op %d: %v", iter, op, err)
				}
				snap = p.read()
			case 4:
				snap = p.setWrapWidth(uint32(rng.Intn(13)))
			}

			checkWrapInvariants(t, fmt.Sprintf("iter %d op %d", iter, op), snap)
		}
	}
}

func checkWrapInvariants(t *testing.T, tag string, snap *Snapshot) {
	t.Helper()

	// Every wrap row appears exactly once among the non-block rows.
	var textRows uint32
	for it := snap.RowInfos(0); it.Next(); {
		if it.Info().Kind != RowBlock {
			textRows++
		}
	}
	if want := snap.Wrap().RowCount(); textRows != want {
		t.Fatalf("%s: %d text rows, wrap stage has %d", tag, textRows, want)
	}
	if got := snap.MaxPoint().Row + 1; got != snap.RowCount() {
		t.Fatalf("%s: MaxPoint row %d vs RowCount %d", tag, got-1, snap.RowCount())
	}
	if got, want := snap.MaxPoint().Column, snap.LineLen(snap.RowCount()-1); got != want {
		t.Fatalf("%s: MaxPoint column %d, last LineLen %d", tag, got, want)
	}

	// Wrap round trip over the edges of every real row.
	for row := uint32(0); row < snap.RowCount(); row++ {
		if snap.IsBlockRow(row) {
			continue
		}
		for _, col := range []uint32{0, snap.LineLen(row)} {
			bp := pt(row, col)
			if got := snap.ToBlockPoint(snap.ToWrapPoint(bp)); got != bp {
				t.Fatalf("%s: wrap round trip %v -> %v -> %v", tag, bp, snap.ToWrapPoint(bp), got)
			}
		}
	}

	// Clip ordering and idempotence.
	for row := uint32(0); row < snap.RowCount(); row += 1 + row/7 {
		for _, col := range []uint32{0, 1, snap.LineLen(row) + 1} {
			probe := pt(row, col)
			left := snap.ClipPoint(probe, coords.Left)
			right := snap.ClipPoint(probe, coords.Right)
			if right.Before(left) {
				t.Fatalf("%s: clip(%v): left %v after right %v", tag, probe, left, right)
			}
			if again := snap.ClipPoint(left, coords.Left); again != left {
				t.Fatalf("%s: clip not idempotent at %v: %v -> %v", tag, probe, left, again)
			}
		}
	}
}

func randomText(rng *rand.Rand) string {
	rows := 1 + rng.Intn(6)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = strings.Repeat("abcdef"[rng.Intn(6):][:1], rng.Intn(6))
	}
	return strings.Join(lines, "\n")
}

func randomPoint(rng *rand.Rand, buf *buffer.Snapshot) coords.Point {
	row := uint32(rng.Intn(int(buf.LineCount())))
	col := uint32(0)
	if l := buf.LineLen(row); l > 0 {
		col = uint32(rng.Intn(int(l + 1)))
	}
	return coords.Point{Row: row, Column: col}
}
