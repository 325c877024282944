package display

import (
	"testing"

	"github.com/00676/displaymap/internal/display/block"
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/fold"
	"github.com/00676/displaymap/internal/engine/buffer"
)

func pt(row, col uint32) coords.Point {
	return coords.Point{Row: row, Column: col}
}

func TestSnapshotComposesStages(t *testing.T) {
	buf := buffer.FromString("fn main() {\n\tbody\n}")
	m := NewMap(buf, 4, 0)

	snap := m.Snapshot()
	if got, want := snap.Text(), "fn main() {\n    body\n}"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if got := snap.LineLen(1); got != 8 {
		t.Errorf("LineLen(1) = %d, want 8", got)
	}
	if row, length := snap.LongestRow(); row != 0 || length != 11 {
		t.Errorf("LongestRow() = (%d, %d), want (0, 11)", row, length)
	}
}

func TestEditSync(t *testing.T) {
	buf := buffer.FromString("aaa\nbbb")
	m := NewMap(buf, 4, 0)
	m.Snapshot()

	if _, err := buf.Insert(pt(0, 3), "\nxxx"); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	if got, want := snap.Text(), "aaa\nxxx\nbbb"; got != want {
		t.Errorf("Text() after edit = %q, want %q", got, want)
	}
	if snap.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", snap.RowCount())
	}
}

func TestFoldUnfold(t *testing.T) {
	buf := buffer.FromString("aaa\nbbb\nccc")
	m := NewMap(buf, 4, 0)

	snap := m.Fold(fold.Range{Start: pt(0, 1), End: pt(1, 1)})
	if got, want := snap.Text(), "a…bb\nccc"; got != want {
		t.Fatalf("folded Text() = %q, want %q", got, want)
	}
	if !snap.IsLineFolded(0) {
		t.Error("IsLineFolded(0) = false, want true")
	}
	if snap.IsLineFolded(1) {
		t.Error("IsLineFolded(1) = true, want false")
	}

	snap = m.Unfold(fold.Range{Start: pt(0, 0), End: pt(2, 0)})
	if got, want := snap.Text(), "aaa\nbbb\nccc"; got != want {
		t.Errorf("unfolded Text() = %q, want %q", got, want)
	}
}

func TestBlocksThroughCoordinator(t *testing.T) {
	buf := buffer.FromString("aaa\nbbb\nccc")
	m := NewMap(buf, 4, 0)

	ids := m.InsertBlocks(block.Properties{
		Position:    pt(1, 0),
		Text:        "NOTE",
		Disposition: block.Above,
	})
	if len(ids) != 1 {
		t.Fatalf("InsertBlocks returned %d ids, want 1", len(ids))
	}

	snap := m.Snapshot()
	if got, want := snap.Text(), "aaa\nNOTE\nbbb\nccc"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if !snap.IsBlockLine(1) {
		t.Error("IsBlockLine(1) = false, want true")
	}
	if blk := snap.BlockForRow(1); blk == nil || blk.ID() != ids[0] {
		t.Errorf("BlockForRow(1) = %v, want block %d", blk, ids[0])
	}

	var kinds []block.RowKind
	for it := snap.RowInfos(0); it.Next(); {
		kinds = append(kinds, it.Info().Kind)
	}
	want := []block.RowKind{block.RowBuffer, block.RowBlock, block.RowBuffer, block.RowBuffer}
	if len(kinds) != len(want) {
		t.Fatalf("got %d row infos, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("row %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}

	m.RemoveBlocks(ids...)
	if got, want := m.Snapshot().Text(), "aaa\nbbb\nccc"; got != want {
		t.Errorf("Text() after remove = %q, want %q", got, want)
	}
}

func TestPointMappingWithBlocks(t *testing.T) {
	buf := buffer.FromString("aaa\nbbb")
	m := NewMap(buf, 4, 0)
	m.InsertBlocks(block.Properties{Position: pt(1, 0), Text: "HDR", Disposition: block.Above})

	snap := m.Snapshot()
	if got := snap.ToDisplayPoint(pt(1, 2), coords.Left); got != pt(2, 2) {
		t.Errorf("ToDisplayPoint(1,2) = %v, want (2,2)", got)
	}
	if got := snap.ToBufferPoint(pt(2, 2), coords.Left); got != pt(1, 2) {
		t.Errorf("ToBufferPoint(2,2) = %v, want (1,2)", got)
	}
	// Points on the block row clip to real rows.
	if got := snap.ClipPoint(pt(1, 1), coords.Left); got != pt(0, 3) {
		t.Errorf("ClipPoint(1,1) left = %v, want (0,3)", got)
	}
	if got := snap.ClipPoint(pt(1, 1), coords.Right); got != pt(2, 0) {
		t.Errorf("ClipPoint(1,1) right = %v, want (2,0)", got)
	}
}

func TestSetTabWidth(t *testing.T) {
	buf := buffer.FromString("a\tb")
	m := NewMap(buf, 4, 0)

	if got, want := m.Snapshot().Text(), "a   b"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if got, want := m.SetTabWidth(8).Text(), "a       b"; got != want {
		t.Errorf("Text() after SetTabWidth(8) = %q, want %q", got, want)
	}
}

func TestSetWrapWidth(t *testing.T) {
	buf := buffer.FromString("aaaa bbbb")
	m := NewMap(buf, 4, 0)

	snap := m.SetWrapWidth(5)
	if snap.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", snap.RowCount())
	}
	if got, want := snap.Line(1), "bbbb"; got != want {
		t.Errorf("Line(1) = %q, want %q", got, want)
	}

	snap = m.SetWrapWidth(0)
	if snap.RowCount() != 1 {
		t.Errorf("RowCount() after unwrap = %d, want 1", snap.RowCount())
	}
}
