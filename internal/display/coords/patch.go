package coords

// Patch accumulates row edits applied one after another and renders
// them as a single sorted, disjoint batch. Old coordinates of the
// result refer to the state before the first edit; New coordinates to
// the state after the last. Each pushed edit is interpreted in the
// coordinate space produced by the edits already pushed.
type Patch struct {
	edits []RowEdit
}

// NewPatch builds a patch from a sequence of edits, each in the
// coordinate space left by its predecessors.
func NewPatch(edits []RowEdit) *Patch {
	p := &Patch{}
	for _, e := range edits {
		p.Push(e)
	}
	return p
}

// Edits returns the composed batch, sorted by start row.
func (p *Patch) Edits() []RowEdit {
	return p.edits
}

// IsEmpty returns true if no edits have been pushed.
func (p *Patch) IsEmpty() bool {
	return len(p.edits) == 0
}

// Push composes one more edit into the patch. The edit's Old range is
// in the patch's current New space.
func (p *Patch) Push(edit RowEdit) {
	// Locate the run of existing edits whose New ranges touch the
	// incoming edit's Old range.
	first := 0
	for first < len(p.edits) && p.edits[first].New.End < edit.Old.Start {
		first++
	}
	last := first
	for last < len(p.edits) && p.edits[last].New.Start <= edit.Old.End {
		last++
	}

	// Rows inserted minus rows removed by edits strictly before the
	// overlap run.
	var deltaBefore int64
	for _, e := range p.edits[:first] {
		deltaBefore += int64(e.New.Len()) - int64(e.Old.Len())
	}

	merged := RowEdit{
		Old: RowRange{
			Start: uint32(int64(edit.Old.Start) - deltaBefore),
			End:   uint32(int64(edit.Old.End) - deltaBefore),
		},
		New: RowRange{Start: edit.Old.Start, End: edit.New.End},
	}

	if first < last {
		overlapping := p.edits[first:last]
		head := overlapping[0]
		tail := overlapping[len(overlapping)-1]

		var deltaThrough int64 = deltaBefore
		for _, e := range overlapping {
			deltaThrough += int64(e.New.Len()) - int64(e.Old.Len())
		}

		if head.New.Start < edit.Old.Start {
			merged.Old.Start = head.Old.Start
			merged.New.Start = head.New.Start
		}
		if tail.New.End > edit.Old.End {
			merged.Old.End = tail.Old.End
			tailHang := tail.New.End - edit.Old.End
			merged.New.End = edit.New.End + tailHang
		} else {
			merged.Old.End = uint32(int64(edit.Old.End) - deltaThrough)
		}
	}

	editDelta := int64(edit.New.Len()) - int64(edit.Old.Len())
	suffix := p.edits[last:]
	for i := range suffix {
		suffix[i].New.Start = uint32(int64(suffix[i].New.Start) + editDelta)
		suffix[i].New.End = uint32(int64(suffix[i].New.End) + editDelta)
	}

	out := make([]RowEdit, 0, len(p.edits[:first])+1+len(suffix))
	out = append(out, p.edits[:first]...)
	out = append(out, merged)
	out = append(out, suffix...)
	p.edits = out
}
