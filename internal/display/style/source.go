package style

// Context carries the rendering environment handed to computed style
// sources: the active theme plus the position of the line being styled
// within its block.
type Context struct {
	Theme *Theme

	// Line is the 0-indexed line within the block's text.
	Line uint32
}

// Source produces the style runs for a block's rendered lines. A
// source is either static (fixed runs reused for every line) or
// computed (a function consulted per line). The zero Source yields no
// runs, rendering the text unstyled.
type Source struct {
	runs []Run
	fn   func(*Context, string) []Run
}

// Static creates a source that styles every line with the same runs.
func Static(runs ...Run) Source {
	return Source{runs: runs}
}

// Computed creates a source that derives runs per line. The function
// must not retain the line string.
func Computed(fn func(ctx *Context, line string) []Run) Source {
	return Source{fn: fn}
}

// IsZero returns true for the zero (unstyled) source.
func (s Source) IsZero() bool {
	return s.runs == nil && s.fn == nil
}

// Runs returns the style runs for a line. Computed sources invoked
// with a nil context degrade to unstyled output.
func (s Source) Runs(ctx *Context, line string) []Run {
	if s.fn != nil {
		if ctx == nil {
			return nil
		}
		return s.fn(ctx, line)
	}
	return s.runs
}
