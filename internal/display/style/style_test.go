package style

import "testing"

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Color{R: 255}, false},
		{"00ff00", Color{G: 255}, false},
		{"#abc", Color{R: 0xaa, G: 0xbb, B: 0xcc}, false},
		{"#12345", Color{}, true},
		{"#gggggg", Color{}, true},
		{"", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	a := AttrNone.With(AttrBold).With(AttrItalic)
	if !a.Has(AttrBold) || !a.Has(AttrItalic) {
		t.Error("added attributes missing")
	}
	if a.Has(AttrUnderline) {
		t.Error("unexpected attribute present")
	}
	if a.Without(AttrBold).Has(AttrBold) {
		t.Error("removed attribute still present")
	}
}

func TestSource(t *testing.T) {
	theme := DefaultTheme()

	t.Run("zero source yields nothing", func(t *testing.T) {
		var s Source
		if !s.IsZero() {
			t.Error("zero value should be zero source")
		}
		if runs := s.Runs(&Context{Theme: theme}, "text"); runs != nil {
			t.Errorf("got %v, want nil", runs)
		}
	})

	t.Run("static ignores context", func(t *testing.T) {
		s := Static(Run{Len: 3, Style: New(ColorRed)})
		runs := s.Runs(nil, "abc")
		if len(runs) != 1 || runs[0].Len != 3 {
			t.Errorf("got %v", runs)
		}
	})

	t.Run("computed sees line and context", func(t *testing.T) {
		s := Computed(func(ctx *Context, line string) []Run {
			return []Run{{Len: uint32(len(line)), Style: ctx.Theme.BlockText}}
		})
		runs := s.Runs(&Context{Theme: theme, Line: 2}, "hello")
		if len(runs) != 1 || runs[0].Len != 5 {
			t.Errorf("got %v", runs)
		}
	})

	t.Run("computed with nil context degrades", func(t *testing.T) {
		s := Computed(func(ctx *Context, line string) []Run {
			return []Run{{Len: 1, Style: ctx.Theme.Text}}
		})
		if runs := s.Runs(nil, "x"); runs != nil {
			t.Errorf("got %v, want nil", runs)
		}
	})
}
