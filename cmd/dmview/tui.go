package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/00676/displaymap/internal/config"
	"github.com/00676/displaymap/internal/display"
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/style"
)

// viewer is the interactive terminal front end: it scrolls a display
// snapshot and applies config reloads while running.
type viewer struct {
	log        zerolog.Logger
	m          *display.Map
	theme      *style.Theme
	settings   config.Settings
	configPath string

	screen tcell.Screen
	top    uint32
}

func (v *viewer) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	v.screen = screen

	reloaded := make(chan config.Settings, 1)
	if v.configPath != "" {
		w, err := config.NewWatcher(v.configPath)
		if err != nil {
			return err
		}
		defer w.Close()
		w.OnChange(func(s config.Settings, err error) {
			if err != nil {
				v.log.Warn().Err(err).Msg("config reload failed")
				return
			}
			select {
			case reloaded <- s:
			default:
			}
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort wakeup; queue may be full
		})
		if err := w.Start(); err != nil {
			return err
		}
	}

	for {
		v.draw()
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if quit := v.handleKey(ev); quit {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			select {
			case s := <-reloaded:
				v.applySettings(s)
			default:
			}
		case nil:
			return nil
		}
	}
}

func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	_, height := v.screen.Size()
	page := uint32(1)
	if height > 1 {
		page = uint32(height - 1)
	}
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
		ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyUp:
		v.scrollBy(-1)
	case ev.Key() == tcell.KeyDown:
		v.scrollBy(1)
	case ev.Key() == tcell.KeyPgUp:
		v.scrollBy(-int32(page))
	case ev.Key() == tcell.KeyPgDn:
		v.scrollBy(int32(page))
	case ev.Key() == tcell.KeyHome:
		v.top = 0
	case ev.Key() == tcell.KeyEnd:
		v.top = v.maxTop()
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'w':
		v.toggleWrap()
	}
	return false
}

func (v *viewer) scrollBy(delta int32) {
	top := int32(v.top) + delta
	if top < 0 {
		top = 0
	}
	if m := int32(v.maxTop()); top > m {
		top = m
	}
	v.top = uint32(top)
}

func (v *viewer) maxTop() uint32 {
	rows := v.m.Snapshot().RowCount()
	_, height := v.screen.Size()
	visible := uint32(1)
	if height > 1 {
		visible = uint32(height - 1)
	}
	if rows <= visible {
		return 0
	}
	return rows - visible
}

// toggleWrap switches between no soft wrap and wrapping at the screen
// width.
func (v *viewer) toggleWrap() {
	if v.settings.WrapWidth != 0 {
		v.settings.WrapWidth = 0
	} else {
		width, _ := v.screen.Size()
		if width > 0 {
			v.settings.WrapWidth = uint32(width)
		}
	}
	v.m.SetWrapWidth(v.settings.WrapWidth)
	v.log.Debug().Uint32("wrapWidth", v.settings.WrapWidth).Msg("wrap toggled")
}

func (v *viewer) applySettings(s config.Settings) {
	if s.TabWidth != v.settings.TabWidth {
		v.m.SetTabWidth(s.TabWidth)
	}
	if s.WrapWidth != v.settings.WrapWidth {
		v.m.SetWrapWidth(s.WrapWidth)
	}
	v.settings = s
	v.theme = s.BuildTheme()
	v.log.Info().Stringer("settings", s).Msg("config reloaded")
}

func (v *viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if height == 0 {
		v.screen.Show()
		return
	}

	snap := v.m.Snapshot()
	if max := v.maxTop(); v.top > max {
		v.top = max
	}
	end := v.top + uint32(height-1)

	x, y := 0, 0
	it := snap.Chunks(coords.RowRange{Start: v.top, End: end}, v.theme)
	for it.Next() {
		chunk := it.Chunk()
		if chunk.Text == "\n" {
			y++
			x = 0
			continue
		}
		st := convertStyle(chunk.Style)
		for _, r := range chunk.Text {
			if x >= width {
				break
			}
			v.screen.SetContent(x, y, r, nil, st)
			x += runewidth.RuneWidth(r)
		}
	}

	v.drawStatus(width, height-1)
	v.screen.Show()
}

func (v *viewer) drawStatus(width, y int) {
	status := " q quit · w wrap · " + v.settings.String()
	st := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, st)
	}
}

// convertStyle maps a pipeline style onto tcell.
func convertStyle(s style.Style) tcell.Style {
	st := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		st = st.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		st = st.Background(convertColor(s.Background))
	}
	if s.Attributes.Has(style.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(style.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attributes.Has(style.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(style.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attributes.Has(style.AttrReverse) {
		st = st.Reverse(true)
	}
	if s.Attributes.Has(style.AttrStrikethrough) {
		st = st.StrikeThrough(true)
	}
	return st
}

func convertColor(c style.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
