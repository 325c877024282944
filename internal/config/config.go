// Package config loads and watches display settings: tab width, wrap
// width, and the theme the pipeline renders with. Settings come from a
// TOML or YAML file with environment variable overrides layered on
// top.
package config

import (
	"fmt"

	"github.com/00676/displaymap/internal/display/style"
)

// Default layout values.
const (
	DefaultTabWidth  = 4
	DefaultWrapWidth = 0 // soft wrap disabled
)

// Settings holds every configurable knob of the display pipeline.
type Settings struct {
	// TabWidth is the number of cells a tab stop spans.
	TabWidth uint32 `toml:"tabWidth" yaml:"tabWidth"`

	// WrapWidth is the soft-wrap width in cells. Zero disables soft
	// wrapping.
	WrapWidth uint32 `toml:"wrapWidth" yaml:"wrapWidth"`

	// Theme names the styles used for buffer text, block lines, and
	// fold placeholders.
	Theme ThemeSettings `toml:"theme" yaml:"theme"`
}

// ThemeSettings configures the pipeline's three base styles.
type ThemeSettings struct {
	Text            StyleSettings `toml:"text" yaml:"text"`
	BlockText       StyleSettings `toml:"blockText" yaml:"blockText"`
	FoldPlaceholder StyleSettings `toml:"foldPlaceholder" yaml:"foldPlaceholder"`
}

// StyleSettings configures a single style. Colors are hex strings like
// "#rrggbb"; an empty string keeps the terminal default.
type StyleSettings struct {
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`
	Bold       bool   `toml:"bold" yaml:"bold"`
	Dim        bool   `toml:"dim" yaml:"dim"`
	Italic     bool   `toml:"italic" yaml:"italic"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		TabWidth:  DefaultTabWidth,
		WrapWidth: DefaultWrapWidth,
		Theme: ThemeSettings{
			BlockText:       StyleSettings{Dim: true},
			FoldPlaceholder: StyleSettings{Dim: true},
		},
	}
}

// Validate checks value ranges, returning a ValidationError for the
// first field that is out of range.
func (s Settings) Validate() error {
	if s.TabWidth < 1 || s.TabWidth > 64 {
		return &ValidationError{Field: "tabWidth", Value: s.TabWidth, Message: "must be between 1 and 64"}
	}
	if s.WrapWidth != 0 && s.WrapWidth < 2 {
		return &ValidationError{Field: "wrapWidth", Value: s.WrapWidth, Message: "must be 0 or at least 2"}
	}
	for _, f := range []struct {
		name  string
		style StyleSettings
	}{
		{"theme.text", s.Theme.Text},
		{"theme.blockText", s.Theme.BlockText},
		{"theme.foldPlaceholder", s.Theme.FoldPlaceholder},
	} {
		if err := f.style.validate(f.name); err != nil {
			return err
		}
	}
	return nil
}

func (ss StyleSettings) validate(field string) error {
	if ss.Foreground != "" {
		if _, err := style.ParseHex(ss.Foreground); err != nil {
			return &ValidationError{Field: field + ".foreground", Value: ss.Foreground, Message: err.Error()}
		}
	}
	if ss.Background != "" {
		if _, err := style.ParseHex(ss.Background); err != nil {
			return &ValidationError{Field: field + ".background", Value: ss.Background, Message: err.Error()}
		}
	}
	return nil
}

// BuildTheme converts the theme settings into the style.Theme the
// pipeline renders with. Call Validate first; invalid colors fall back
// to the terminal default here.
func (s Settings) BuildTheme() *style.Theme {
	return &style.Theme{
		Text:            s.Theme.Text.build(),
		BlockText:       s.Theme.BlockText.build(),
		FoldPlaceholder: s.Theme.FoldPlaceholder.build(),
	}
}

func (ss StyleSettings) build() style.Style {
	st := style.Default()
	if c, err := style.ParseHex(ss.Foreground); ss.Foreground != "" && err == nil {
		st = st.WithForeground(c)
	}
	if c, err := style.ParseHex(ss.Background); ss.Background != "" && err == nil {
		st = st.WithBackground(c)
	}
	if ss.Bold {
		st = st.Bold()
	}
	if ss.Dim {
		st = st.Dim()
	}
	if ss.Italic {
		st = st.Italic()
	}
	return st
}

// String returns a one-line summary for logging.
func (s Settings) String() string {
	return fmt.Sprintf("tabWidth=%d wrapWidth=%d", s.TabWidth, s.WrapWidth)
}
