package style

// Theme names the styles the display pipeline draws with. Fields left
// zero fall back to the terminal default.
type Theme struct {
	// Text styles the buffer's own lines.
	Text Style

	// BlockText styles decoration block lines with no source of their
	// own.
	BlockText Style

	// FoldPlaceholder styles the ellipsis that replaces a folded range.
	FoldPlaceholder Style
}

// DefaultTheme returns a theme suitable for unconfigured terminals:
// plain text, dimmed block lines, dimmed fold placeholders.
func DefaultTheme() *Theme {
	return &Theme{
		Text:            Default(),
		BlockText:       Default().Dim(),
		FoldPlaceholder: Default().Dim(),
	}
}
