package style

// Attribute is a set of text attribute flags.
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // faint text
	AttrItalic                  // italic text
	AttrUnderline               // underlined text
	AttrReverse                 // reverse video
	AttrStrikethrough           // strikethrough text
)

// Has returns true if the set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns the set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns the set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Style is the visual style of a span of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// Default returns the unstyled terminal style.
func Default() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// New creates a style with the given foreground color.
func New(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

// WithForeground returns the style with the foreground replaced.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns the style with the background replaced.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns the style with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns the style with the dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns the style with the italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Run pairs a byte length with a style. A slice of runs styles a line
// of text left to right; bytes past the last run render unstyled.
type Run struct {
	Len   uint32
	Style Style
}

// Chunk is a styled piece of rendered text, the unit produced by the
// display pipeline's text iterators.
type Chunk struct {
	Text  string
	Style Style
}
