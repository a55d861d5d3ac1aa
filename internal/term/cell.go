// SPDX-License-Identifier: MPL-2.0

package term

// Attr is a bit set of text attributes applied to a cell.
type Attr uint8

const (
	// AttrBold renders the cell with a heavier font weight.
	AttrBold Attr = 1 << iota
	// AttrFaint renders the cell blended toward the background.
	AttrFaint
	// AttrItalic renders the cell with an italic font style.
	AttrItalic
	// AttrUnderline draws a line under the cell.
	AttrUnderline
	// AttrReverse swaps the cell's foreground and background colors.
	AttrReverse
	// AttrStrike draws a line through the cell.
	AttrStrike
)

// Has reports whether all attributes in mask are set.
func (a Attr) Has(mask Attr) bool { return a&mask == mask }

// ColorKind discriminates the representations a cell color can take.
type ColorKind uint8

const (
	// ColorDefault uses the theme's default foreground or background.
	ColorDefault ColorKind = iota
	// ColorANSI is an indexed color in the 256-color cube (0-255).
	ColorANSI
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is one cell color in any of the representations a terminal can emit.
// The zero value is the theme default.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// ANSIColor returns an indexed color (0-255).
func ANSIColor(index uint8) Color { return Color{Kind: ColorANSI, Index: index} }

// RGBColor returns a 24-bit truecolor value.
func RGBColor(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// Style is the pen state applied to printable output.
// The zero value is the terminal default (theme colors, no attributes).
type Style struct {
	FG    Color
	BG    Color
	Attrs Attr
}

// IsZero reports whether the style is the terminal default.
func (s Style) IsZero() bool {
	return s.FG == (Color{}) && s.BG == (Color{}) && s.Attrs == 0
}

// Cell is one character cell in a captured buffer. A wide rune occupies two
// cells; the trailing cell holds the zero rune and is skipped by renderers.
type Cell struct {
	Rune  rune
	Style Style
}

// Buffer is the intermediate representation between capture and rendering:
// a rectangular grid of styled cells plus presentation metadata. It is
// produced once per output job and shared read-only by the renderer.
type Buffer struct {
	// Width is the column count lines were folded at.
	Width int
	// Lines holds the grid rows. Rows may be shorter than Width; renderers
	// treat missing trailing cells as blanks.
	Lines [][]Cell
	// Title is the window title drawn by the renderer.
	Title string
}

// Height returns the number of rows in the buffer.
func (b *Buffer) Height() int { return len(b.Lines) }

// Text returns the buffer contents as plain text, one string per row,
// without styling. Used for logging and diff diagnostics.
func (b *Buffer) Text() []string {
	out := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		runes := make([]rune, 0, len(line))
		for _, c := range line {
			if c.Rune == 0 {
				continue
			}
			runes = append(runes, c.Rune)
		}
		out[i] = string(runes)
	}
	return out
}
