// SPDX-License-Identifier: MPL-2.0

package term

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// RGB is a concrete 24-bit color resolved against a theme.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as a lowercase #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Theme is a named terminal color scheme: default foreground/background
// plus the 16 base ANSI palette entries.
type Theme struct {
	Name       string
	Background RGB
	Foreground RGB
	Palette    [16]RGB
}

// DefaultThemeName is used when a job does not name a theme.
const DefaultThemeName = "svg-export"

var themes = map[string]Theme{
	"svg-export": {
		Name:       "svg-export",
		Background: RGB{0x29, 0x29, 0x29},
		Foreground: RGB{0xc5, 0xc8, 0xc6},
		Palette: [16]RGB{
			{0x1d, 0x1f, 0x21}, {0xcc, 0x66, 0x66}, {0xb5, 0xbd, 0x68}, {0xf0, 0xc6, 0x74},
			{0x81, 0xa2, 0xbe}, {0xb2, 0x94, 0xbb}, {0x8a, 0xbe, 0xb7}, {0xc5, 0xc8, 0xc6},
			{0x66, 0x66, 0x66}, {0xd5, 0x4e, 0x53}, {0xb9, 0xca, 0x4a}, {0xe7, 0xc5, 0x47},
			{0x7a, 0xa6, 0xda}, {0xc3, 0x97, 0xd8}, {0x70, 0xc0, 0xb1}, {0xea, 0xea, 0xea},
		},
	},
	"monokai": {
		Name:       "monokai",
		Background: RGB{0x0c, 0x0c, 0x0c},
		Foreground: RGB{0xd9, 0xd9, 0xd9},
		Palette: [16]RGB{
			{0x1a, 0x1a, 0x1a}, {0xf4, 0x00, 0x5f}, {0x98, 0xe0, 0x24}, {0xfd, 0x97, 0x1f},
			{0x9d, 0x65, 0xff}, {0xf4, 0x00, 0x5f}, {0x58, 0xd1, 0xeb}, {0xc4, 0xc5, 0xc7},
			{0x62, 0x5e, 0x4c}, {0xf4, 0x00, 0x5f}, {0x98, 0xe0, 0x24}, {0xe0, 0xd5, 0x61},
			{0x9d, 0x65, 0xff}, {0xf4, 0x00, 0x5f}, {0x58, 0xd1, 0xeb}, {0xf6, 0xf6, 0xef},
		},
	},
	"dimmed-monokai": {
		Name:       "dimmed-monokai",
		Background: RGB{0x19, 0x19, 0x19},
		Foreground: RGB{0xb9, 0xbc, 0xba},
		Palette: [16]RGB{
			{0x3a, 0x3d, 0x43}, {0xbe, 0x3f, 0x48}, {0x87, 0x9a, 0x3b}, {0xc5, 0xa6, 0x35},
			{0x4f, 0x76, 0xa1}, {0x85, 0x5c, 0x8d}, {0x57, 0x8f, 0xa4}, {0xb9, 0xbc, 0xba},
			{0x88, 0x89, 0x87}, {0xfb, 0x00, 0x1f}, {0x0f, 0x72, 0x2f}, {0xc4, 0x7c, 0x2b},
			{0x18, 0x65, 0xbd}, {0xbb, 0x38, 0x8c}, {0x19, 0xb9, 0xc4}, {0xfd, 0xff, 0xb9},
		},
	},
	"night-owlish": {
		Name:       "night-owlish",
		Background: RGB{0xff, 0xff, 0xff},
		Foreground: RGB{0x40, 0x3f, 0x3e},
		Palette: [16]RGB{
			{0x01, 0x16, 0x27}, {0xd3, 0x42, 0x3e}, {0x2a, 0xa2, 0x98}, {0xda, 0xaa, 0x01},
			{0x48, 0x76, 0xd6}, {0x40, 0x3f, 0x7e}, {0x08, 0x91, 0x6a}, {0x7a, 0x81, 0x81},
			{0x7a, 0x81, 0x81}, {0xf7, 0x6e, 0x6e}, {0x49, 0xd0, 0xc5}, {0xda, 0xc2, 0x6b},
			{0x5c, 0xa7, 0xe4}, {0x69, 0x7c, 0xe1}, {0x00, 0xc9, 0x90}, {0x98, 0x9f, 0xb1},
		},
	},
	"plain-white": {
		Name:       "plain-white",
		Background: RGB{0xff, 0xff, 0xff},
		Foreground: RGB{0x00, 0x00, 0x00},
		Palette: [16]RGB{
			{0x00, 0x00, 0x00}, {0x80, 0x00, 0x00}, {0x00, 0x80, 0x00}, {0x80, 0x80, 0x00},
			{0x00, 0x00, 0x80}, {0x80, 0x00, 0x80}, {0x00, 0x80, 0x80}, {0xc0, 0xc0, 0xc0},
			{0x80, 0x80, 0x80}, {0xff, 0x00, 0x00}, {0x00, 0xff, 0x00}, {0xff, 0xff, 0x00},
			{0x00, 0x00, 0xff}, {0xff, 0x00, 0xff}, {0x00, 0xff, 0xff}, {0xff, 0xff, 0xff},
		},
	},
}

// LookupTheme resolves a theme by name. Matching is case-insensitive and
// treats underscores as hyphens, so "SVG_EXPORT" and "svg-export" are the
// same theme. An empty name resolves to the default export theme.
func LookupTheme(name string) (Theme, bool) {
	if name == "" {
		name = DefaultThemeName
	}
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	key = strings.TrimSuffix(key, "-theme")
	t, ok := themes[key]
	return t, ok
}

// DefaultTheme returns the default export theme.
func DefaultTheme() Theme {
	return themes[DefaultThemeName]
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a cell color onto concrete RGB. Indexed colors 0-15 use the
// theme palette; 16-255 use the standard 256-color cube via termenv.
func (t Theme) Resolve(c Color, background bool) RGB {
	switch c.Kind {
	case ColorANSI:
		if c.Index < 16 {
			return t.Palette[c.Index]
		}
		r, g, b := termenv.ConvertToRGB(termenv.ANSI256Color(c.Index)).RGB255()
		return RGB{r, g, b}
	case ColorRGB:
		return RGB{c.R, c.G, c.B}
	default:
		if background {
			return t.Background
		}
		return t.Foreground
	}
}

// CellColors resolves a style's effective foreground and background,
// applying reverse video and faint blending.
func (t Theme) CellColors(s Style) (fg RGB, bg RGB, hasBG bool) {
	fg = t.Resolve(s.FG, false)
	bg = t.Resolve(s.BG, true)
	hasBG = s.BG != (Color{})
	if s.Attrs.Has(AttrReverse) {
		fg, bg = bg, fg
		hasBG = true
	}
	if s.Attrs.Has(AttrFaint) {
		blended := fg.colorful().BlendRgb(t.Background.colorful(), 0.4)
		r, g, b := blended.RGB255()
		fg = RGB{r, g, b}
	}
	return fg, bg, hasBG
}
