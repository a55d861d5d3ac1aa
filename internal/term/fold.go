// SPDX-License-Identifier: MPL-2.0

package term

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tabStop = 8

// Fold parses raw terminal output into a Buffer at the given column width.
// SGR escape sequences update the current pen style; all other escape
// sequences are consumed without effect. Lines longer than width wrap.
// A width of zero or less disables wrapping.
func Fold(data []byte, width int) *Buffer {
	f := &folder{width: width}
	f.feed(string(data))
	return f.finish()
}

type folder struct {
	width int
	lines [][]Cell
	row   []Cell
	col   int
	pen   Style

	// pendingNewline defers the line break emitted by a wrap so that a
	// "\r\n" immediately after a full line does not produce a blank row.
	pendingNewline bool
}

func (f *folder) feed(s string) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case 0x1b: // ESC
			i += f.escape(s[i:])
			continue
		case '\n':
			f.newline()
		case '\r':
			f.col = 0
		case '\t':
			next := (f.col/tabStop + 1) * tabStop
			for f.col < next {
				f.put(' ')
			}
		case '\b':
			if f.col > 0 {
				f.col--
			}
		case 0x07: // BEL
		case utf8.RuneError:
			if size == 1 {
				// Skip invalid bytes rather than stamping replacement runes.
				i++
				continue
			}
			f.put(r)
		default:
			if r >= 0x20 {
				f.put(r)
			}
		}
		i += size
	}
}

// escape consumes one escape sequence starting at s[0] == ESC and returns
// the number of bytes consumed. CSI sequences ending in 'm' are interpreted
// as SGR; OSC sequences are skipped up to BEL or ST; everything else is
// dropped after its final byte.
func (f *folder) escape(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[': // CSI
		j := 2
		for j < len(s) {
			b := s[j]
			if b >= 0x40 && b <= 0x7e {
				if b == 'm' {
					f.sgr(s[2:j])
				}
				return j + 1
			}
			j++
		}
		return len(s)
	case ']': // OSC, terminated by BEL or ESC \
		j := 2
		for j < len(s) {
			if s[j] == 0x07 {
				return j + 1
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2
			}
			j++
		}
		return len(s)
	case '(', ')': // charset designation, one final byte
		if len(s) >= 3 {
			return 3
		}
		return len(s)
	default:
		return 2
	}
}

// sgr applies one Select Graphic Rendition parameter string to the pen.
func (f *folder) sgr(params string) {
	if params == "" {
		f.pen = Style{}
		return
	}
	parts := strings.Split(params, ";")
	nums := make([]int, len(parts))
	for i, p := range parts {
		nums[i] = atoiDefault(p, 0)
	}
	for i := 0; i < len(nums); i++ {
		switch n := nums[i]; {
		case n == 0:
			f.pen = Style{}
		case n == 1:
			f.pen.Attrs |= AttrBold
		case n == 2:
			f.pen.Attrs |= AttrFaint
		case n == 3:
			f.pen.Attrs |= AttrItalic
		case n == 4:
			f.pen.Attrs |= AttrUnderline
		case n == 7:
			f.pen.Attrs |= AttrReverse
		case n == 9:
			f.pen.Attrs |= AttrStrike
		case n == 22:
			f.pen.Attrs &^= AttrBold | AttrFaint
		case n == 23:
			f.pen.Attrs &^= AttrItalic
		case n == 24:
			f.pen.Attrs &^= AttrUnderline
		case n == 27:
			f.pen.Attrs &^= AttrReverse
		case n == 29:
			f.pen.Attrs &^= AttrStrike
		case n >= 30 && n <= 37:
			f.pen.FG = ANSIColor(uint8(n - 30))
		case n == 38:
			c, consumed, ok := extendedColor(nums[i+1:])
			if !ok {
				return
			}
			f.pen.FG = c
			i += consumed
		case n == 39:
			f.pen.FG = Color{}
		case n >= 40 && n <= 47:
			f.pen.BG = ANSIColor(uint8(n - 40))
		case n == 48:
			c, consumed, ok := extendedColor(nums[i+1:])
			if !ok {
				return
			}
			f.pen.BG = c
			i += consumed
		case n == 49:
			f.pen.BG = Color{}
		case n >= 90 && n <= 97:
			f.pen.FG = ANSIColor(uint8(n - 90 + 8))
		case n >= 100 && n <= 107:
			f.pen.BG = ANSIColor(uint8(n - 100 + 8))
		}
	}
}

// extendedColor decodes the tail of a 38/48 SGR parameter: "5;n" for
// indexed color, "2;r;g;b" for truecolor. It returns the number of
// parameters consumed after the 38/48 itself.
func extendedColor(nums []int) (Color, int, bool) {
	if len(nums) == 0 {
		return Color{}, 0, false
	}
	switch nums[0] {
	case 5:
		if len(nums) < 2 {
			return Color{}, 0, false
		}
		return ANSIColor(clampByte(nums[1])), 2, true
	case 2:
		if len(nums) < 4 {
			return Color{}, 0, false
		}
		return RGBColor(clampByte(nums[1]), clampByte(nums[2]), clampByte(nums[3])), 4, true
	default:
		return Color{}, 0, false
	}
}

func (f *folder) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	f.pendingNewline = false
	if f.width > 0 && f.col+w > f.width {
		f.wrap()
	}
	f.setCell(f.col, Cell{Rune: r, Style: f.pen})
	if w == 2 {
		f.setCell(f.col+1, Cell{Style: f.pen})
	}
	f.col += w
	if f.width > 0 && f.col >= f.width {
		f.wrap()
		f.pendingNewline = true
	}
}

func (f *folder) setCell(col int, c Cell) {
	for len(f.row) <= col {
		f.row = append(f.row, Cell{Rune: ' '})
	}
	f.row[col] = c
}

// wrap flushes the current row and starts a fresh one.
func (f *folder) wrap() {
	f.lines = append(f.lines, f.row)
	f.row = nil
	f.col = 0
}

func (f *folder) newline() {
	if f.pendingNewline {
		// A wrap already moved to a fresh line; swallow this one.
		f.pendingNewline = false
		return
	}
	f.lines = append(f.lines, f.row)
	f.row = nil
	f.col = 0
}

func (f *folder) finish() *Buffer {
	if len(f.row) > 0 {
		f.lines = append(f.lines, f.row)
	}
	// Drop trailing blank rows so a final newline does not add an empty one.
	for len(f.lines) > 0 && rowBlank(f.lines[len(f.lines)-1]) {
		f.lines = f.lines[:len(f.lines)-1]
	}
	width := f.width
	if width <= 0 {
		for _, line := range f.lines {
			if len(line) > width {
				width = len(line)
			}
		}
	}
	return &Buffer{Width: width, Lines: f.lines}
}

func rowBlank(row []Cell) bool {
	for _, c := range row {
		if c.Rune != 0 && c.Rune != ' ' {
			return false
		}
		if c.Style.BG != (Color{}) || c.Style.Attrs.Has(AttrReverse) {
			return false
		}
	}
	return true
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return def
		}
	}
	return n
}

func clampByte(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
