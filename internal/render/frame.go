// SPDX-License-Identifier: MPL-2.0

package render

import (
	"termframe/internal/term"
)

// Fixed window geometry, in CSS pixels. All layout is integer so the same
// buffer always produces the same document.
const (
	fontSize   = 14
	cellWidth  = 8
	cellHeight = 18
	// baseline offset from the top of a cell row
	cellAscent = 13

	padX       = 16
	padY       = 14
	titleBarH  = 36
	cornerR    = 8
	dotRadius  = 7
	dotCenterY = 19
)

// dotColors are the macOS-style window buttons, left to right.
var dotColors = [3]term.RGB{
	{R: 0xff, G: 0x5f, B: 0x57},
	{R: 0xfe, G: 0xbc, B: 0x2e},
	{R: 0x28, G: 0xc8, B: 0x40},
}

// dotCenterX returns the center of window button i.
func dotCenterX(i int) int { return 26 + i*22 }

// Options are the presentation inputs shared by all target formats.
type Options struct {
	// Title is drawn centered in the title bar.
	Title string
	// Theme resolves cell colors to RGB.
	Theme term.Theme
}

// TextRun is a horizontal run of identically styled characters.
type TextRun struct {
	// Col, Row are grid coordinates of the first cell.
	Col, Row int
	// Cols is the run's width in cells (wide runes count two).
	Cols  int
	Text  string
	Color term.RGB

	Bold, Italic, Underline, Strike bool
}

// CellRect is a run of cells sharing a non-default background color.
type CellRect struct {
	Col, Row, Cols int
	Color          term.RGB
}

// Frame is the vector document both encoders consume.
type Frame struct {
	// PxWidth, PxHeight are the document dimensions in CSS pixels.
	PxWidth, PxHeight int
	// GridCols, GridRows are the cell dimensions of the content area.
	GridCols, GridRows int
	Background         term.RGB
	Title              string
	TitleColor         term.RGB
	Rects              []CellRect
	Runs               []TextRun
}

// CellOrigin returns the top-left pixel of the cell at (col, row).
func (f *Frame) CellOrigin(col, row int) (x, y int) {
	return padX + col*cellWidth, titleBarH + padY + row*cellHeight
}

// Baseline returns the text baseline y for a row.
func (f *Frame) Baseline(row int) int {
	_, y := f.CellOrigin(0, row)
	return y + cellAscent
}

// NewFrame lays out a captured buffer into a vector document.
func NewFrame(buf *term.Buffer, opts Options) *Frame {
	cols := buf.Width
	if cols <= 0 {
		cols = 1
	}
	rows := buf.Height()
	if rows == 0 {
		rows = 1
	}

	f := &Frame{
		PxWidth:    2*padX + cols*cellWidth,
		PxHeight:   titleBarH + 2*padY + rows*cellHeight,
		GridCols:   cols,
		GridRows:   rows,
		Background: opts.Theme.Background,
		Title:      opts.Title,
		TitleColor: opts.Theme.Foreground,
	}

	for row, line := range buf.Lines {
		f.layoutBackgrounds(row, line, opts.Theme)
		f.layoutRuns(row, line, opts.Theme)
	}
	return f
}

type runStyle struct {
	color                           term.RGB
	bold, italic, underline, strike bool
}

func styleOf(theme term.Theme, s term.Style) (runStyle, term.RGB, bool) {
	fg, bg, hasBG := theme.CellColors(s)
	return runStyle{
		color:     fg,
		bold:      s.Attrs.Has(term.AttrBold),
		italic:    s.Attrs.Has(term.AttrItalic),
		underline: s.Attrs.Has(term.AttrUnderline),
		strike:    s.Attrs.Has(term.AttrStrike),
	}, bg, hasBG
}

// layoutBackgrounds emits one CellRect per contiguous stretch of cells
// sharing the same explicit background.
func (f *Frame) layoutBackgrounds(row int, line []term.Cell, theme term.Theme) {
	var (
		open  bool
		start int
		color term.RGB
	)
	flush := func(end int) {
		if open {
			f.Rects = append(f.Rects, CellRect{Col: start, Row: row, Cols: end - start, Color: color})
			open = false
		}
	}
	for col, cell := range line {
		_, bg, hasBG := theme.CellColors(cell.Style)
		if !hasBG {
			flush(col)
			continue
		}
		if open && bg == color {
			continue
		}
		flush(col)
		open, start, color = true, col, bg
	}
	flush(len(line))
}

// layoutRuns emits text runs grouped by identical resolved styling, which
// keeps the SVG compact. Trailing unstyled blanks are dropped.
func (f *Frame) layoutRuns(row int, line []term.Cell, theme term.Theme) {
	end := len(line)
	for end > 0 {
		c := line[end-1]
		style, _, hasBG := styleOf(theme, c.Style)
		if (c.Rune == ' ' || c.Rune == 0) && !hasBG && !style.underline && !style.strike {
			end--
			continue
		}
		break
	}

	var (
		open    bool
		start   int
		current runStyle
		text    []rune
	)
	flush := func(endCol int) {
		if open && len(text) > 0 {
			f.Runs = append(f.Runs, TextRun{
				Col: start, Row: row, Cols: endCol - start,
				Text:  string(text),
				Color: current.color,
				Bold:  current.bold, Italic: current.italic,
				Underline: current.underline, Strike: current.strike,
			})
		}
		open = false
		text = text[:0]
	}

	for col := 0; col < end; col++ {
		cell := line[col]
		if cell.Rune == 0 {
			// Continuation of a wide rune; covered by the previous cell.
			continue
		}
		style, _, _ := styleOf(theme, cell.Style)
		if !open || style != current {
			flush(col)
			open, start, current = true, col, style
		}
		text = append(text, cell.Rune)
	}
	flush(end)
}
