// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"termframe/internal/term"
)

// rasterScale is the supersampling factor applied when rasterizing the
// vector document, roughly 144 DPI against the 72 DPI CSS layout.
const rasterScale = 2

type faceSet struct {
	regular, bold, italic, boldItalic font.Face
}

var (
	facesOnce sync.Once
	faces     faceSet
	facesErr  error
)

// loadFaces parses the embedded Go Mono family once. The faces are the
// raster equivalents of the SVG font stack.
func loadFaces() (faceSet, error) {
	facesOnce.Do(func() {
		parse := func(ttf []byte) (font.Face, error) {
			f, err := opentype.Parse(ttf)
			if err != nil {
				return nil, err
			}
			return opentype.NewFace(f, &opentype.FaceOptions{
				Size:    fontSize * rasterScale,
				DPI:     72,
				Hinting: font.HintingFull,
			})
		}
		if faces.regular, facesErr = parse(gomono.TTF); facesErr != nil {
			return
		}
		if faces.bold, facesErr = parse(gomonobold.TTF); facesErr != nil {
			return
		}
		if faces.italic, facesErr = parse(gomonoitalic.TTF); facesErr != nil {
			return
		}
		faces.boldItalic, facesErr = parse(gomonobolditalic.TTF)
	})
	return faces, facesErr
}

func (fs faceSet) pick(bold, italic bool) font.Face {
	switch {
	case bold && italic:
		return fs.boldItalic
	case bold:
		return fs.bold
	case italic:
		return fs.italic
	default:
		return fs.regular
	}
}

// EncodePNG rasterizes the frame and encodes it as PNG. The raster is a
// pure function of the vector document, so PNG output is deterministic for
// a given frame.
func EncodePNG(f *Frame) ([]byte, error) {
	fs, err := loadFaces()
	if err != nil {
		return nil, err
	}

	w := f.PxWidth * rasterScale
	h := f.PxHeight * rasterScale
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	fillRoundedRect(img, 0, 0, w, h, cornerR*rasterScale, f.Background)

	for i, c := range dotColors {
		fillCircle(img, dotCenterX(i)*rasterScale, dotCenterY*rasterScale, dotRadius*rasterScale, c)
	}

	if f.Title != "" {
		drawTitle(img, f, fs)
	}

	for _, r := range f.Rects {
		x, y := f.CellOrigin(r.Col, r.Row)
		fillRect(img, x*rasterScale, y*rasterScale, r.Cols*cellWidth*rasterScale, cellHeight*rasterScale, r.Color)
	}

	for _, run := range f.Runs {
		drawRun(img, f, fs, run)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTitle(img *image.RGBA, f *Frame, fs faceSet) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(rgba(f.TitleColor)),
		Face: fs.bold,
	}
	width := d.MeasureString(f.Title)
	x := fixed.I(f.PxWidth*rasterScale/2) - width/2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I((dotCenterY + 4) * rasterScale)}
	d.DrawString(f.Title)
}

// drawRun stamps each rune at its exact cell origin rather than relying on
// the face's natural advance, keeping the raster aligned with the SVG's
// textLength-pinned grid.
func drawRun(img *image.RGBA, f *Frame, fs faceSet, run TextRun) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(rgba(run.Color)),
		Face: fs.pick(run.Bold, run.Italic),
	}
	baseline := f.Baseline(run.Row) * rasterScale
	col := run.Col
	for _, r := range run.Text {
		x, _ := f.CellOrigin(col, run.Row)
		d.Dot = fixed.P(x*rasterScale, baseline)
		d.DrawString(string(r))
		col += runewidth.RuneWidth(r)
	}

	x0, y0 := f.CellOrigin(run.Col, run.Row)
	if run.Underline {
		fillRect(img, x0*rasterScale, (y0+cellAscent+2)*rasterScale, run.Cols*cellWidth*rasterScale, rasterScale, run.Color)
	}
	if run.Strike {
		fillRect(img, x0*rasterScale, (y0+cellAscent-4)*rasterScale, run.Cols*cellWidth*rasterScale, rasterScale, run.Color)
	}
}

func rgba(c term.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func fillRect(img *image.RGBA, x, y, w, h int, c term.RGB) {
	draw.Draw(img, image.Rect(x, y, x+w, y+h), image.NewUniform(rgba(c)), image.Point{}, draw.Over)
}

// kappa approximates a quarter circle with one cubic Bezier.
const kappa = 0.5522848

func fillRoundedRect(img *image.RGBA, x, y, w, h, radius int, c term.RGB) {
	fx, fy := float32(x), float32(y)
	fw, fh := float32(w), float32(h)
	r := float32(radius)
	k := float32(kappa) * r

	ras := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	ras.MoveTo(fx+r, fy)
	ras.LineTo(fx+fw-r, fy)
	ras.CubeTo(fx+fw-r+k, fy, fx+fw, fy+r-k, fx+fw, fy+r)
	ras.LineTo(fx+fw, fy+fh-r)
	ras.CubeTo(fx+fw, fy+fh-r+k, fx+fw-r+k, fy+fh, fx+fw-r, fy+fh)
	ras.LineTo(fx+r, fy+fh)
	ras.CubeTo(fx+r-k, fy+fh, fx, fy+fh-r+k, fx, fy+fh-r)
	ras.LineTo(fx, fy+r)
	ras.CubeTo(fx, fy+r-k, fx+r-k, fy, fx+r, fy)
	ras.ClosePath()
	ras.Draw(img, img.Bounds(), image.NewUniform(rgba(c)), image.Point{})
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c term.RGB) {
	fcx, fcy := float32(cx), float32(cy)
	r := float32(radius)
	k := float32(kappa) * r

	ras := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	ras.MoveTo(fcx+r, fcy)
	ras.CubeTo(fcx+r, fcy+k, fcx+k, fcy+r, fcx, fcy+r)
	ras.CubeTo(fcx-k, fcy+r, fcx-r, fcy+k, fcx-r, fcy)
	ras.CubeTo(fcx-r, fcy-k, fcx-k, fcy-r, fcx, fcy-r)
	ras.CubeTo(fcx+k, fcy-r, fcx+r, fcy-k, fcx+r, fcy)
	ras.ClosePath()
	ras.Draw(img, img.Bounds(), image.NewUniform(rgba(c)), image.Point{})
}
