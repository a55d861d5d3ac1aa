// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"termframe/internal/term"
	"termframe/pkg/outputspec"
)

func testBuffer(t *testing.T, raw string) *term.Buffer {
	t.Helper()
	return term.Fold([]byte(raw), 40)
}

func testOptions() Options {
	return Options{Title: "demo", Theme: term.DefaultTheme()}
}

func TestEncodeSVGContainsTextAndTitle(t *testing.T) {
	buf := testBuffer(t, "hello world\n")
	data := EncodeSVG(NewFrame(buf, testOptions()))

	svg := string(data)
	if !strings.HasPrefix(strings.TrimSpace(svg), "<?xml") {
		t.Errorf("expected XML prologue, got %q", svg[:40])
	}
	if !strings.Contains(svg, "hello world") {
		t.Error("expected buffer text in SVG")
	}
	if !strings.Contains(svg, "demo") {
		t.Error("expected title in SVG")
	}
	if !strings.Contains(svg, term.DefaultTheme().Background.Hex()) {
		t.Error("expected theme background color in SVG")
	}
}

func TestEncodeSVGEscapesMarkup(t *testing.T) {
	buf := testBuffer(t, `a < b && c > "d"`)
	data := EncodeSVG(NewFrame(buf, testOptions()))

	svg := string(data)
	if strings.Contains(svg, "&& c") {
		t.Error("expected ampersands escaped")
	}
	if !strings.Contains(svg, "a &lt; b &amp;&amp; c &gt;") {
		t.Errorf("expected escaped text, got: %s", svg)
	}
}

func TestEncodeSVGDeterministic(t *testing.T) {
	buf := testBuffer(t, "\x1b[1;32mbold green\x1b[0m and plain\n")
	opts := testOptions()

	a := EncodeSVG(NewFrame(buf, opts))
	b := EncodeSVG(NewFrame(buf, opts))
	if !bytes.Equal(a, b) {
		t.Error("expected byte-identical SVG for identical inputs")
	}
}

func TestEncodePNGDeterministicAndSized(t *testing.T) {
	buf := testBuffer(t, "raster me\n")
	frame := NewFrame(buf, testOptions())

	a, err := EncodePNG(frame)
	if err != nil {
		t.Fatalf("EncodePNG returned error: %v", err)
	}
	b, err := EncodePNG(frame)
	if err != nil {
		t.Fatalf("EncodePNG returned error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("expected byte-identical PNG for identical frames")
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	if cfg.Width != frame.PxWidth*rasterScale || cfg.Height != frame.PxHeight*rasterScale {
		t.Errorf("unexpected raster size %dx%d for frame %dx%d",
			cfg.Width, cfg.Height, frame.PxWidth, frame.PxHeight)
	}
}

func TestEncodePDFDeterministic(t *testing.T) {
	buf := testBuffer(t, "pdf body\n")
	frame := NewFrame(buf, testOptions())

	pngBytes, err := EncodePNG(frame)
	if err != nil {
		t.Fatalf("EncodePNG returned error: %v", err)
	}
	a, err := EncodePDF(frame, pngBytes)
	if err != nil {
		t.Fatalf("EncodePDF returned error: %v", err)
	}
	b, err := EncodePDF(frame, pngBytes)
	if err != nil {
		t.Fatalf("EncodePDF returned error: %v", err)
	}

	if !bytes.HasPrefix(a, []byte("%PDF")) {
		t.Errorf("expected PDF header, got %q", a[:8])
	}
	if !bytes.Equal(a, b) {
		t.Error("expected byte-identical PDF for identical inputs")
	}
}

func TestRendererCachesPerFormat(t *testing.T) {
	r := New(testBuffer(t, "cached\n"), testOptions())

	first, err := r.Encode(outputspec.FormatSVG)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	second, err := r.Encode(outputspec.FormatSVG)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Error("expected cached encode to return identical bytes")
	}

	pdf, err := r.Encode(outputspec.FormatPDF)
	if err != nil {
		t.Fatalf("Encode pdf returned error: %v", err)
	}
	if pdf.Format != outputspec.FormatPDF {
		t.Errorf("expected pdf format tag, got %q", pdf.Format)
	}
}

func TestFrameLayoutGroupsRuns(t *testing.T) {
	buf := term.Fold([]byte("\x1b[31mred\x1b[0m plain \x1b[31mred\x1b[0m\n"), 80)
	frame := NewFrame(buf, testOptions())

	if len(frame.Runs) != 3 {
		t.Fatalf("expected 3 style runs, got %d: %+v", len(frame.Runs), frame.Runs)
	}
	if frame.Runs[0].Text != "red" || frame.Runs[2].Text != "red" {
		t.Errorf("unexpected run grouping: %+v", frame.Runs)
	}
	red := term.DefaultTheme().Palette[1]
	if frame.Runs[0].Color != red {
		t.Errorf("expected palette red run, got %+v", frame.Runs[0].Color)
	}
}

func TestFrameLayoutBackgroundRects(t *testing.T) {
	buf := term.Fold([]byte("\x1b[44mblue bg\x1b[0m\n"), 80)
	frame := NewFrame(buf, testOptions())

	if len(frame.Rects) != 1 {
		t.Fatalf("expected one background rect, got %d", len(frame.Rects))
	}
	rect := frame.Rects[0]
	if rect.Cols != 7 {
		t.Errorf("expected rect spanning 7 cells, got %d", rect.Cols)
	}
	if rect.Color != term.DefaultTheme().Palette[4] {
		t.Errorf("expected palette blue, got %+v", rect.Color)
	}
}

func TestFrameEmptyBufferStillHasArea(t *testing.T) {
	frame := NewFrame(&term.Buffer{Width: 20}, testOptions())
	if frame.PxWidth <= 0 || frame.PxHeight <= 0 {
		t.Errorf("expected positive dimensions, got %dx%d", frame.PxWidth, frame.PxHeight)
	}
}
