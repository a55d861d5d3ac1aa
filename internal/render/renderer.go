// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"

	"termframe/internal/term"
	"termframe/pkg/outputspec"
)

// ErrEncoding is the sentinel error wrapped by EncodingError.
var ErrEncoding = errors.New("image encoding failed")

// EncodingError reports a rendering backend failure for one target format.
// It wraps ErrEncoding for errors.Is() compatibility.
type EncodingError struct {
	Format outputspec.Format
	Err    error
}

// Error implements the error interface for EncodingError.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.Format, e.Err)
}

// Unwrap returns ErrEncoding for errors.Is() compatibility.
func (e *EncodingError) Unwrap() error { return ErrEncoding }

// RenderedImage is one encoded output format of a frame.
type RenderedImage struct {
	Format outputspec.Format
	Bytes  []byte
}

// Renderer lays out a buffer once and encodes it on demand, caching each
// format so several destination paths with the same extension share one
// encode. PDF encodes via the cached PNG, which itself derives from the
// frame; all formats agree by construction.
type Renderer struct {
	frame *Frame
	cache map[outputspec.Format][]byte
}

// New lays out the buffer and returns a renderer for it.
func New(buf *term.Buffer, opts Options) *Renderer {
	return &Renderer{
		frame: NewFrame(buf, opts),
		cache: make(map[outputspec.Format][]byte),
	}
}

// Frame exposes the computed vector document, mainly for tests.
func (r *Renderer) Frame() *Frame { return r.frame }

// Encode returns the frame in the requested format, encoding at most once
// per format.
func (r *Renderer) Encode(format outputspec.Format) (*RenderedImage, error) {
	if cached, ok := r.cache[format]; ok {
		return &RenderedImage{Format: format, Bytes: cached}, nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case outputspec.FormatSVG:
		data = EncodeSVG(r.frame)
	case outputspec.FormatPNG:
		data, err = EncodePNG(r.frame)
	case outputspec.FormatPDF:
		var png *RenderedImage
		if png, err = r.Encode(outputspec.FormatPNG); err == nil {
			data, err = EncodePDF(r.frame, png.Bytes)
		}
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, &EncodingError{Format: format, Err: err}
	}

	r.cache[format] = data
	return &RenderedImage{Format: format, Bytes: data}, nil
}
