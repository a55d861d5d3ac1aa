// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// fontFamily is the monospace stack declared in the SVG. The raster path
// embeds Go Mono, the first widely available face in this stack.
const fontFamily = "'Go Mono','Fira Code',Menlo,Consolas,'DejaVu Sans Mono',monospace"

// EncodeSVG serializes the frame as a standalone SVG terminal mockup.
func EncodeSVG(f *Frame) []byte {
	var b bytes.Buffer
	canvas := svg.New(&b)
	canvas.Start(f.PxWidth, f.PxHeight, `xml:space="preserve"`)

	canvas.Roundrect(0, 0, f.PxWidth, f.PxHeight, cornerR, cornerR, "fill:"+f.Background.Hex())

	for i, color := range dotColors {
		canvas.Circle(dotCenterX(i), dotCenterY, dotRadius, "fill:"+color.Hex())
	}

	if f.Title != "" {
		canvas.Text(f.PxWidth/2, dotCenterY+4, escapeXML(f.Title),
			fmt.Sprintf("fill:%s;font-family:%s;font-size:%dpx;font-weight:bold", f.TitleColor.Hex(), fontFamily, fontSize-2),
			`text-anchor="middle"`)
	}

	for _, r := range f.Rects {
		x, y := f.CellOrigin(r.Col, r.Row)
		canvas.Rect(x, y, r.Cols*cellWidth, cellHeight, "fill:"+r.Color.Hex())
	}

	canvas.Gstyle(fmt.Sprintf("font-family:%s;font-size:%dpx", fontFamily, fontSize))
	for _, run := range f.Runs {
		x, _ := f.CellOrigin(run.Col, run.Row)
		canvas.Text(x, f.Baseline(run.Row), escapeXML(run.Text),
			runStyleCSS(run),
			fmt.Sprintf(`textLength="%d"`, run.Cols*cellWidth),
			`lengthAdjust="spacingAndGlyphs"`)
	}
	canvas.Gend()

	canvas.End()
	return b.Bytes()
}

// runStyleCSS renders a run's styling as a CSS declaration list.
func runStyleCSS(run TextRun) string {
	var sb strings.Builder
	sb.WriteString("fill:")
	sb.WriteString(run.Color.Hex())
	if run.Bold {
		sb.WriteString(";font-weight:bold")
	}
	if run.Italic {
		sb.WriteString(";font-style:italic")
	}
	switch {
	case run.Underline && run.Strike:
		sb.WriteString(";text-decoration:underline line-through")
	case run.Underline:
		sb.WriteString(";text-decoration:underline")
	case run.Strike:
		sb.WriteString(";text-decoration:line-through")
	}
	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeXML makes text safe for element content; svgo writes text verbatim.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
