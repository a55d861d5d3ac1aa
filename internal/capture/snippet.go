// SPDX-License-Identifier: MPL-2.0

package capture

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"termframe/internal/term"
)

// snippetStyle is the chroma token style used for highlighting. The
// terminal theme only controls window chrome and the 16-color palette;
// token colors come from here as truecolor sequences.
const snippetStyle = "monokai"

// FormatSnippet highlights literal source text and folds it into a cell
// buffer, with no process execution involved. Unknown syntax labels degrade
// to plain text: highlighting is best-effort, never a failure.
//
// JSON input (declared or unlabelled) is pretty-printed first, matching
// what a terminal user would see from a JSON-aware pager.
func FormatSnippet(text, syntax string, width int) (*term.Buffer, error) {
	text = strings.TrimRight(text, "\n")

	if syntax == "json" || syntax == "" {
		if pretty, ok := prettyJSON(text); ok {
			text = pretty
			syntax = "json"
		}
	}

	lexer := lexers.Get(syntax)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(snippetStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		// Fall back to unstyled text rather than failing the job.
		return term.Fold([]byte(text), width), nil
	}

	var buf bytes.Buffer
	if err := formatters.TTY16m.Format(&buf, style, iterator); err != nil {
		return term.Fold([]byte(text), width), nil
	}
	return term.Fold(buf.Bytes(), width), nil
}

// prettyJSON re-indents valid JSON and reports whether the input parsed.
func prettyJSON(text string) (string, bool) {
	if !json.Valid([]byte(text)) {
		return "", false
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(text), "", "  "); err != nil {
		return "", false
	}
	return out.String(), true
}
