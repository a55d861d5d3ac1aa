// SPDX-License-Identifier: MPL-2.0

package capture

import (
	"strings"
	"testing"

	"termframe/internal/term"
)

func bufferText(buf *term.Buffer) string {
	return strings.Join(buf.Text(), "\n")
}

func TestFormatSnippetPython(t *testing.T) {
	buf, err := FormatSnippet("print(1)", "python", 80)
	if err != nil {
		t.Fatalf("FormatSnippet returned error: %v", err)
	}
	if !strings.Contains(bufferText(buf), "print(1)") {
		t.Errorf("expected snippet text preserved, got %q", bufferText(buf))
	}

	styled := false
	for _, line := range buf.Lines {
		for _, c := range line {
			if !c.Style.IsZero() {
				styled = true
			}
		}
	}
	if !styled {
		t.Error("expected python snippet to carry highlighting styles")
	}
}

func TestFormatSnippetUnknownSyntaxDegrades(t *testing.T) {
	buf, err := FormatSnippet("plain words", "definitely-not-a-language", 80)
	if err != nil {
		t.Fatalf("FormatSnippet returned error: %v", err)
	}
	if !strings.Contains(bufferText(buf), "plain words") {
		t.Errorf("expected plain text preserved, got %q", bufferText(buf))
	}
}

func TestFormatSnippetPrettyPrintsJSON(t *testing.T) {
	buf, err := FormatSnippet(`{"a":1,"b":[2,3]}`, "json", 80)
	if err != nil {
		t.Fatalf("FormatSnippet returned error: %v", err)
	}
	text := bufferText(buf)
	if buf.Height() < 3 {
		t.Errorf("expected pretty-printed JSON across lines, got %q", text)
	}
	if !strings.Contains(text, `"a": 1`) {
		t.Errorf("expected indented JSON, got %q", text)
	}
}

func TestFormatSnippetInvalidJSONKeptVerbatim(t *testing.T) {
	buf, err := FormatSnippet("{not json", "json", 80)
	if err != nil {
		t.Fatalf("FormatSnippet returned error: %v", err)
	}
	if !strings.Contains(bufferText(buf), "{not json") {
		t.Errorf("expected invalid JSON kept verbatim, got %q", bufferText(buf))
	}
}

func TestFormatSnippetWrapsAtWidth(t *testing.T) {
	buf, err := FormatSnippet(strings.Repeat("x", 50), "text", 20)
	if err != nil {
		t.Fatalf("FormatSnippet returned error: %v", err)
	}
	if buf.Height() != 3 {
		t.Errorf("expected 3 wrapped lines, got %d", buf.Height())
	}
}
