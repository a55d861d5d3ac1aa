// SPDX-License-Identifier: MPL-2.0

package outputspec

import (
	"errors"
	"testing"
	"time"
)

func validSpec() *OutputSpec {
	return &OutputSpec{
		Source:   Command{Line: "echo hello"},
		ImgPaths: []string{"out.svg"},
	}
}

func TestIsValidAcceptsMinimalSpec(t *testing.T) {
	spec := validSpec()
	if ok, errs := spec.IsValid(); !ok {
		t.Fatalf("expected valid spec, got %v", errs)
	}
}

func TestIsValidRejectsMissingSource(t *testing.T) {
	spec := validSpec()
	spec.Source = nil

	ok, errs := spec.IsValid()
	if ok {
		t.Fatal("expected spec without source to be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidOutputSpec) {
		t.Errorf("expected ErrInvalidOutputSpec, got %v", errs[0])
	}
	if !errors.Is(errs[0], ErrMissingSource) {
		t.Errorf("expected ErrMissingSource in chain, got %v", errs[0])
	}
}

func TestIsValidRejectsEmptyImagePaths(t *testing.T) {
	spec := validSpec()
	spec.ImgPaths = nil

	ok, errs := spec.IsValid()
	if ok {
		t.Fatal("expected spec without image paths to be invalid")
	}
	if !errors.Is(errs[0], ErrNoImagePaths) {
		t.Errorf("expected ErrNoImagePaths, got %v", errs[0])
	}
}

func TestIsValidRejectsUnsupportedExtension(t *testing.T) {
	spec := validSpec()
	spec.ImgPaths = []string{"out.svg", "out.gif"}

	ok, errs := spec.IsValid()
	if ok {
		t.Fatal("expected .gif path to be invalid")
	}
	if !errors.Is(errs[0], ErrUnsupportedImageFormat) {
		t.Errorf("expected ErrUnsupportedImageFormat, got %v", errs[0])
	}
	var formatErr *UnsupportedImageFormatError
	if !errors.As(errs[0], &formatErr) || formatErr.Path != "out.gif" {
		t.Errorf("expected typed error naming out.gif, got %v", errs[0])
	}
}

func TestIsValidRejectsBadSkipRegex(t *testing.T) {
	spec := validSpec()
	spec.SkipChangeRegex = "valid.*\n[unclosed"

	ok, errs := spec.IsValid()
	if ok {
		t.Fatal("expected bad regex to be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidSkipRegex) {
		t.Errorf("expected ErrInvalidSkipRegex, got %v", errs[0])
	}
}

func TestFormatForPathCaseInsensitive(t *testing.T) {
	cases := []struct {
		path   string
		format Format
		ok     bool
	}{
		{"a.svg", FormatSVG, true},
		{"a.SVG", FormatSVG, true},
		{"dir/b.Png", FormatPNG, true},
		{"c.PDF", FormatPDF, true},
		{"d.jpeg", "", false},
		{"noext", "", false},
	}
	for _, tc := range cases {
		format, ok := FormatForPath(tc.path)
		if ok != tc.ok || format != tc.format {
			t.Errorf("FormatForPath(%q) = %q, %v; want %q, %v", tc.path, format, ok, tc.format, tc.ok)
		}
	}
}

func TestSkipRegexesSplitsLines(t *testing.T) {
	spec := validSpec()
	spec.SkipChangeRegex = "foo.*\n\n  bar  \n"

	got := spec.SkipRegexes()
	if len(got) != 2 || got[0] != "foo.*" || got[1] != "bar" {
		t.Errorf("unexpected patterns: %v", got)
	}
}

func TestEffectiveDefaults(t *testing.T) {
	spec := validSpec()
	if spec.EffectiveWidth() != DefaultTerminalWidth {
		t.Errorf("expected default width, got %d", spec.EffectiveWidth())
	}
	if spec.EffectiveTimeout() != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", spec.EffectiveTimeout())
	}

	spec.TerminalWidth = 120
	spec.Timeout = 2 * time.Second
	if spec.EffectiveWidth() != 120 || spec.EffectiveTimeout() != 2*time.Second {
		t.Error("expected explicit values to win over defaults")
	}
}

func TestContentKeyIgnoresPaths(t *testing.T) {
	a := validSpec()
	b := validSpec()
	b.ImgPaths = []string{"elsewhere/other.png"}

	if a.ContentKey() != b.ContentKey() {
		t.Error("expected identical keys for specs differing only in paths")
	}

	b.Source = Command{Line: "echo other"}
	if a.ContentKey() == b.ContentKey() {
		t.Error("expected different commands to produce different keys")
	}

	c := validSpec()
	c.Source = Snippet{Text: "echo hello"}
	if a.ContentKey() == c.ContentKey() {
		t.Error("expected command and snippet with same text to differ")
	}
}

func TestSourceDescribe(t *testing.T) {
	if got := (Command{Line: "ls -la"}).Describe(); got != "ls -la" {
		t.Errorf("unexpected command description %q", got)
	}
	got := (Snippet{Text: "print(1)\nprint(2)", Syntax: "python"}).Describe()
	if got != "snippet(python): print(1)" {
		t.Errorf("unexpected snippet description %q", got)
	}
}
