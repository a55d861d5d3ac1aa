// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"termframe/pkg/outputspec"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFindsDirectives(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "docs", "usage.md"), "# Usage\n\n![`tool --help`](img/help.svg \"Help\")\n")

	s := New(nil)
	specs, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	cmd, ok := specs[0].Source.(outputspec.Command)
	if !ok || cmd.Line != "tool --help" {
		t.Errorf("unexpected source %#v", specs[0].Source)
	}
	if specs[0].Title != "Help" {
		t.Errorf("expected title from directive, got %q", specs[0].Title)
	}
	want := filepath.Join(dir, "docs", "img", "help.svg")
	if len(specs[0].ImgPaths) != 1 || specs[0].ImgPaths[0] != want {
		t.Errorf("expected image path %q, got %v", want, specs[0].ImgPaths)
	}
}

func TestScanDirectiveWithoutTitle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.md"), "![`ls`](out.svg)\n")

	specs, err := New(nil).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if specs[0].Title != "" {
		t.Errorf("expected empty title, got %q", specs[0].Title)
	}
}

func TestScanLocalConfigAppliesToNextDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"),
		"<!-- TERMFRAME TERMINAL_WIDTH=60 USE_PTY=true TIMEOUT=9 MIN_PCT_DIFF=12.5 -->\n"+
			"![`cat f`](a.svg)\n\n"+
			"![`cat g`](b.svg)\n")

	specs, err := New(nil).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	first := specs[0]
	if first.TerminalWidth != 60 || !first.UsePTY || first.Timeout != 9*time.Second || first.MinPctDiff != 12.5 {
		t.Errorf("local config not applied: %+v", first)
	}
	second := specs[1]
	if second.TerminalWidth != 0 || second.UsePTY {
		t.Errorf("local config leaked to later directive: %+v", second)
	}
}

func TestScanLocalConfigClearedByText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"),
		"<!-- TERMFRAME TERMINAL_WIDTH=60 -->\nsome prose\n![`ls`](a.svg)\n")

	specs, err := New(nil).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if specs[0].TerminalWidth != 0 {
		t.Errorf("expected cleared config, got width %d", specs[0].TerminalWidth)
	}
}

func TestScanSkipDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"),
		"<!-- TERMFRAME SKIP -->\n![`ls`](a.svg)\n\n![`pwd`](b.svg)\n")

	specs, err := New(nil).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected skipped directive to be dropped, got %d specs", len(specs))
	}
	if cmd := specs[0].Source.(outputspec.Command); cmd.Line != "pwd" {
		t.Errorf("unexpected surviving command %q", cmd.Line)
	}
}

func TestScanIgnoresDangerousCommands(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"),
		"![`rm -rf /tmp/x`](a.svg)\n\n![`echo ok && sudo reboot`](b.svg)\n\n![`echo fine`](c.svg)\n")

	specs, err := New(nil).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected only the safe command, got %d specs", len(specs))
	}
	if cmd := specs[0].Source.(outputspec.Command); cmd.Line != "echo fine" {
		t.Errorf("unexpected surviving command %q", cmd.Line)
	}
}

func TestScanCollapsesDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "![`tool --help`](a.svg)\n")
	writeFile(t, filepath.Join(dir, "b.md"), "![`tool --help`](b.svg)\n")

	specs, err := New(nil).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected duplicates collapsed, got %d specs", len(specs))
	}
	if len(specs[0].ImgPaths) != 2 {
		t.Errorf("expected both image paths kept, got %v", specs[0].ImgPaths)
	}
}

func TestScanHonorsExcludeAndGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "build/\n")
	writeFile(t, filepath.Join(dir, "build", "gen.md"), "![`ls`](a.svg)\n")
	writeFile(t, filepath.Join(dir, "vendor", "v.md"), "![`ls`](b.svg)\n")
	writeFile(t, filepath.Join(dir, "keep.md"), "![`ls`](c.svg)\n")

	s := New(nil)
	s.Exclude = []string{"vendor/**"}
	specs, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected excluded trees skipped, got %d specs", len(specs))
	}
	want := filepath.Join(dir, "c.svg")
	if specs[0].ImgPaths[0] != want {
		t.Errorf("expected %q, got %v", want, specs[0].ImgPaths)
	}
}

func TestScanDefaultsFlowIntoSpecs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "![`ls`](a.svg)\n")

	s := New(nil)
	s.Defaults = Defaults{TerminalWidth: 100, TerminalTheme: "monokai", MinPctDiff: 5}
	specs, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatal("expected 1 spec")
	}
	spec := specs[0]
	if spec.TerminalWidth != 100 || spec.TerminalTheme != "monokai" || spec.MinPctDiff != 5 {
		t.Errorf("defaults not applied: %+v", spec)
	}
}
