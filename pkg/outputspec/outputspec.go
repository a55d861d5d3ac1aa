// SPDX-License-Identifier: MPL-2.0

package outputspec

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTerminalWidth is the column count used when a spec does not set one.
	DefaultTerminalWidth = 80
	// DefaultTimeout bounds command execution when a spec does not set one.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrInvalidOutputSpec is the sentinel error wrapped by InvalidOutputSpecError.
	ErrInvalidOutputSpec = errors.New("invalid output spec")
	// ErrMissingSource is returned when a spec has neither command nor snippet.
	ErrMissingSource = errors.New("output spec needs exactly one of command or snippet")
	// ErrNoImagePaths is returned when a spec has an empty img_paths list.
	ErrNoImagePaths = errors.New("output spec has no image paths")
	// ErrUnsupportedImageFormat is the sentinel error wrapped by UnsupportedImageFormatError.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	// ErrInvalidSkipRegex is the sentinel error wrapped by InvalidSkipRegexError.
	ErrInvalidSkipRegex = errors.New("invalid skip-change regex")
)

// Format identifies one of the supported image encodings.
type Format string

const (
	// FormatSVG is the vector terminal mockup.
	FormatSVG Format = "svg"
	// FormatPNG is the raster render derived from the vector document.
	FormatPNG Format = "png"
	// FormatPDF is the print render derived from the vector document.
	FormatPDF Format = "pdf"
)

// FormatForPath maps a destination path onto its target format via the file
// extension, case-insensitively. ok is false for unsupported extensions.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, true
	case ".png":
		return FormatPNG, true
	case ".pdf":
		return FormatPDF, true
	default:
		return "", false
	}
}

// Source is the closed set of capture inputs: a shell command to execute or
// a literal snippet to highlight. Exactly one concrete type backs each spec.
type Source interface {
	isSource()
	// Describe returns a short human-readable form for logs and titles.
	Describe() string
}

// Command executes a shell command and captures its output.
type Command struct {
	// Line is the command string, run through the host shell.
	Line string
}

func (Command) isSource() {}

// Describe returns the command line.
func (c Command) Describe() string { return c.Line }

// Snippet formats literal source text without running anything.
type Snippet struct {
	// Text is the literal content to render.
	Text string
	// Syntax is the declared language for highlighting. Unknown values
	// degrade to plain text.
	Syntax string
}

func (Snippet) isSource() {}

// Describe returns a one-line summary of the snippet.
func (s Snippet) Describe() string {
	first := s.Text
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return fmt.Sprintf("snippet(%s): %s", s.Syntax, first)
}

// OutputSpec is one requested screenshot job.
type OutputSpec struct {
	// Source is the capture input (command or snippet). Never nil in a
	// valid spec.
	Source Source
	// Title is drawn in the rendered window's title bar. Empty defaults to
	// the command line at render time.
	Title string
	// ImgPaths are the destination files, ordered. Extensions select the
	// format (svg/png/pdf, case-insensitive).
	ImgPaths []string
	// Timeout bounds command execution. Zero means DefaultTimeout.
	Timeout time.Duration
	// MinPctDiff is the minimum percentage difference against the previous
	// image required to overwrite it. Zero writes on any change.
	MinPctDiff float64
	// SkipChangeRegex holds newline-separated regexes; when every changed
	// line of the prior output matches one of them, the change is treated
	// as non-semantic churn and skipped.
	SkipChangeRegex string
	// TerminalWidth is the capture/render column count. Zero means
	// DefaultTerminalWidth.
	TerminalWidth int
	// TerminalTheme names the color theme. Empty means the default
	// export theme.
	TerminalTheme string
	// UsePTY captures the command under a pseudo-terminal so programs keep
	// emitting color.
	UsePTY bool
}

// InvalidOutputSpecError collects field-level validation errors for one spec.
// It wraps ErrInvalidOutputSpec for errors.Is() compatibility.
type InvalidOutputSpecError struct {
	FieldErrors []error
}

// Error implements the error interface for InvalidOutputSpecError.
func (e *InvalidOutputSpecError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid output spec: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidOutputSpec for errors.Is() compatibility.
func (e *InvalidOutputSpecError) Unwrap() error { return ErrInvalidOutputSpec }

// UnsupportedImageFormatError is returned for an img_paths entry whose
// extension is not svg, png or pdf. It wraps ErrUnsupportedImageFormat.
type UnsupportedImageFormatError struct {
	Path string
}

// Error implements the error interface for UnsupportedImageFormatError.
func (e *UnsupportedImageFormatError) Error() string {
	return fmt.Sprintf("unsupported image format %q (valid extensions: .svg, .png, .pdf)", e.Path)
}

// Unwrap returns ErrUnsupportedImageFormat for errors.Is() compatibility.
func (e *UnsupportedImageFormatError) Unwrap() error { return ErrUnsupportedImageFormat }

// InvalidSkipRegexError is returned when a skip-change regex does not
// compile. It wraps ErrInvalidSkipRegex.
type InvalidSkipRegexError struct {
	Pattern string
	Err     error
}

// Error implements the error interface for InvalidSkipRegexError.
func (e *InvalidSkipRegexError) Error() string {
	return fmt.Sprintf("invalid skip-change regex %q: %v", e.Pattern, e.Err)
}

// Unwrap returns ErrInvalidSkipRegex for errors.Is() compatibility.
func (e *InvalidSkipRegexError) Unwrap() error { return ErrInvalidSkipRegex }

// IsValid returns whether the spec can enter the pipeline, and the
// field-level validation errors if it cannot.
func (s *OutputSpec) IsValid() (bool, []error) {
	var errs []error
	if s.Source == nil {
		errs = append(errs, ErrMissingSource)
	}
	if len(s.ImgPaths) == 0 {
		errs = append(errs, ErrNoImagePaths)
	}
	for _, path := range s.ImgPaths {
		if _, ok := FormatForPath(path); !ok {
			errs = append(errs, &UnsupportedImageFormatError{Path: path})
		}
	}
	for _, pattern := range s.SkipRegexes() {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, &InvalidSkipRegexError{Pattern: pattern, Err: err})
		}
	}
	if s.MinPctDiff < 0 || s.MinPctDiff > 100 {
		errs = append(errs, fmt.Errorf("min_pct_diff %v outside [0, 100]", s.MinPctDiff))
	}
	if s.TerminalWidth < 0 {
		errs = append(errs, fmt.Errorf("terminal_width %d is negative", s.TerminalWidth))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidOutputSpecError{FieldErrors: errs}}
	}
	return true, nil
}

// SkipRegexes splits the skip-change field into individual patterns,
// dropping blank lines.
func (s *OutputSpec) SkipRegexes() []string {
	if s.SkipChangeRegex == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s.SkipChangeRegex, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// EffectiveWidth returns the terminal width with the default applied.
func (s *OutputSpec) EffectiveWidth() int {
	if s.TerminalWidth > 0 {
		return s.TerminalWidth
	}
	return DefaultTerminalWidth
}

// EffectiveTimeout returns the timeout with the default applied.
func (s *OutputSpec) EffectiveTimeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

// ContentKey returns a stable digest of everything except the destination
// paths. Two specs with the same key produce identical images, so the
// scanner merges their img_paths and captures once.
func (s *OutputSpec) ContentKey() string {
	h := sha256.New()
	switch src := s.Source.(type) {
	case Command:
		fmt.Fprintf(h, "cmd\x00%s\x00", src.Line)
	case Snippet:
		fmt.Fprintf(h, "snip\x00%s\x00%s\x00", src.Syntax, src.Text)
	}
	fmt.Fprintf(h, "%s\x00%v\x00%s\x00%d\x00%s\x00%v",
		s.Title, s.MinPctDiff, s.SkipChangeRegex, s.TerminalWidth, s.TerminalTheme, s.UsePTY)
	return hex.EncodeToString(h.Sum(nil))
}
