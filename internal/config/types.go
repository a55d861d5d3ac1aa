// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"termframe/pkg/outputspec"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidOutputEntry is the sentinel error wrapped by InvalidOutputEntryError.
	ErrInvalidOutputEntry = errors.New("invalid output entry")
	// ErrAmbiguousEntrySource is returned when an entry sets both command and snippet.
	ErrAmbiguousEntrySource = errors.New("output entry sets both command and snippet")
	// ErrMissingEntrySource is returned when an entry sets neither command nor snippet.
	ErrMissingEntrySource = errors.New("output entry needs one of command or snippet")
	// ErrMissingEntryPaths is returned when an entry declares no image paths.
	ErrMissingEntryPaths = errors.New("output entry needs at least one image path")
)

type (
	// InvalidConfigError is returned when a loaded configuration fails
	// validation. It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Path string
		Errs []error
	}

	// InvalidOutputEntryError identifies which outputs entry failed
	// validation. It wraps ErrInvalidOutputEntry for errors.Is() compatibility.
	InvalidOutputEntryError struct {
		Index int
		Err   error
	}
)

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config %q: %s", e.Path, strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func (e *InvalidOutputEntryError) Error() string {
	return fmt.Sprintf("outputs[%d]: %v", e.Index, e.Err)
}

func (e *InvalidOutputEntryError) Unwrap() error { return ErrInvalidOutputEntry }

// Config is the full run configuration. Zero values fall back to the
// defaults from DefaultConfig.
type Config struct {
	// TerminalWidth is the default virtual terminal width in columns.
	TerminalWidth int `mapstructure:"terminal_width"`
	// TerminalTheme names the default color theme.
	TerminalTheme string `mapstructure:"terminal_theme"`
	// UsePTY runs commands under a pseudo-terminal by default.
	UsePTY bool `mapstructure:"use_pty"`
	// MinPctDiff is the default change threshold in percent.
	MinPctDiff float64 `mapstructure:"min_pct_diff"`
	// SkipChangeRegex holds default skip patterns, one per line.
	SkipChangeRegex string `mapstructure:"skip_change_regex"`
	// Timeout bounds each command's runtime.
	Timeout time.Duration `mapstructure:"timeout"`
	// SearchInclude and SearchExclude are glob patterns for the
	// documentation scanner.
	SearchInclude []string `mapstructure:"search_include"`
	SearchExclude []string `mapstructure:"search_exclude"`
	// Parallel caps concurrent jobs.
	Parallel int `mapstructure:"parallel"`
	// Outputs are explicit jobs declared in the config file.
	Outputs []OutputEntry `mapstructure:"outputs"`
}

// OutputEntry declares one output job in the config file. Pointer fields
// are optional per-entry overrides of the global settings; nil means
// inherit.
type OutputEntry struct {
	Command       string   `mapstructure:"command"`
	Snippet       string   `mapstructure:"snippet"`
	SnippetSyntax string   `mapstructure:"snippet_syntax"`
	Title         string   `mapstructure:"title"`
	ImgPaths      []string `mapstructure:"img_paths"`

	TerminalWidth   *int           `mapstructure:"terminal_width"`
	TerminalTheme   *string        `mapstructure:"terminal_theme"`
	UsePTY          *bool          `mapstructure:"use_pty"`
	MinPctDiff      *float64       `mapstructure:"min_pct_diff"`
	SkipChangeRegex *string        `mapstructure:"skip_change_regex"`
	Timeout         *time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the built-in settings used when no config file is
// found.
func DefaultConfig() *Config {
	return &Config{
		TerminalWidth: outputspec.DefaultTerminalWidth,
		Timeout:       outputspec.DefaultTimeout,
		Parallel:      4,
	}
}

// IsValid reports whether the configuration is structurally valid,
// returning every violation found.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if c.TerminalWidth < 0 {
		errs = append(errs, fmt.Errorf("%w: terminal_width must not be negative", ErrInvalidConfig))
	}
	if c.MinPctDiff < 0 || c.MinPctDiff > 100 {
		errs = append(errs, fmt.Errorf("%w: min_pct_diff must be between 0 and 100", ErrInvalidConfig))
	}
	if c.Parallel < 0 {
		errs = append(errs, fmt.Errorf("%w: parallel must not be negative", ErrInvalidConfig))
	}
	for i, entry := range c.Outputs {
		if err := entry.validate(); err != nil {
			errs = append(errs, &InvalidOutputEntryError{Index: i, Err: err})
		}
	}
	return len(errs) == 0, errs
}

func (e *OutputEntry) validate() error {
	hasCommand := strings.TrimSpace(e.Command) != ""
	hasSnippet := e.Snippet != ""
	switch {
	case hasCommand && hasSnippet:
		return ErrAmbiguousEntrySource
	case !hasCommand && !hasSnippet:
		return ErrMissingEntrySource
	}
	if len(e.ImgPaths) == 0 {
		return ErrMissingEntryPaths
	}
	return nil
}

// ToSpec materializes the entry into an output spec, inheriting from the
// global settings wherever the entry does not override.
func (e *OutputEntry) ToSpec(c *Config) (*outputspec.OutputSpec, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	var source outputspec.Source
	if strings.TrimSpace(e.Command) != "" {
		source = outputspec.Command{Line: e.Command}
	} else {
		source = outputspec.Snippet{Text: e.Snippet, Syntax: e.SnippetSyntax}
	}

	spec := &outputspec.OutputSpec{
		Source:          source,
		Title:           e.Title,
		ImgPaths:        append([]string{}, e.ImgPaths...),
		TerminalWidth:   c.TerminalWidth,
		TerminalTheme:   c.TerminalTheme,
		UsePTY:          c.UsePTY,
		MinPctDiff:      c.MinPctDiff,
		SkipChangeRegex: c.SkipChangeRegex,
		Timeout:         c.Timeout,
	}
	if e.TerminalWidth != nil {
		spec.TerminalWidth = *e.TerminalWidth
	}
	if e.TerminalTheme != nil {
		spec.TerminalTheme = *e.TerminalTheme
	}
	if e.UsePTY != nil {
		spec.UsePTY = *e.UsePTY
	}
	if e.MinPctDiff != nil {
		spec.MinPctDiff = *e.MinPctDiff
	}
	if e.SkipChangeRegex != nil {
		spec.SkipChangeRegex = *e.SkipChangeRegex
	}
	if e.Timeout != nil {
		spec.Timeout = *e.Timeout
	}
	return spec, nil
}

// Specs materializes every outputs entry.
func (c *Config) Specs() ([]*outputspec.OutputSpec, error) {
	specs := make([]*outputspec.OutputSpec, 0, len(c.Outputs))
	for i := range c.Outputs {
		spec, err := c.Outputs[i].ToSpec(c)
		if err != nil {
			return nil, &InvalidOutputEntryError{Index: i, Err: err}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
