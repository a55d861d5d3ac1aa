// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"termframe/internal/config"
	"termframe/internal/pipeline"
	"termframe/internal/scan"
	"termframe/internal/term"
	"termframe/pkg/outputspec"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	flagCommand         string
	flagSnippet         string
	flagSnippetSyntax   string
	flagTitle           string
	flagOutputs         []string
	flagWidth           int
	flagTheme           string
	flagUsePTY          bool
	flagTimeout         time.Duration
	flagMinPctDiff      float64
	flagSkipChangeRegex string
	flagParallel        int
	flagSearchRoot      string
	flagNoSearch        bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "termframe",
		Short: "Render terminal output as images",
		Long: TitleStyle.Render("termframe") + SubtitleStyle.Render(" - Render terminal output as images") + `

termframe captures the output of shell commands (or styles a code
snippet) and renders it as a terminal window image in SVG, PNG or PDF
format. Existing images are only overwritten when the content actually
changed, so generated documentation stays stable across runs.

Jobs come from three places: flags for a one-off image, an outputs list
in the config file, and markdown directives discovered by scanning
documentation:

  ![` + "`termframe --help`" + `](docs/img/help.svg "Optional title")

` + SubtitleStyle.Render("Examples:") + `
  termframe --command "ls -la" -o out.svg
  termframe --snippet '{"a": 1}' --snippet-syntax json -o snip.png
  termframe --use-pty --command "git log --oneline -5" -o log.svg
  termframe                    Scan markdown and regenerate images
  termframe themes             List available terminal themes`,
		RunE: runRoot,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.termframe.yml)")

	rootCmd.Flags().StringVarP(&flagCommand, "command", "c", "", "shell command to capture")
	rootCmd.Flags().StringVarP(&flagSnippet, "snippet", "s", "", "code snippet to render instead of a command ('-' reads stdin)")
	rootCmd.Flags().StringVar(&flagSnippetSyntax, "snippet-syntax", "", "language for snippet highlighting (e.g. python, json)")
	rootCmd.Flags().StringVar(&flagTitle, "title", "", "window title (defaults to the command line)")
	rootCmd.Flags().StringSliceVarP(&flagOutputs, "output", "o", nil, "output image path, repeatable (.svg, .png, .pdf)")
	rootCmd.Flags().IntVar(&flagWidth, "width", 0, "terminal width in columns")
	rootCmd.Flags().StringVar(&flagTheme, "theme", "", "terminal color theme (see 'termframe themes')")
	rootCmd.Flags().BoolVar(&flagUsePTY, "use-pty", false, "run the command under a pseudo-terminal")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-command timeout")
	rootCmd.Flags().Float64Var(&flagMinPctDiff, "min-pct-diff", 0, "minimum percent change required to overwrite an image")
	rootCmd.Flags().StringVar(&flagSkipChangeRegex, "skip-change-regex", "", "skip overwrite when all changed lines match these patterns (one per line)")
	rootCmd.Flags().IntVar(&flagParallel, "parallel", 0, "maximum concurrent jobs")
	rootCmd.Flags().StringVar(&flagSearchRoot, "search-root", ".", "directory to scan for markdown directives")
	rootCmd.Flags().BoolVar(&flagNoSearch, "no-search", false, "disable markdown scanning")

	rootCmd.AddCommand(themesCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	specs, err := collectSpecs(cmd, cfg, logger)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		logger.Warn("nothing to do: no command, no config outputs, no markdown directives found")
		return nil
	}

	p := pipeline.New(logger)
	results := p.RenderAll(cmd.Context(), specs, cfg.Parallel)
	return report(cmd, results)
}

// applyFlagOverrides copies explicitly set global flags over the loaded
// config, so flags beat both config file and defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("width") {
		cfg.TerminalWidth = flagWidth
	}
	if cmd.Flags().Changed("theme") {
		cfg.TerminalTheme = flagTheme
	}
	if cmd.Flags().Changed("use-pty") {
		cfg.UsePTY = flagUsePTY
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("min-pct-diff") {
		cfg.MinPctDiff = flagMinPctDiff
	}
	if cmd.Flags().Changed("skip-change-regex") {
		cfg.SkipChangeRegex = flagSkipChangeRegex
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = flagParallel
	}
}

// collectSpecs gathers output jobs from flags, the config file and the
// markdown scanner. An explicit --command/--snippet replaces the other
// sources for this invocation.
func collectSpecs(cmd *cobra.Command, cfg *config.Config, logger *log.Logger) ([]*outputspec.OutputSpec, error) {
	if flagCommand != "" || flagSnippet != "" {
		spec, err := specFromFlags(cfg)
		if err != nil {
			return nil, err
		}
		return []*outputspec.OutputSpec{spec}, nil
	}

	specs, err := cfg.Specs()
	if err != nil {
		return nil, err
	}

	if !flagNoSearch {
		scanner := scan.New(logger)
		scanner.Include = cfg.SearchInclude
		scanner.Exclude = cfg.SearchExclude
		scanner.Defaults = scan.Defaults{
			MinPctDiff:      cfg.MinPctDiff,
			SkipChangeRegex: cfg.SkipChangeRegex,
			TerminalWidth:   cfg.TerminalWidth,
			TerminalTheme:   cfg.TerminalTheme,
			UsePTY:          cfg.UsePTY,
			Timeout:         cfg.Timeout,
		}
		found, err := scanner.Scan(flagSearchRoot)
		if err != nil {
			return nil, err
		}
		specs = append(specs, found...)
	}
	return specs, nil
}

// specFromFlags builds the single output job described on the command line.
func specFromFlags(cfg *config.Config) (*outputspec.OutputSpec, error) {
	if flagCommand != "" && flagSnippet != "" {
		return nil, config.ErrAmbiguousEntrySource
	}
	if len(flagOutputs) == 0 {
		return nil, fmt.Errorf("at least one --output path is required with --command or --snippet")
	}

	var source outputspec.Source
	if flagCommand != "" {
		source = outputspec.Command{Line: flagCommand}
	} else {
		text := flagSnippet
		if text == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read snippet from stdin: %w", err)
			}
			text = string(data)
		}
		source = outputspec.Snippet{Text: text, Syntax: flagSnippetSyntax}
	}

	return &outputspec.OutputSpec{
		Source:          source,
		Title:           flagTitle,
		ImgPaths:        flagOutputs,
		TerminalWidth:   cfg.TerminalWidth,
		TerminalTheme:   cfg.TerminalTheme,
		UsePTY:          cfg.UsePTY,
		MinPctDiff:      cfg.MinPctDiff,
		SkipChangeRegex: cfg.SkipChangeRegex,
		Timeout:         cfg.Timeout,
	}, nil
}

// report prints the per-job outcome and run totals, and converts failures
// into a non-zero exit.
func report(cmd *cobra.Command, results []*pipeline.Result) error {
	out := cmd.OutOrStdout()
	for _, r := range results {
		switch {
		case r.Failed():
			fmt.Fprintln(out, ErrorStyle.Render("✗ ")+r.Spec.Source.Describe()+": "+r.Err.Error())
		default:
			for _, path := range r.Written {
				fmt.Fprintln(out, SuccessStyle.Render("✓ ")+path)
			}
			for _, path := range r.Skipped {
				fmt.Fprintln(out, WarningStyle.Render("- ")+path+SubtitleStyle.Render(" (unchanged)"))
			}
		}
	}

	s := pipeline.Summarize(results)
	fmt.Fprintln(out, SubtitleStyle.Render(
		fmt.Sprintf("%d saved, %d skipped, %d failed", s.Saved, s.Skipped, s.Failed)))
	if s.Failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d job(s) failed", s.Failed)}
	}
	return nil
}

// themesCmd lists the terminal color themes.
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available terminal themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range term.ThemeNames() {
			if name == term.DefaultThemeName {
				fmt.Fprintln(out, TitleStyle.Render(name)+SubtitleStyle.Render(" (default)"))
				continue
			}
			fmt.Fprintln(out, name)
		}
		return nil
	},
}
