// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"termframe/internal/capture"
	"termframe/internal/diff"
	"termframe/internal/render"
	"termframe/internal/term"
	"termframe/internal/writer"
	"termframe/pkg/outputspec"
)

// Result is the per-job outcome. Err is nil for jobs that ran to
// completion, including jobs where every path was skipped.
type Result struct {
	Spec *outputspec.OutputSpec
	// Written and Skipped hold destination paths by verdict, in spec order.
	Written []string
	Skipped []string
	// Verdicts maps each destination path to its change decision.
	Verdicts map[string]diff.Verdict
	// ExitCode is the captured command's exit status (0 for snippets).
	ExitCode int
	Err      error
}

// Failed reports whether the job errored.
func (r *Result) Failed() bool { return r.Err != nil }

// Summary aggregates a run for reporting.
type Summary struct {
	Saved, Skipped, Failed int
}

// Summarize folds results into run totals.
func Summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Failed() {
			s.Failed++
			continue
		}
		s.Saved += len(r.Written)
		s.Skipped += len(r.Skipped)
	}
	return s
}

// Pipeline executes output specs end to end.
type Pipeline struct {
	runner *capture.Runner
	writer *writer.Writer
	logger *log.Logger
}

// New creates a pipeline logging through the given logger.
func New(logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Pipeline{
		runner: capture.NewRunner(logger),
		writer: writer.New(logger),
		logger: logger.WithPrefix("pipeline"),
	}
}

// Render processes one output spec: capture, render, decide, write. The
// returned Result always carries the spec; Err is set for validation,
// execution, timeout and encoding failures, all scoped to this job.
func (p *Pipeline) Render(ctx context.Context, spec *outputspec.OutputSpec) *Result {
	result := &Result{Spec: spec, Verdicts: make(map[string]diff.Verdict)}

	if ok, errs := spec.IsValid(); !ok {
		result.Err = errs[0]
		return result
	}

	theme, ok := term.LookupTheme(spec.TerminalTheme)
	if !ok {
		p.logger.Warn("theme not found, falling back to default",
			"theme", spec.TerminalTheme, "default", term.DefaultThemeName)
		theme = term.DefaultTheme()
	}

	buf, exitCode, err := p.capture(ctx, spec)
	if err != nil {
		var timeoutErr *capture.TimeoutError
		if errors.As(err, &timeoutErr) && len(timeoutErr.Partial) > 0 {
			// Surface what the command managed to print before the kill.
			partial := term.Fold(timeoutErr.Partial, spec.EffectiveWidth())
			for _, line := range partial.Text() {
				p.logger.Debug("partial output", "line", line)
			}
		}
		result.Err = err
		return result
	}
	result.ExitCode = exitCode

	title := spec.Title
	if title == "" {
		title = spec.Source.Describe()
	}
	buf.Title = title

	renderer := render.New(buf, render.Options{Title: title, Theme: theme})

	engine, err := diff.NewEngine(spec.MinPctDiff, spec.SkipRegexes())
	if err != nil {
		result.Err = err
		return result
	}

	for _, path := range spec.ImgPaths {
		format, _ := outputspec.FormatForPath(path)
		img, err := renderer.Encode(format)
		if err != nil {
			result.Err = err
			return result
		}

		old, err := readIfExists(path)
		if err != nil {
			result.Err = err
			return result
		}

		verdict := engine.Decide(img.Bytes, old, strings.ToLower(filepath.Ext(path)))
		result.Verdicts[path] = verdict
		if !verdict.Write {
			p.logger.Debug("skipped", "path", path, "reason", verdict.Reason)
			result.Skipped = append(result.Skipped, path)
			continue
		}
		if err := p.writer.Write(path, img.Bytes); err != nil {
			result.Err = err
			return result
		}
		p.logger.Info("saved", "path", path, "reason", verdict.Reason)
		result.Written = append(result.Written, path)
	}
	return result
}

// RenderAll processes specs concurrently with at most maxParallel jobs in
// flight. Results are returned in spec order; per-job failures do not stop
// the run.
func (p *Pipeline) RenderAll(ctx context.Context, specs []*outputspec.OutputSpec, maxParallel int) []*Result {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	results := make([]*Result, len(specs))
	wp := pool.New().WithMaxGoroutines(maxParallel)
	for i, spec := range specs {
		wp.Go(func() {
			results[i] = p.Render(ctx, spec)
		})
	}
	wp.Wait()
	return results
}

// capture produces the cell buffer for the spec's source along with the
// command exit code (0 for snippets).
func (p *Pipeline) capture(ctx context.Context, spec *outputspec.OutputSpec) (*term.Buffer, int, error) {
	width := spec.EffectiveWidth()
	switch src := spec.Source.(type) {
	case outputspec.Command:
		captured, err := p.runner.Run(ctx, src.Line, capture.Options{
			Timeout: spec.EffectiveTimeout(),
			UsePTY:  spec.UsePTY,
			Width:   width,
		})
		if err != nil {
			return nil, 0, err
		}
		return captured.Buffer(width), captured.ExitCode, nil
	case outputspec.Snippet:
		buf, err := capture.FormatSnippet(src.Text, src.Syntax, width)
		return buf, 0, err
	default:
		return nil, 0, outputspec.ErrMissingSource
	}
}

func readIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
