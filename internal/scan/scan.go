// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"termframe/pkg/outputspec"
)

// ignoreCommands are prefixes of commands never run from documentation,
// however they got there.
var ignoreCommands = []string{"rm", "cp", "mv", "sudo"}

var (
	// e.g. <!-- TERMFRAME TERMINAL_WIDTH=60 -->
	configCommentRe = regexp.MustCompile(`<!--\s*TERMFRAME\s+(.*?)\s*-->`)
	// e.g. ![`termframe --help`](img/help.svg "Title")
	imgCommandRe = regexp.MustCompile("!\\[`([^`]+)`\\]\\(([^)\"']+?)(?:\\s+[\"']([^\"']*)[\"'])?\\)")
)

// defaultInclude is searched when no include patterns are configured.
var defaultInclude = []string{"**/*.md"}

// defaultExclude always applies, before .gitignore and user patterns.
var defaultExclude = []string{"**/.git/**", "**/node_modules/**"}

// Defaults are the run-level settings applied to every discovered job
// unless its local config comment overrides them.
type Defaults struct {
	MinPctDiff      float64
	SkipChangeRegex string
	TerminalWidth   int
	TerminalTheme   string
	UsePTY          bool
	Timeout         time.Duration
}

// Scanner searches documentation trees for embedded output jobs.
type Scanner struct {
	// Include and Exclude are doublestar patterns relative to the scan
	// root. Empty Include falls back to **/*.md.
	Include  []string
	Exclude  []string
	Defaults Defaults

	logger *log.Logger
}

// New creates a Scanner logging through the given logger.
func New(logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Scanner{logger: logger.WithPrefix("scan")}
}

// Scan walks root for matching files and returns the output specs their
// directives declare, duplicates collapsed. Files that cannot be read are
// logged and skipped.
func (s *Scanner) Scan(root string) ([]*outputspec.OutputSpec, error) {
	files, err := s.matchFiles(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		s.logger.Warn("no files found to search", "root", root)
		return nil, nil
	}
	s.logger.Info("searching files", "count", len(files))

	var specs []*outputspec.OutputSpec
	for _, file := range files {
		found, err := s.scanFile(filepath.Join(root, file))
		if err != nil {
			s.logger.Warn("skipping unreadable file", "file", file, "err", err)
			continue
		}
		specs = append(specs, found...)
	}
	return s.collapse(specs), nil
}

// matchFiles resolves include patterns minus exclude patterns, sorted for
// a stable scan order.
func (s *Scanner) matchFiles(root string) ([]string, error) {
	include := s.Include
	if len(include) == 0 {
		include = defaultInclude
	}
	exclude := append(append([]string{}, defaultExclude...), s.Exclude...)
	exclude = append(exclude, gitignorePatterns(root)...)

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			seen[m] = true
		}
	}

	var files []string
outer:
	for file := range seen {
		for _, pattern := range exclude {
			if ok, _ := doublestar.Match(pattern, file); ok {
				continue outer
			}
		}
		files = append(files, file)
	}
	sort.Strings(files)
	return files, nil
}

// gitignorePatterns turns .gitignore entries into exclusion globs, the
// cheap approximation that covers the common "build output committed next
// to docs" case.
func gitignorePatterns(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "/")
		line = strings.TrimSuffix(line, "/")
		patterns = append(patterns, line, line+"/**", "**/"+line+"/**")
	}
	return patterns
}

// scanFile extracts output jobs from one documentation file. A config
// comment applies to the next image directive; any other non-blank line
// clears it.
func (s *Scanner) scanFile(path string) ([]*outputspec.OutputSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var specs []*outputspec.OutputSpec
	local := map[string]string{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if m := imgCommandRe.FindStringSubmatch(line); m != nil && local["SKIP"] == "" {
			cmd, imgPath, title := m[1], strings.TrimSpace(m[2]), m[3]
			if ignored, prefix := isIgnoredCommand(cmd); ignored {
				s.logger.Warn("ignoring command from docs", "cmd", cmd, "matched", prefix)
			} else {
				spec := s.buildSpec(cmd, title, filepath.Join(filepath.Dir(path), imgPath), local)
				specs = append(specs, spec)
				s.logger.Debug("found directive", "file", path, "cmd", cmd, "img", imgPath)
			}
		}

		if strings.TrimSpace(line) != "" {
			local = map[string]string{}
		}

		if m := configCommentRe.FindStringSubmatch(line); m != nil {
			for _, part := range strings.Fields(m[1]) {
				if key, value, ok := strings.Cut(part, "="); ok {
					local[key] = value
				} else {
					local[part] = "true"
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}

// buildSpec merges run defaults with a directive's local config.
func (s *Scanner) buildSpec(cmd, title, imgPath string, local map[string]string) *outputspec.OutputSpec {
	d := s.Defaults
	spec := &outputspec.OutputSpec{
		Source:          outputspec.Command{Line: cmd},
		Title:           title,
		ImgPaths:        []string{imgPath},
		Timeout:         d.Timeout,
		MinPctDiff:      d.MinPctDiff,
		SkipChangeRegex: d.SkipChangeRegex,
		TerminalWidth:   d.TerminalWidth,
		TerminalTheme:   d.TerminalTheme,
		UsePTY:          d.UsePTY,
	}
	if v, ok := local["MIN_PCT_DIFF"]; ok {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			spec.MinPctDiff = pct
		}
	}
	if v, ok := local["SKIP_CHANGE_REGEX"]; ok {
		spec.SkipChangeRegex = v
	}
	if v, ok := local["TERMINAL_WIDTH"]; ok {
		if w, err := strconv.Atoi(v); err == nil {
			spec.TerminalWidth = w
		}
	}
	if v, ok := local["TERMINAL_THEME"]; ok {
		spec.TerminalTheme = v
	}
	if v, ok := local["USE_PTY"]; ok {
		spec.UsePTY = v == "true" || v == "1"
	}
	if v, ok := local["TIMEOUT"]; ok {
		if secs, err := strconv.Atoi(v); err == nil {
			spec.Timeout = time.Duration(secs) * time.Second
		}
	}
	return spec
}

// isIgnoredCommand reports whether any segment of a compound command
// starts with an ignored program name.
func isIgnoredCommand(cmd string) (bool, string) {
	segments := strings.FieldsFunc(cmd, func(r rune) bool {
		return r == '&' || r == ';' || r == '|'
	})
	for _, segment := range segments {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		for _, prefix := range ignoreCommands {
			if fields[0] == prefix {
				return true, prefix
			}
		}
	}
	return false, ""
}

// collapse merges specs that differ only in destination path, preserving
// first-seen order, so one capture serves all copies of a directive.
func (s *Scanner) collapse(specs []*outputspec.OutputSpec) []*outputspec.OutputSpec {
	byKey := make(map[string]*outputspec.OutputSpec)
	var order []string
	for _, spec := range specs {
		key := spec.ContentKey()
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = spec
			order = append(order, key)
			continue
		}
		for _, path := range spec.ImgPaths {
			if !containsString(existing.ImgPaths, path) {
				existing.ImgPaths = append(existing.ImgPaths, path)
			}
		}
	}
	if len(order) < len(specs) {
		s.logger.Debug("collapsed duplicate directives", "from", len(specs), "to", len(order))
	}
	out := make([]*outputspec.OutputSpec, len(order))
	for i, key := range order {
		out[i] = byKey[key]
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
