// SPDX-License-Identifier: MPL-2.0

package diff

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// builtinSkipRegexes are always-on churn filters keyed by destination file
// extension. PDF files embed a creation date line that changes without the
// content changing.
var builtinSkipRegexes = map[string][]string{
	".pdf": {`/CreationDate`},
}

// Verdict is the engine's classification of one rendered image.
type Verdict struct {
	// Write is true when the new bytes should replace the old file.
	Write bool
	// PctChange is the computed difference magnitude, 0-100.
	PctChange float64
	// Reason is a short human-readable explanation for logging.
	Reason string
}

// String renders the verdict for logs.
func (v Verdict) String() string {
	action := "skip"
	if v.Write {
		action = "write"
	}
	return fmt.Sprintf("%s (%s)", action, v.Reason)
}

// Engine classifies rendered output against previously written files.
type Engine struct {
	// MinPctDiff is the threshold below which changes are skipped.
	MinPctDiff float64

	patterns []*regexp.Regexp
	dmp      *diffmatchpatch.DiffMatchPatch
}

// NewEngine builds an engine with the given threshold and user-supplied
// skip-change patterns. Patterns must be pre-validated; invalid ones are
// rejected here as a safety net.
func NewEngine(minPctDiff float64, skipPatterns []string) (*Engine, error) {
	e := &Engine{MinPctDiff: minPctDiff, dmp: diffmatchpatch.New()}
	for _, p := range skipPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling skip-change regex %q: %w", p, err)
		}
		e.patterns = append(e.patterns, re)
	}
	return e, nil
}

// Decide classifies newData against oldData for a destination with the
// given extension (".svg", ".png", ".pdf"). A nil oldData means no prior
// file exists and always yields a write.
func (e *Engine) Decide(newData, oldData []byte, ext string) Verdict {
	if oldData == nil {
		return Verdict{Write: true, PctChange: 100, Reason: "new image"}
	}

	pct := e.pctChange(newData, oldData)
	reason := fmt.Sprintf("%.2f%% change", pct)

	if pct <= e.MinPctDiff {
		return Verdict{Write: false, PctChange: pct, Reason: reason}
	}

	patterns := e.patternsFor(ext)
	if len(patterns) > 0 {
		changed := e.changedLines(string(oldData), string(newData))
		if len(changed) > 0 {
			matched := 0
			for _, line := range changed {
				for _, re := range patterns {
					if re.MatchString(line) {
						matched++
						break
					}
				}
			}
			reason = fmt.Sprintf("%s, %d/%d changed lines matched skip filters", reason, matched, len(changed))
			if matched == len(changed) {
				return Verdict{Write: false, PctChange: pct, Reason: reason}
			}
		}
	}

	return Verdict{Write: true, PctChange: pct, Reason: reason}
}

// pctChange returns the normalized Levenshtein distance between the two
// byte strings as a percentage. Works on binary content; no decoding
// happens here.
func (e *Engine) pctChange(newData, oldData []byte) float64 {
	if len(newData) == 0 && len(oldData) == 0 {
		return 0
	}
	if string(newData) == string(oldData) {
		return 0
	}
	diffs := e.dmp.DiffMain(string(oldData), string(newData), false)
	dist := e.dmp.DiffLevenshtein(diffs)
	longest := len(newData)
	if len(oldData) > longest {
		longest = len(oldData)
	}
	return 100 * float64(dist) / float64(longest)
}

// changedLines returns the lines present in the new content but not the
// old one, the same lines a reviewer would see as additions in a diff.
func (e *Engine) changedLines(oldText, newText string) []string {
	c1, c2, lines := e.dmp.DiffLinesToChars(oldText, newText)
	diffs := e.dmp.DiffCharsToLines(e.dmp.DiffMain(c1, c2, false), lines)

	var out []string
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffInsert {
			continue
		}
		for _, line := range strings.Split(d.Text, "\n") {
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// patternsFor merges the built-in filters for an extension with the
// user-supplied ones.
func (e *Engine) patternsFor(ext string) []*regexp.Regexp {
	builtin := builtinSkipRegexes[strings.ToLower(ext)]
	out := make([]*regexp.Regexp, len(e.patterns), len(e.patterns)+len(builtin))
	copy(out, e.patterns)
	for _, p := range builtin {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
