// SPDX-License-Identifier: MPL-2.0

// Package diff decides whether a freshly rendered image should replace the
// previously written one.
//
// The difference magnitude is a normalized Levenshtein distance between the
// old and new bytes, expressed as a percentage. A change below the job's
// minimum threshold is skipped. On top of the threshold, skip-change
// regexes classify churn: when every line that changed between the old and
// new textual content matches one of the patterns (for example a timestamp
// embedded in command output, or the PDF creation date), the change is
// non-semantic and the old file is kept.
//
// The engine only classifies; the output writer acts on its verdicts.
package diff
