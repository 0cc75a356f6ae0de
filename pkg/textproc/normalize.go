// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package textproc cleans extracted text into its canonical form and judges
// whether it is usable for downstream question generation.
package textproc

import "strings"

// DefaultMaxTextLength bounds canonical text when no limit is configured.
const DefaultMaxTextLength = 50000

// Normalizer turns raw extracted text into a single bounded, analyzable
// string. The limit is fixed at construction; the zero-value limit falls back
// to DefaultMaxTextLength.
type Normalizer struct {
	maxLength int
}

// NewNormalizer creates a Normalizer with the given character limit.
func NewNormalizer(maxLength int) *Normalizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxTextLength
	}
	return &Normalizer{maxLength: maxLength}
}

// Normalize collapses whitespace runs to single spaces (discarding paragraph
// structure in favor of a flat analyzable string), strips non-whitespace
// control characters, truncates to the configured limit at a word boundary
// where possible, and trims. Empty input yields empty output.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	collapsed := strings.Join(strings.Fields(text), " ")
	cleaned := strings.Map(dropControl, collapsed)
	truncated := Truncate(cleaned, n.maxLength)
	return strings.TrimSpace(truncated)
}

// dropControl removes code points below 32. Newlines and tabs are already
// gone after whitespace collapsing; this guards against non-whitespace
// control bytes surviving odd source encodings.
func dropControl(r rune) rune {
	if r < 32 {
		return -1
	}
	return r
}

// Truncate bounds text to maxLength characters, appending an ellipsis marker.
// If a space falls within the last 20% of the window the cut happens there so
// words are not split mid-way; otherwise the text is cut hard at the limit.
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if maxLength <= 0 || len(runes) <= maxLength {
		return text
	}

	window := runes[:maxLength]
	lastSpace := -1
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == ' ' {
			lastSpace = i
			break
		}
	}

	if float64(lastSpace) > float64(maxLength)*0.8 {
		return string(window[:lastSpace]) + "..."
	}
	return string(window) + "..."
}
