// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package textproc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Word-count bounds protecting the downstream generation step: below the
// minimum there is not enough signal to generate from, above the maximum the
// processing cost is unbounded.
const (
	DefaultMinWordCount = 50
	DefaultMaxWordCount = 10000
)

// Verdict is the usability judgment for a piece of text. Reason is set iff
// the text is invalid; the counts are set iff it is valid.
type Verdict struct {
	Valid     bool
	Reason    string
	WordCount int
	CharCount int
}

// Validator judges extracted text against configured word-count bounds.
// It consumes only the text it is given and shares no state with extraction.
type Validator struct {
	minWords int
	maxWords int
}

// NewValidator creates a Validator. Non-positive bounds fall back to the
// defaults.
func NewValidator(minWords, maxWords int) *Validator {
	if minWords <= 0 {
		minWords = DefaultMinWordCount
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWordCount
	}
	return &Validator{minWords: minWords, maxWords: maxWords}
}

// Validate applies the usability rules in order, first match wins: blank text,
// then the lower word bound, then the upper word bound.
func (v *Validator) Validate(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{Reason: "No text content found"}
	}

	words := len(strings.Fields(text))

	if words < v.minWords {
		return Verdict{
			Reason: fmt.Sprintf("Text too short for meaningful question generation (minimum %d words)", v.minWords),
		}
	}

	if words > v.maxWords {
		// The upper bound renders with digit grouping ("10,000").
		return Verdict{
			Reason: message.NewPrinter(language.English).Sprintf("Text too long for processing (maximum %d words)", v.maxWords),
		}
	}

	return Verdict{
		Valid:     true,
		WordCount: words,
		CharCount: utf8.RuneCountInString(text),
	}
}
