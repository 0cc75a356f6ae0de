// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the JSON value types exchanged over the HTTP API.
package schema

// ExtractionResult is the outcome of one extraction request. It is immutable
// after construction. When Success is false, Text is empty and the counts are
// zero; "no extractable text" is an expected outcome, not an error.
type ExtractionResult struct {
	Success   bool   `json:"success"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
	FileType  string `json:"file_type,omitempty"`
	Message   string `json:"message"`
}

// ValidationVerdict is the usability judgment for extracted text. Reason is
// present iff the text is invalid; the counts are present iff it is valid.
type ValidationVerdict struct {
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	WordCount int    `json:"word_count,omitempty"`
	CharCount int    `json:"char_count,omitempty"`
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Text string `json:"text"`
}

// FormatsResponse lists the file extensions the gateway accepts.
type FormatsResponse struct {
	SupportedFormats []string `json:"supported_formats"`
}
