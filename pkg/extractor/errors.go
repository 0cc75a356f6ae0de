// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import "errors"

var (
	// ErrUnsupportedFormat is returned when the filename extension is not in
	// the recognized format set. This is a client error; callers should not
	// retry with the same filename.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptDocument is returned when a PDF or DOCX buffer is not a valid
	// container for its declared format.
	ErrCorruptDocument = errors.New("corrupt document")
)
