// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package extractor converts uploaded document bytes into raw text.
//
// Each supported format maps to one of four extraction strategies. Dispatch
// happens on the declared filename extension alone, before any content byte
// is read, so unsupported uploads are rejected without wasted I/O.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skillscore/extraction-gw/pkg/observability/logging"
)

// FileType identifies one of the four extraction strategies.
type FileType int

const (
	// TypeText decodes the bytes as plain text with encoding recovery.
	TypeText FileType = iota
	// TypePDF parses a PDF container and extracts page text.
	TypePDF
	// TypeDocx parses a Word document (paragraphs and tables).
	TypeDocx
	// TypeImage runs OCR over a raster image.
	TypeImage
)

// formatTypes maps recognized lowercase extensions to their strategy.
// The three raster formats share the image strategy.
var formatTypes = map[string]FileType{
	"txt":  TypeText,
	"pdf":  TypePDF,
	"docx": TypeDocx,
	"jpg":  TypeImage,
	"jpeg": TypeImage,
	"png":  TypeImage,
}

// SupportedFormats returns the recognized file extensions in a fixed order.
func SupportedFormats() []string {
	return []string{"pdf", "docx", "txt", "jpg", "jpeg", "png"}
}

// Ext returns the lowercase extension after the last dot in filename,
// without the dot. Filenames without a dot yield an empty string.
func Ext(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Detect maps a filename to its extraction strategy. It fails with
// ErrUnsupportedFormat for unknown or missing extensions.
func Detect(filename string) (FileType, error) {
	ext := Ext(filename)
	ft, ok := formatTypes[ext]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return ft, nil
}

// Extractor holds the per-process extraction dependencies. It is stateless
// across calls and safe for concurrent use.
type Extractor struct {
	logger      *logging.Logger
	ocrLanguage string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOCRLanguage overrides the fixed OCR language profile (default "eng").
func WithOCRLanguage(lang string) Option {
	return func(e *Extractor) { e.ocrLanguage = lang }
}

// New creates an Extractor.
func New(logger *logging.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		logger:      logger,
		ocrLanguage: "eng",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the strategy for ft over content and returns the raw,
// un-normalized text. The text and image strategies cannot fail; the PDF and
// DOCX strategies fail with ErrCorruptDocument for unparseable containers.
func (e *Extractor) Extract(ft FileType, content []byte) (string, error) {
	switch ft {
	case TypePDF:
		return e.extractPDF(content)
	case TypeDocx:
		return e.extractDocx(content)
	case TypeImage:
		return e.extractImage(content), nil
	case TypeText:
		return e.extractText(content), nil
	default:
		return "", fmt.Errorf("%w: file type %d", ErrUnsupportedFormat, ft)
	}
}
