// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package services holds the orchestration layer between the HTTP adapter
// and the extraction pipeline.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/skillscore/extraction-gw/pkg/core/config"
	"github.com/skillscore/extraction-gw/pkg/core/schema"
	"github.com/skillscore/extraction-gw/pkg/extractor"
	"github.com/skillscore/extraction-gw/pkg/observability/logging"
	"github.com/skillscore/extraction-gw/pkg/textproc"
)

// ErrExtractionFailed marks an unexpected internal failure during extraction
// or normalization, distinct from the soft "no text found" outcome and from
// the client-caused taxonomy in the extractor package.
var ErrExtractionFailed = errors.New("extraction failed")

// ExtractionService is the sole public entry point of the extraction
// pipeline: dispatch, extraction, normalization and result assembly. Every
// call is independent; the service holds only read-only configuration.
type ExtractionService struct {
	extractor  *extractor.Extractor
	normalizer *textproc.Normalizer
	validator  *textproc.Validator
	logger     *logging.Logger
}

// NewExtractionService wires the pipeline from configuration.
func NewExtractionService(cfg config.ExtractionConfig, logger *logging.Logger) *ExtractionService {
	return &ExtractionService{
		extractor:  extractor.New(logger, extractor.WithOCRLanguage(cfg.OCRLanguage)),
		normalizer: textproc.NewNormalizer(cfg.MaxTextLength),
		validator:  textproc.NewValidator(cfg.MinWordCount, cfg.MaxWordCount),
		logger:     logger,
	}
}

// Extract turns uploaded bytes plus a declared filename into an
// ExtractionResult.
//
// Failure surface: extractor.ErrUnsupportedFormat for unknown extensions
// (checked before the content is touched), extractor.ErrCorruptDocument for
// unparseable PDF/DOCX containers, ErrExtractionFailed for anything
// unexpected. A document that parses but yields no text is not an error: the
// result carries success=false and an explanatory message.
func (s *ExtractionService) Extract(ctx context.Context, content []byte, filename string) (result schema.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Text extraction panicked", "filename", filename, "panic", r)
			result = schema.ExtractionResult{}
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	fileType, err := extractor.Detect(filename)
	if err != nil {
		return schema.ExtractionResult{}, err
	}

	raw, err := s.extractor.Extract(fileType, content)
	if err != nil {
		if errors.Is(err, extractor.ErrCorruptDocument) {
			return schema.ExtractionResult{}, err
		}
		s.logger.Error("Text extraction failed", "filename", filename, "error", err)
		return schema.ExtractionResult{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := s.normalizer.Normalize(raw)
	if text == "" {
		return schema.ExtractionResult{
			Success: false,
			Message: "No text could be extracted from the file",
		}, nil
	}

	return schema.ExtractionResult{
		Success:   true,
		Text:      text,
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
		FileType:  extractor.Ext(filename),
		Message:   "Text extracted successfully",
	}, nil
}

// ValidateContent judges raw text for downstream question generation. It is
// independent of Extract and shares no state with it.
func (s *ExtractionService) ValidateContent(text string) schema.ValidationVerdict {
	verdict := s.validator.Validate(text)
	return schema.ValidationVerdict{
		Valid:     verdict.Valid,
		Reason:    verdict.Reason,
		WordCount: verdict.WordCount,
		CharCount: verdict.CharCount,
	}
}

// SupportedFormats returns the accepted file extensions.
func (s *ExtractionService) SupportedFormats() []string {
	return extractor.SupportedFormats()
}
