// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts text from a PDF buffer with page-level fault isolation:
// a page that fails to extract is logged and skipped so one damaged page does
// not void the rest of the document.
func (e *Extractor) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open PDF: %v", ErrCorruptDocument, err)
	}

	return e.collectPages(reader.NumPage(), func(pageNum int) (string, error) {
		return extractPDFPage(reader, pageNum)
	}), nil
}

// collectPages runs getPage over pages 1..numPages in order, skipping pages
// that fail with a warning, and joins the non-empty page texts with a blank
// line.
func (e *Extractor) collectPages(numPages int, getPage func(int) (string, error)) string {
	var parts []string
	for i := 1; i <= numPages; i++ {
		text, err := getPage(i)
		if err != nil {
			e.logger.Warn("Failed to extract text from PDF page", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}

// extractPDFPage extracts one page, converting parser panics into errors.
// The pdf package panics on some malformed content streams, and a panic from
// one page must stay contained to that page.
func extractPDFPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
