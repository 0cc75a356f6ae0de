// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDocx extracts text from a Word document: each non-empty paragraph
// becomes one block, each table row with non-empty cells becomes one block of
// trimmed cell texts joined with " | ". Blocks keep document order (the OOXML
// body stream interleaves paragraphs and tables) and are joined with a blank
// line. Unlike PDF pages there is no per-element fault isolation: a broken
// document part fails the whole document.
func (e *Extractor) extractDocx(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open DOCX: %v", ErrCorruptDocument, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: missing word/document.xml", ErrCorruptDocument)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open word/document.xml: %v", ErrCorruptDocument, err)
	}
	defer rc.Close()

	blocks, err := parseDocumentXML(rc)
	if err != nil {
		return "", fmt.Errorf("%w: parse word/document.xml: %v", ErrCorruptDocument, err)
	}

	return strings.Join(blocks, "\n\n"), nil
}

// parseDocumentXML walks the WordprocessingML token stream and collects text
// blocks in document order. Body-level w:p elements accumulate their w:t runs
// into paragraph blocks; inside w:tbl, runs accumulate per w:tc cell and each
// w:tr with at least one non-empty cell emits a row block.
func parseDocumentXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		blocks     []string
		paragraph  strings.Builder
		cell       strings.Builder
		row        []string
		tableDepth int
		inCell     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					row = row[:0]
				}
			case "tc":
				if tableDepth > 0 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					paragraph.Reset()
				}
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				if inCell {
					cell.WriteString(text)
				} else if tableDepth == 0 {
					paragraph.WriteString(text)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			case "tc":
				if inCell {
					if text := strings.TrimSpace(cell.String()); text != "" {
						row = append(row, text)
					}
					inCell = false
				}
			case "tr":
				if tableDepth > 0 && len(row) > 0 {
					blocks = append(blocks, strings.Join(row, " | "))
					row = nil
				}
			case "p":
				if tableDepth == 0 {
					if text := paragraph.String(); strings.TrimSpace(text) != "" {
						blocks = append(blocks, text)
					}
					paragraph.Reset()
				}
			}
		}
	}

	return blocks, nil
}
