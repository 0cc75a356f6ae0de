// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
)

// candidateEncodings builds the decode attempt order for raw text bytes:
// the detector's best guess first, then UTF-8, Latin-1 and Windows-1252,
// deduplicated while preserving order. Auto-detection is frequently wrong for
// short or mixed-content files, so the fixed tail keeps a misdetected charset
// from rejecting an otherwise decodable buffer.
func candidateEncodings(content []byte) []string {
	candidates := make([]string, 0, 4)
	if result, err := chardet.NewTextDetector().DetectBest(content); err == nil && result.Charset != "" {
		candidates = append(candidates, result.Charset)
	}
	candidates = append(candidates, "UTF-8", "ISO-8859-1", "windows-1252")

	seen := make(map[string]bool, len(candidates))
	deduped := candidates[:0]
	for _, name := range candidates {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, name)
	}
	return deduped
}

// decodeStrict decodes content with the named charset, reporting failure for
// byte sequences invalid in that charset and for charsets the resolver does
// not support (the detector may name any IANA charset).
func decodeStrict(content []byte, charset string) (string, bool) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		if !utf8.Valid(content) {
			return "", false
		}
		return string(content), true
	case "iso-8859-1", "latin-1", "latin1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	case "windows-1252", "cp1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	default:
		return "", false
	}
}

// decodeWithCandidates attempts each candidate in order and returns the first
// strict decode that succeeds. When every candidate fails it falls back to
// lossy UTF-8 replacement decoding, which cannot fail; silently replacing
// undecodable sequences beats rejecting the file outright.
func decodeWithCandidates(content []byte, candidates []string) string {
	for _, name := range candidates {
		if text, ok := decodeStrict(content, name); ok {
			return text
		}
	}
	return decodeLossy(content)
}

// decodeLossy decodes content as UTF-8 with one replacement character per
// invalid byte, not per invalid run.
func decodeLossy(content []byte) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(content[:size])
		}
		content = content[size:]
	}
	return sb.String()
}
