// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

// extractText decodes raw bytes as plain text. It never fails: the candidate
// chain built by candidateEncodings terminates in lossy replacement decoding.
// Empty input yields an empty string.
func (e *Extractor) extractText(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	return decodeWithCandidates(content, candidateEncodings(content))
}
