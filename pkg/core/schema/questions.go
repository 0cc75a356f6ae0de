// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// QuestionsRequest is the body of POST /v1/questions. The text must already
// have passed content validation; the handler re-checks before delegating.
type QuestionsRequest struct {
	Text             string `json:"text"`
	MCQCount         int    `json:"mcq_count,omitempty"`
	ShortAnswerCount int    `json:"short_answer_count,omitempty"`
	Difficulty       string `json:"difficulty,omitempty"`
}

// Question is one generated question.
type Question struct {
	Type    string   `json:"type"` // "mcq" or "short_answer"
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
	Answer  string   `json:"answer"`
}

// QuestionsResponse is the body returned by POST /v1/questions.
type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}
