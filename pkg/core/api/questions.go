// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package api holds the client boundary to the downstream question-generation
// backend. The gateway only delegates validated text; generation logic lives
// entirely behind this interface.
package api

import (
	"context"

	"github.com/skillscore/extraction-gw/pkg/core/schema"
)

// GenerateRequest asks the backend for questions over validated text.
type GenerateRequest struct {
	Text             string
	MCQCount         int
	ShortAnswerCount int
	Difficulty       string
}

// QuestionClient is the downstream generation boundary.
type QuestionClient interface {
	GenerateQuestions(ctx context.Context, req GenerateRequest) ([]schema.Question, error)
}
