// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skillscore/extraction-gw/pkg/core/api"
	"github.com/skillscore/extraction-gw/pkg/core/schema"
)

// handleQuestions handles POST /v1/questions: gate the text through content
// validation, then delegate to the generation backend.
func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if h.questions == nil {
		h.writeError(w, http.StatusServiceUnavailable, "generation_unavailable", "Question generation is not configured")
		return
	}

	var req schema.QuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	verdict := h.service.ValidateContent(req.Text)
	if !verdict.Valid {
		h.writeError(w, http.StatusBadRequest, "invalid_content", verdict.Reason)
		return
	}

	if req.MCQCount <= 0 {
		req.MCQCount = orDefault(h.generation.DefaultMCQCount, 3)
	}
	if req.ShortAnswerCount <= 0 {
		req.ShortAnswerCount = orDefault(h.generation.DefaultShortAnswerCount, 2)
	}
	maxQuestions := orDefault(h.generation.MaxQuestionsPerRequest, 10)
	if req.MCQCount+req.ShortAnswerCount > maxQuestions {
		h.writeError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("Too many questions requested (maximum %d per request)", maxQuestions))
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid difficulty. Must be one of: easy, medium, hard")
		return
	}

	questions, err := h.questions.GenerateQuestions(r.Context(), api.GenerateRequest{
		Text:             req.Text,
		MCQCount:         req.MCQCount,
		ShortAnswerCount: req.ShortAnswerCount,
		Difficulty:       difficulty,
	})
	if err != nil {
		h.logger.Error("Question generation failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "generation_error", "Question generation failed")
		return
	}

	writeJSON(w, http.StatusOK, schema.QuestionsResponse{Questions: questions})
}

// orDefault covers handlers constructed with a zero-value generation config.
func orDefault(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
