// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/skillscore/extraction-gw/pkg/core/schema"
)

const questionSystemPrompt = `You generate assessment questions from study material.
Respond with a JSON array only. Each element has "type" ("mcq" or "short_answer"),
"prompt", "choices" (mcq only, four strings) and "answer".`

// OpenAIClient implements QuestionClient against any OpenAI-compatible
// backend (OpenAI, Ollama, vLLM).
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a question client. baseURL selects the backend;
// apiKey may be empty for local backends that skip authentication. A positive
// timeout bounds each generation call independently of the server-wide
// request timeout.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		opts = append(opts, option.WithAPIKey("dummy"))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// GenerateQuestions sends the text and counts to the backend and parses the
// JSON question list from the completion.
func (c *OpenAIClient) GenerateQuestions(ctx context.Context, req GenerateRequest) ([]schema.Question, error) {
	userPrompt := fmt.Sprintf(
		"Generate %d multiple-choice and %d short-answer questions (difficulty: %s) from this text:\n\n%s",
		req.MCQCount, req.ShortAnswerCount, req.Difficulty, req.Text,
	)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(questionSystemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	questions, err := parseQuestions(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}
	return questions, nil
}

// parseQuestions extracts the JSON array from the model output, tolerating
// surrounding prose and markdown fences.
func parseQuestions(content string) ([]schema.Question, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var questions []schema.Question
	if err := json.Unmarshal([]byte(content[start:end+1]), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
