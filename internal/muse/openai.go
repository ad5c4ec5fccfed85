// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package muse

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// =============================================================================
// OPENAI BACKEND
// =============================================================================

// OpenAIConfig holds configuration for the OpenAI-compatible backend.
type OpenAIConfig struct {
	// APIKey for the OpenAI API. Required.
	APIKey string

	// Model to generate with (default: gpt-4o-mini)
	Model string

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string
}

// ErrMissingAPIKey is returned when the OpenAI backend is selected without
// a key configured.
var ErrMissingAPIKey = errors.New("openai backend requires an api key")

// OpenAIGenerator produces ideas through the OpenAI chat completion API.
// It implements Generator and is safe for concurrent use.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates an OpenAI-backed generator.
func NewOpenAIGenerator(config *OpenAIConfig) (*OpenAIGenerator, error) {
	if config == nil || config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	ctx, cancel := callContext(ctx)
	defer cancel()

	prompt := buildPrompt(req)
	if req.Mode != ModeElaborate {
		// The chat models follow JSON instructions more reliably than
		// line-list instructions.
		prompt = strings.TrimSuffix(prompt, " Reply with one label per line and nothing else.") +
			` Reply with a JSON array of strings and nothing else.`
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, &ClientError{Message: "openai request timed out", Cause: err}
		}
		return Result{}, &ClientError{Message: "openai request failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrMalformed
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	if req.Mode == ModeElaborate {
		return resultFromWire(req, nil, content)
	}

	labels, err := parseJSONLabels(content)
	if err != nil {
		return Result{}, err
	}
	return resultFromWire(req, labels, "")
}

// parseJSONLabels decodes a JSON string array, tolerating a fenced code
// block wrapper but nothing looser.
func parseJSONLabels(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var labels []string
	if err := json.Unmarshal([]byte(content), &labels); err != nil {
		return nil, ErrMalformed
	}
	return labels, nil
}
