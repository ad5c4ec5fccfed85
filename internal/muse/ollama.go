// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package muse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// OLLAMA BACKEND
// =============================================================================

// OllamaConfig holds configuration for the local Ollama backend.
type OllamaConfig struct {
	// BaseURL of the Ollama server.
	// Explicit IPv4 avoids IPv6 localhost resolution issues on Windows.
	BaseURL string

	// Model to generate with (default: "llama3.2:3b")
	Model string

	// Timeout for requests (default: CallTimeout)
	Timeout time.Duration
}

// DefaultOllamaConfig returns the default Ollama backend configuration.
func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL: "http://127.0.0.1:11434",
		Model:   "llama3.2:3b",
		Timeout: CallTimeout,
	}
}

// OllamaGenerator produces ideas from a local Ollama server. It implements
// Generator and is safe for concurrent use.
type OllamaGenerator struct {
	config     *OllamaConfig
	httpClient *http.Client
}

// NewOllamaGenerator creates an Ollama-backed generator.
func NewOllamaGenerator(config *OllamaConfig) *OllamaGenerator {
	if config == nil {
		config = DefaultOllamaConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:11434"
	}
	if config.Model == "" {
		config.Model = "llama3.2:3b"
	}
	if config.Timeout == 0 {
		config.Timeout = CallTimeout
	}
	return &OllamaGenerator{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Name implements Generator.
func (g *OllamaGenerator) Name() string { return "ollama" }

// generateRequest is the non-streaming /api/generate wire shape.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements Generator.
func (g *OllamaGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	ctx, cancel := callContext(ctx)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  g.config.Model,
		Prompt: buildPrompt(req),
		Stream: false,
	})
	if err != nil {
		return Result{}, &ClientError{Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return Result{}, &ClientError{Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, &ClientError{Message: "ollama request timed out", Cause: err}
		}
		return Result{}, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, &ClientError{
			Status:  resp.StatusCode,
			Message: "unexpected status from ollama: " + resp.Status,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, &ClientError{Message: "failed to read response", Cause: err}
	}

	var wire generateResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, ErrMalformed
	}

	if req.Mode == ModeElaborate {
		return resultFromWire(req, nil, wire.Response)
	}
	return resultFromWire(req, splitLines(wire.Response), "")
}

// buildPrompt renders the generation prompt for a request. Labels are asked
// for one per line so the strict line parser can reject anything else.
func buildPrompt(req Request) string {
	var sb strings.Builder
	switch req.Mode {
	case ModeInitial:
		fmt.Fprintf(&sb, "List %d short idea labels (2-5 words each) to start exploring the topic %q.",
			req.BatchSize(), req.Topic)
	case ModeRelated:
		fmt.Fprintf(&sb, "The topic is %q. List %d short idea labels (2-5 words each) that branch off the idea %q.",
			req.Topic, req.BatchSize(), req.ParentLabel)
	case ModeElaborate:
		fmt.Fprintf(&sb, "The topic is %q. Write a short markdown paragraph elaborating the idea %q.",
			req.Topic, req.ParentLabel)
	}
	if req.ExtraContext != "" {
		fmt.Fprintf(&sb, " Additional context: %s.", req.ExtraContext)
	}
	if req.Mode != ModeElaborate {
		sb.WriteString(" Reply with one label per line and nothing else.")
	}
	return sb.String()
}

// splitLines breaks raw model output into candidate labels.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, line)
	}
	return out
}
