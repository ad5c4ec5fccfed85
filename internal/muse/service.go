// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package muse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the muse service client.
type ClientError struct {
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// SERVICE CLIENT
// =============================================================================

// ServiceConfig holds configuration for the hosted muse service client.
type ServiceConfig struct {
	// BaseURL of the muse service (default: http://127.0.0.1:8791)
	BaseURL string

	// APIKey sent as a bearer token when non-empty.
	APIKey string

	// Timeout for requests (default: CallTimeout)
	Timeout time.Duration

	// RequestsPerSecond rate-limits outgoing calls so a click-storm on the
	// canvas cannot stampede the service (default: 2).
	RequestsPerSecond float64
}

// DefaultServiceConfig returns the default service client configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		BaseURL:           "http://127.0.0.1:8791",
		Timeout:           CallTimeout,
		RequestsPerSecond: 2,
	}
}

// ServiceClient talks to the canopy muse service over HTTP. It implements
// Generator and is safe for concurrent use.
type ServiceClient struct {
	config     *ServiceConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewServiceClient creates a muse service client.
func NewServiceClient(config *ServiceConfig) *ServiceClient {
	if config == nil {
		config = DefaultServiceConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8791"
	}
	if config.Timeout == 0 {
		config.Timeout = CallTimeout
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}
	return &ServiceClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// Name implements Generator.
func (c *ServiceClient) Name() string { return "service" }

// ideasRequest is the wire shape of POST /v1/ideas.
type ideasRequest struct {
	Mode         string `json:"mode"`
	Topic        string `json:"topic"`
	ParentLabel  string `json:"parent_label,omitempty"`
	ExtraContext string `json:"extra_context,omitempty"`
	Count        int    `json:"count"`
}

// ideasResponse is the wire shape of the service reply.
type ideasResponse struct {
	Labels      []string `json:"labels,omitempty"`
	Elaboration string   `json:"elaboration,omitempty"`
}

// Generate implements Generator.
func (c *ServiceClient) Generate(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	ctx, cancel := callContext(ctx)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, &ClientError{Message: "rate limit wait aborted", Cause: err}
	}

	body, err := json.Marshal(ideasRequest{
		Mode:         string(req.Mode),
		Topic:        req.Topic,
		ParentLabel:  req.ParentLabel,
		ExtraContext: req.ExtraContext,
		Count:        req.BatchSize(),
	})
	if err != nil {
		return Result{}, &ClientError{Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/ideas", bytes.NewReader(body))
	if err != nil {
		return Result{}, &ClientError{Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, &ClientError{Message: "muse request timed out", Cause: err}
		}
		return Result{}, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, &ClientError{
			Status:  resp.StatusCode,
			Message: "unexpected status from muse service: " + resp.Status,
		}
	}

	// Bound the body read; idea batches are tiny.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, &ClientError{Message: "failed to read response", Cause: err}
	}

	var wire ideasResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, ErrMalformed
	}

	return resultFromWire(req, wire.Labels, wire.Elaboration)
}

// resultFromWire validates a decoded payload against the request mode.
func resultFromWire(req Request, labels []string, elaboration string) (Result, error) {
	if req.Mode == ModeElaborate {
		elaboration = strings.TrimSpace(elaboration)
		if elaboration == "" {
			return Result{}, ErrMalformed
		}
		return Result{Elaboration: elaboration}, nil
	}
	clean, err := CleanLabels(labels, req.BatchSize())
	if err != nil {
		return Result{}, err
	}
	return Result{Labels: clean}, nil
}
