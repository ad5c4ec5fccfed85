// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package muse defines the generation port: the boundary to the external
// content-generation service that grows the canvas. Backends translate a
// Request into service calls; callers must treat any non-success as "zero
// results", never partial data.
package muse

import (
	"context"
	"errors"
	"strings"
	"time"
)

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Mode selects the kind of generation requested.
type Mode string

const (
	// ModeInitial asks for the first batch of ideas for a bare canvas.
	ModeInitial Mode = "initial"
	// ModeRelated asks for child ideas of an existing item.
	ModeRelated Mode = "related"
	// ModeElaborate asks for prose expanding a single item.
	ModeElaborate Mode = "elaborate"
)

// DefaultCount is the batch size for initial and related requests.
const DefaultCount = 3

// CallTimeout bounds every generation call regardless of backend. The
// source systems disagreed on this (none vs 30s); every backend here gets
// an explicit timeout with cancellation.
const CallTimeout = 30 * time.Second

// Request describes one generation call.
type Request struct {
	Mode  Mode
	Topic string

	// ParentLabel is the item being elaborated for related/elaborate modes.
	ParentLabel string

	// ExtraContext is optional per-item free text, one-shot generation
	// input supplied by the user.
	ExtraContext string

	// Count is the number of labels wanted; zero means DefaultCount.
	Count int
}

// BatchSize returns the effective label count for the request.
func (r Request) BatchSize() int {
	if r.Count <= 0 {
		return DefaultCount
	}
	return r.Count
}

// Result carries the outcome of a generation call. Labels is set for
// initial/related modes, Elaboration for elaborate mode.
type Result struct {
	Labels      []string
	Elaboration string
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator is implemented by every generation backend.
type Generator interface {
	// Generate performs one generation call. Implementations apply
	// CallTimeout on top of the caller's context.
	Generate(ctx context.Context, req Request) (Result, error)

	// Name identifies the backend for logging.
	Name() string
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoTopic is returned when a request lacks the topic context every
	// mode requires.
	ErrNoTopic = errors.New("no topic context")
	// ErrMalformed is returned when the service responded with a payload
	// that does not match the expected shape. Treated like any failure:
	// the caller sees zero results.
	ErrMalformed = errors.New("malformed generation payload")
	// ErrUnavailable is returned when the service cannot be reached.
	ErrUnavailable = errors.New("generation service unavailable")
)

// Validate checks a request for the fields its mode requires.
func Validate(req Request) error {
	if strings.TrimSpace(req.Topic) == "" {
		return ErrNoTopic
	}
	switch req.Mode {
	case ModeInitial:
		return nil
	case ModeRelated, ModeElaborate:
		if strings.TrimSpace(req.ParentLabel) == "" {
			return ErrMalformed
		}
		return nil
	default:
		return ErrMalformed
	}
}

// callContext derives the bounded context used for one backend call.
func callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, CallTimeout)
}

// =============================================================================
// LABEL VALIDATION
// =============================================================================

// CleanLabels trims, de-bullets and bounds a raw label list, returning an
// error unless exactly want usable labels remain. Anything short of that is
// a malformed payload: the tree is never grown from partial output.
func CleanLabels(raw []string, want int) ([]string, error) {
	out := make([]string, 0, want)
	for _, s := range raw {
		s = stripBullet(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == want {
			break
		}
	}
	if len(out) != want {
		return nil, ErrMalformed
	}
	return out, nil
}

// stripBullet removes list markers models like to prepend ("- ", "* ",
// "1. ", "2) ").
func stripBullet(s string) string {
	s = strings.TrimLeft(s, "-*• \t")
	// Numbered prefixes: digits followed by '.' or ')'.
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}
