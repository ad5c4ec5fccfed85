// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the canopy TUI.
package styles

import (
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"BrailleSpinner", BrailleSpinner},
		{"DotsSpinner", DotsSpinner},
		{"LineSpinner", LineSpinner},
		{"PulseSpinner", PulseSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want time.Duration
	}{
		{"12 FPS", 12, time.Second / 12},
		{"6 FPS", 6, time.Second / 6},
		{"8 FPS", 8, time.Second / 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := SpinnerConfig{FPS: tc.fps}
			got := config.Duration()
			if got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

// =============================================================================
// EASING FUNCTION TESTS
// =============================================================================

func TestEasingFunctionsFixedPoints(t *testing.T) {
	funcs := []struct {
		name string
		fn   EasingFunc
	}{
		{"EaseLinear", EaseLinear},
		{"EaseInQuad", EaseInQuad},
		{"EaseOutQuad", EaseOutQuad},
		{"EaseInOutQuad", EaseInOutQuad},
		{"EaseOutCubic", EaseOutCubic},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			if got := f.fn(0); got != 0 {
				t.Errorf("%s(0) = %v, want 0", f.name, got)
			}
			if got := f.fn(1); got != 1 {
				t.Errorf("%s(1) = %v, want 1", f.name, got)
			}
		})
	}
}

func TestEaseInOutQuadMidpoint(t *testing.T) {
	if got := EaseInOutQuad(0.5); got != 0.5 {
		t.Errorf("EaseInOutQuad(0.5) = %v, want 0.5", got)
	}
	// Slow start: first quarter of time covers less than a quarter of distance.
	if got := EaseInOutQuad(0.25); got >= 0.25 {
		t.Errorf("EaseInOutQuad(0.25) = %v, want < 0.25", got)
	}
}

func TestEasingMonotonic(t *testing.T) {
	for _, f := range []EasingFunc{EaseLinear, EaseInQuad, EaseOutQuad, EaseInOutQuad, EaseOutCubic} {
		prev := f(0)
		for i := 1; i <= 100; i++ {
			cur := f(float64(i) / 100)
			if cur < prev {
				t.Fatalf("easing not monotonic at t=%v", float64(i)/100)
			}
			prev = cur
		}
	}
}

func TestTransitionSlowConfig(t *testing.T) {
	if TransitionSlow.Duration != 500*time.Millisecond {
		t.Errorf("TransitionSlow.Duration = %v, want 500ms", TransitionSlow.Duration)
	}
	if TransitionSlow.Easing == nil {
		t.Error("TransitionSlow.Easing is nil")
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
	}{
		{"empty", 10, 0},
		{"half", 10, 50},
		{"full", 10, 100},
		{"over", 10, 150},
		{"negative", 10, -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderProgressBar(tc.width, tc.percent)
			if len(got) != tc.width {
				t.Errorf("width = %d, want %d (%q)", len(got), tc.width, got)
			}
		})
	}

	if got := RenderProgressBar(0, 50); got != "" {
		t.Errorf("zero width should render empty, got %q", got)
	}
}

// =============================================================================
// TREE CONNECTOR TESTS
// =============================================================================

func TestRenderTreeLine(t *testing.T) {
	if got := RenderTreeLine(false); got != "+- " {
		t.Errorf("mid item = %q, want %q", got, "+- ")
	}
	if got := RenderTreeLine(true); got != "`- " {
		t.Errorf("last item = %q, want %q", got, "`- ")
	}
}
