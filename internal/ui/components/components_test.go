// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the canopy TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/canopy-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestToStr(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{-13, "-13"},
		{100000, "100000"},
	}
	for _, tc := range tests {
		if got := toStr(tc.in); got != tc.want {
			t.Errorf("toStr(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFmtPercent(t *testing.T) {
	tests := []struct {
		scale float64
		want  string
	}{
		{0.2, "20%"},
		{0.5, "50%"},
		{1.0, "100%"},
		{0.333, "33%"},
	}
	for _, tc := range tests {
		if got := fmtPercent(tc.scale); got != tc.want {
			t.Errorf("fmtPercent(%v) = %q, want %q", tc.scale, got, tc.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{90 * time.Second, "1m 30s"},
		{0, "0s"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerLifecycle(t *testing.T) {
	s := NewGrowSpinner()
	if s.IsActive() {
		t.Error("spinner should start inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}
	if !strings.Contains(s.View(), "Growing ideas") {
		t.Errorf("spinner view missing message: %q", s.View())
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner()
	if s.GetElapsed() != 0 {
		t.Error("unstarted spinner should report zero elapsed")
	}
	s.Start()
	if s.GetElapsed() < 0 {
		t.Error("elapsed should be non-negative")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBarRender(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(120)
	sb.Zoom = 0.5
	sb.ItemCount = 7
	sb.LikedCount = 2
	sb.AutoGenerate = true

	out := sb.Render()
	if !strings.Contains(out, "zoom 50%") {
		t.Errorf("status bar missing zoom: %q", out)
	}
	if !strings.Contains(out, "7 ideas") {
		t.Errorf("status bar missing item count: %q", out)
	}
	if !strings.Contains(out, "auto") {
		t.Errorf("status bar missing auto flag: %q", out)
	}
}

func TestStatusBarBusy(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(120)
	sb.Busy = 2

	out := sb.Render()
	if !strings.Contains(out, "Growing (2)") {
		t.Errorf("busy status missing: %q", out)
	}
}

func TestStatusBarNotice(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(120)

	sb.SetNotice("idea saved", false, time.Minute)
	if !strings.Contains(sb.Render(), "idea saved") {
		t.Error("active notice should render")
	}

	sb.SetNotice("expired", false, -time.Second)
	if strings.Contains(sb.Render(), "expired") {
		t.Error("expired notice should not render")
	}

	sb.SetNotice("gone", false, time.Minute)
	sb.ClearNotice()
	if strings.Contains(sb.Render(), "gone") {
		t.Error("cleared notice should not render")
	}
}

// =============================================================================
// TOOLBAR TESTS
// =============================================================================

func TestToolbarRender(t *testing.T) {
	tb := NewToolbar(testTheme())
	tb.SetWidth(100)
	tb.Project = "garden"
	tb.Topic = "urban beekeeping"

	out := tb.Render()
	if !strings.Contains(out, "canopy") {
		t.Errorf("toolbar missing brand: %q", out)
	}
	if !strings.Contains(out, "garden") {
		t.Errorf("toolbar missing project: %q", out)
	}
	if !strings.Contains(out, "urban beekeeping") {
		t.Errorf("toolbar missing topic: %q", out)
	}
}

func TestToolbarDropsSegmentsWhenNarrow(t *testing.T) {
	tb := NewToolbar(testTheme())
	tb.SetWidth(14)
	tb.Project = "a very long project name"
	tb.Topic = "an even longer canvas topic"

	out := tb.Render()
	// Brand always survives.
	if !strings.Contains(out, "canopy") {
		t.Errorf("narrow toolbar lost brand: %q", out)
	}
}

// =============================================================================
// SAVED PANEL TESTS
// =============================================================================

func TestSavedPanelSelection(t *testing.T) {
	p := NewSavedPanel(testTheme())
	if p.Selected() != nil {
		t.Error("empty panel should have no selection")
	}

	p.SetEntries([]SavedEntry{
		{ID: "a", Label: "drip irrigation", Kind: "leaf"},
		{ID: "b", Label: "vertical farms", Kind: "branch"},
		{ID: "c", Label: "hydroponics", Kind: "leaf"},
	})

	if got := p.Selected(); got == nil || got.ID != "a" {
		t.Fatalf("initial selection = %v, want a", got)
	}

	p.MoveDown()
	p.MoveDown()
	if got := p.Selected(); got.ID != "c" {
		t.Errorf("after two MoveDown selection = %q, want c", got.ID)
	}

	// Clamped at the bottom.
	p.MoveDown()
	if got := p.Selected(); got.ID != "c" {
		t.Errorf("selection moved past end: %q", got.ID)
	}

	p.MoveUp()
	if got := p.Selected(); got.ID != "b" {
		t.Errorf("after MoveUp selection = %q, want b", got.ID)
	}

	// Shrinking the list clamps the selection.
	p.SetEntries([]SavedEntry{{ID: "only", Label: "one", Kind: "leaf"}})
	if got := p.Selected(); got.ID != "only" {
		t.Errorf("selection after shrink = %q, want only", got.ID)
	}
}

func TestSavedPanelRender(t *testing.T) {
	p := NewSavedPanel(testTheme())
	p.SetSize(48, 16)

	out := p.Render()
	if !strings.Contains(out, "Saved ideas") {
		t.Errorf("panel missing title: %q", out)
	}
	if !strings.Contains(out, "Nothing saved yet") {
		t.Errorf("empty panel missing hint: %q", out)
	}

	p.SetEntries([]SavedEntry{{ID: "a", Label: "drip irrigation", Kind: "leaf"}})
	out = p.Render()
	if !strings.Contains(out, "drip irrigation") {
		t.Errorf("panel missing entry: %q", out)
	}
}

// =============================================================================
// ELABORATION PANEL TESTS
// =============================================================================

func TestElaborationPanel(t *testing.T) {
	p := NewElaborationPanel(testTheme())
	if !p.Empty() {
		t.Error("new panel should be empty")
	}

	p.SetContent("drip irrigation", "## Why\n\nWater goes straight to the roots.")
	if p.Empty() {
		t.Error("panel with content should not be empty")
	}
	if p.Label() != "drip irrigation" {
		t.Errorf("label = %q", p.Label())
	}

	out := p.Render()
	if !strings.Contains(out, "drip irrigation") {
		t.Errorf("render missing label: %q", out)
	}
	if !strings.Contains(out, "roots") {
		t.Errorf("render missing body: %q", out)
	}
}

func TestElaborationPanelScrollClamps(t *testing.T) {
	p := NewElaborationPanel(testTheme())
	p.SetContent("x", "a\nb\nc")

	p.ScrollUp() // already at top
	for i := 0; i < 50; i++ {
		p.ScrollDown()
	}
	// Must not panic and must still render.
	if p.Render() == "" {
		t.Error("panel stopped rendering after scroll")
	}
}
