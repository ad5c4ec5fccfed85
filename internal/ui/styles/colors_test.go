// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the canopy TUI.
package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// COLOR DEFINITION TESTS
// =============================================================================

func TestItemColorsDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"TrunkFg", TrunkFg},
		{"TrunkBg", TrunkBg},
		{"BranchFg", BranchFg},
		{"BranchBg", BranchBg},
		{"LeafFg", LeafFg},
		{"LeafBg", LeafBg},
		{"NoteFg", NoteFg},
		{"NoteBg", NoteBg},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s should define both light and dark variants", c.name)
		}
		if !strings.HasPrefix(c.color.Light, "#") || !strings.HasPrefix(c.color.Dark, "#") {
			t.Errorf("%s should use hex colors", c.name)
		}
	}
}

func TestItemKindsVisuallyDistinct(t *testing.T) {
	// Branch, leaf, and note backgrounds must differ so kinds can be told
	// apart at a glance.
	bgs := map[string]string{
		"branch": BranchBg.Dark,
		"leaf":   LeafBg.Dark,
		"note":   NoteBg.Dark,
		"trunk":  TrunkBg.Dark,
	}
	seen := make(map[string]string)
	for kind, bg := range bgs {
		if other, dup := seen[bg]; dup {
			t.Errorf("%s and %s share background %s", kind, other, bg)
		}
		seen[bg] = kind
	}
}

// =============================================================================
// STATUS INDICATOR TESTS
// =============================================================================

func TestStatusIndicatorsASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}

	for _, ind := range indicators {
		if ind == "" {
			t.Error("indicator should not be empty")
		}
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderStatusMessages(t *testing.T) {
	success := RenderSuccess("saved")
	if !strings.Contains(success, "saved") || !strings.Contains(success, StatusIndicators.Success) {
		t.Errorf("RenderSuccess output = %q", success)
	}

	failure := RenderError("generation failed")
	if !strings.Contains(failure, "generation failed") || !strings.Contains(failure, StatusIndicators.Error) {
		t.Errorf("RenderError output = %q", failure)
	}

	if got := RenderStatus(true, "ok"); !strings.Contains(got, StatusIndicators.Success) {
		t.Errorf("RenderStatus(true) = %q", got)
	}
	if got := RenderStatus(false, "bad"); !strings.Contains(got, StatusIndicators.Error) {
		t.Errorf("RenderStatus(false) = %q", got)
	}
}
