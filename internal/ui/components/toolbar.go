// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the canopy TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/canopy-tui/internal/ui/styles"
	"github.com/jeranaias/canopy-tui/internal/util"
)

// =============================================================================
// TOOLBAR COMPONENT - Top bar with brand, project and topic
// =============================================================================

// Toolbar is the single-line header above the canvas.
type Toolbar struct {
	Project string
	Topic   string
	Width   int
	theme   *styles.Theme
}

// NewToolbar creates a toolbar bound to the theme.
func NewToolbar(theme *styles.Theme) *Toolbar {
	return &Toolbar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the toolbar width.
func (t *Toolbar) SetWidth(width int) {
	t.Width = width
}

// Render draws the toolbar.
func (t *Toolbar) Render() string {
	if t.theme == nil {
		return ""
	}

	brand := t.theme.ToolbarBrand.Render("canopy")

	var middle string
	if t.Project != "" {
		middle = t.theme.ToolbarTitle.Render(util.TruncateWidth(t.Project, 32))
	}

	var topic string
	if t.Topic != "" {
		topic = t.theme.ToolbarTopic.Render(util.TruncateWidth(t.Topic, 48))
	}

	parts := []string{brand}
	if middle != "" {
		parts = append(parts, middle)
	}
	if topic != "" {
		parts = append(parts, topic)
	}

	// Drop the topic, then the project, if the line would overflow.
	line := strings.Join(parts, "  |  ")
	for len(parts) > 1 && lipgloss.Width(line) > t.Width-2 {
		parts = parts[:len(parts)-1]
		line = strings.Join(parts, "  |  ")
	}
	return t.theme.Toolbar.Width(t.Width).Render(line)
}
