// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the canopy TUI.
package components

import (
	"strings"

	"github.com/jeranaias/canopy-tui/internal/ui/styles"
	"github.com/jeranaias/canopy-tui/internal/util"
)

// =============================================================================
// SAVED IDEAS PANEL
// =============================================================================

// SavedEntry is one liked idea shown in the panel.
type SavedEntry struct {
	ID    string
	Label string
	Kind  string
}

// SavedPanel lists the liked ideas of the active project. Selecting an
// entry jumps the viewport to that item.
type SavedPanel struct {
	entries  []SavedEntry
	selected int
	width    int
	height   int
	theme    *styles.Theme
}

// NewSavedPanel creates an empty saved ideas panel.
func NewSavedPanel(theme *styles.Theme) *SavedPanel {
	return &SavedPanel{
		width:  48,
		height: 16,
		theme:  theme,
	}
}

// SetEntries replaces the panel contents, clamping the selection.
func (p *SavedPanel) SetEntries(entries []SavedEntry) {
	p.entries = entries
	if p.selected >= len(entries) {
		p.selected = len(entries) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// SetSize updates the panel dimensions.
func (p *SavedPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// MoveUp moves the selection up one entry.
func (p *SavedPanel) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves the selection down one entry.
func (p *SavedPanel) MoveDown() {
	if p.selected < len(p.entries)-1 {
		p.selected++
	}
}

// Selected returns the highlighted entry, or nil when the panel is empty.
func (p *SavedPanel) Selected() *SavedEntry {
	if len(p.entries) == 0 {
		return nil
	}
	return &p.entries[p.selected]
}

// Count returns the number of entries.
func (p *SavedPanel) Count() int {
	return len(p.entries)
}

// Render draws the panel.
func (p *SavedPanel) Render() string {
	if p.theme == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.theme.PanelTitle.Render("Saved ideas"))
	b.WriteString("\n")

	if len(p.entries) == 0 {
		b.WriteString(p.theme.PanelMeta.Render("Nothing saved yet. Press f on an idea to keep it."))
		return p.theme.Panel.Width(p.width).Render(b.String())
	}

	// Scroll window around the selection.
	visible := p.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if p.selected >= visible {
		start = p.selected - visible + 1
	}

	for i := start; i < len(p.entries) && i < start+visible; i++ {
		entry := p.entries[i]
		label := util.TruncateWidth(entry.Label, p.width-8)
		line := label
		if entry.Kind == "branch" {
			line += " +"
		}
		if i == p.selected {
			b.WriteString(p.theme.PanelItemSelected.Render("> " + line))
		} else {
			b.WriteString(p.theme.PanelItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString(p.theme.PanelMeta.Render("enter jump  f unsave  esc close"))
	return p.theme.Panel.Width(p.width).Render(b.String())
}
