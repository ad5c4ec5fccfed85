// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the canopy TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/canopy-tui/internal/ui/styles"
)

// =============================================================================
// ELABORATION PANEL - Markdown writeup of a single idea
// =============================================================================

// ElaborationPanel displays a generated elaboration for one idea, rendered
// as markdown via glamour.
type ElaborationPanel struct {
	label    string
	body     string
	rendered string
	scroll   int
	width    int
	height   int
	theme    *styles.Theme
	renderer *glamour.TermRenderer
}

// NewElaborationPanel creates an empty elaboration panel.
func NewElaborationPanel(theme *styles.Theme) *ElaborationPanel {
	p := &ElaborationPanel{
		width:  72,
		height: 20,
		theme:  theme,
	}
	p.initRenderer()
	return p
}

func (p *ElaborationPanel) initRenderer() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.width-6),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		p.renderer = nil
		return
	}
	p.renderer = r
}

// SetContent stores a new elaboration and re-renders the markdown.
func (p *ElaborationPanel) SetContent(label, body string) {
	p.label = label
	p.body = body
	p.scroll = 0
	p.rendered = p.renderMarkdown(body)
}

// SetSize updates the panel dimensions, re-rendering for the new wrap width.
func (p *ElaborationPanel) SetSize(width, height int) {
	if width != p.width {
		p.width = width
		p.initRenderer()
		p.rendered = p.renderMarkdown(p.body)
	}
	p.height = height
}

// Label returns the idea this elaboration belongs to.
func (p *ElaborationPanel) Label() string {
	return p.label
}

// Empty reports whether the panel has no content.
func (p *ElaborationPanel) Empty() bool {
	return p.body == ""
}

// ScrollDown scrolls the body down one line.
func (p *ElaborationPanel) ScrollDown() {
	lines := strings.Count(p.rendered, "\n")
	if p.scroll < lines-1 {
		p.scroll++
	}
}

// ScrollUp scrolls the body up one line.
func (p *ElaborationPanel) ScrollUp() {
	if p.scroll > 0 {
		p.scroll--
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func (p *ElaborationPanel) renderMarkdown(content string) string {
	if p.renderer == nil || content == "" {
		return content
	}
	rendered, err := p.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Render draws the panel.
func (p *ElaborationPanel) Render() string {
	if p.theme == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.theme.PanelTitle.Render(p.label))
	b.WriteString("\n")

	visible := p.height - 5
	if visible < 1 {
		visible = 1
	}

	lines := strings.Split(p.rendered, "\n")
	start := p.scroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n")
	b.WriteString(p.theme.PanelMeta.Render("j/k scroll  esc close"))

	return p.theme.Panel.Width(p.width).Render(b.String())
}
