// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/canopy-tui/internal/ui/components"
	"github.com/jeranaias/canopy-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full canvas screen: toolbar, canvas area (or an overlay
// panel), input line and status bar.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	m.syncStatus()

	var sb strings.Builder
	sb.WriteString(m.toolbar.Render())
	sb.WriteByte('\n')
	sb.WriteString(m.renderBody())
	sb.WriteByte('\n')
	sb.WriteString(m.renderInputLine())
	sb.WriteByte('\n')
	sb.WriteString(m.statusBar.Render())
	return sb.String()
}

// syncStatus copies the current engine state into the status bar. The zoom
// readout uses the published snapshot, not the live transform.
func (m *Model) syncStatus() {
	m.statusBar.Zoom = m.vp.Snapshot().Scale
	m.statusBar.ItemCount = m.tree.Len()
	m.statusBar.LikedCount = len(m.tree.Liked())
	m.statusBar.AutoGenerate = m.orch.Auto()
	m.statusBar.Busy = m.orch.LiveOps()
	if m.orch.Busy() {
		m.statusBar.Status = components.StatusGenerating
	} else {
		m.statusBar.Status = components.StatusReady
	}
}

// renderBody renders the canvas area, replaced by a panel in overlay modes.
func (m *Model) renderBody() string {
	rows := m.canvasRows()
	switch m.mode {
	case modeSaved:
		return m.centerInBody(m.savedPanel.Render(), rows)
	case modeExpand:
		return m.centerInBody(m.elabPanel.Render(), rows)
	case modeHelp:
		return m.centerInBody(m.renderHelp(), rows)
	}
	return m.renderCanvas()
}

// centerInBody places a panel in the middle of the canvas area.
func (m *Model) centerInBody(panel string, rows int) string {
	return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, panel)
}

// renderInputLine renders the bottom line: the active input field, the busy
// spinner, or a one-line hint.
func (m *Model) renderInputLine() string {
	if m.mode == modeInput {
		return m.theme.InputContainer.Render(m.input.View())
	}
	if m.spinner.IsActive() {
		return m.theme.InputContainer.Render(m.spinner.View())
	}
	hint := "?" + " help  " + "/" + " command  " + "enter" + " grow"
	return m.theme.InputContainer.Render(m.theme.InputPlaceholder.Render(hint))
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

// helpEntry is one key-to-action line in the help overlay.
type helpEntry struct {
	key  string
	desc string
}

var helpEntries = []helpEntry{
	{"arrows / hjkl", "pan the canvas"},
	{"+ / -", "zoom in / out"},
	{"wheel", "zoom at cursor"},
	{"drag", "pan with the mouse"},
	{"tab / shift+tab", "cycle focus"},
	{"enter / click", "visit an idea (grows it once)"},
	{"c", "center on the focused idea"},
	{"C", "reset the view"},
	{"b", "new branch"},
	{"o", "new leaf"},
	{"n", "new note"},
	{"e", "edit label (topic on the trunk)"},
	{"x", "delete idea and its descendants"},
	{"f / right-click", "keep (save) an idea"},
	{"m", "grow more from the focused idea"},
	{"r", "regrow its children"},
	{"i", "elaborate in prose"},
	{"s", "saved ideas"},
	{"g", "toggle grid"},
	{"a", "toggle auto-generation"},
	{"/ or :", "command line"},
	{"q", "quit"},
}

// renderHelp renders the keymap panel.
func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.PanelTitle.Render("Keys"))
	sb.WriteByte('\n')
	for _, e := range helpEntries {
		key := m.theme.ShortcutKey.Render(util.PadWidth(e.key, 16))
		sb.WriteByte('\n')
		sb.WriteString("  " + key + "  " + m.theme.ShortcutDesc.Render(e.desc))
	}
	sb.WriteByte('\n')
	return m.theme.Panel.Render(sb.String())
}
