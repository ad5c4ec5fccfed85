// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/storage"
	"github.com/jeranaias/canopy-tui/internal/ui/styles"
)

// =============================================================================
// INPUT LINE
// =============================================================================

// newInputField builds the shared bottom input line. One field serves the
// command line, item creation and label editing; purpose decides the prompt.
func newInputField(theme *styles.Theme) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	return ti
}

// promptFor returns the input line prompt for a purpose.
func promptFor(p inputPurpose) string {
	switch p {
	case inputCommand:
		return "/"
	case inputNewBranch:
		return "branch: "
	case inputNewLeaf:
		return "leaf: "
	case inputNewNote:
		return "note: "
	case inputEditLabel:
		return "edit: "
	case inputContext:
		return "context: "
	default:
		return "> "
	}
}

// openInput switches to input mode with the given purpose and seed text.
func (m *Model) openInput(p inputPurpose, seed string) tea.Cmd {
	m.mode = modeInput
	m.purpose = p
	m.input.Prompt = promptFor(p)
	m.input.SetValue(seed)
	m.input.CursorEnd()
	switch p {
	case inputCommand:
		m.input.Placeholder = "command"
	case inputNewNote:
		m.input.Placeholder = "freeform note"
	case inputContext:
		m.input.Placeholder = "hint for the next batch"
	default:
		m.input.Placeholder = "label"
	}
	return m.input.Focus()
}

// closeInput leaves input mode and clears the field.
func (m *Model) closeInput() {
	m.mode = modeNormal
	m.purpose = inputNone
	m.editID = ""
	m.input.Blur()
	m.input.SetValue("")
}

// =============================================================================
// SUBMIT
// =============================================================================

// submitInput handles enter in the input line.
func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	purpose := m.purpose
	editID := m.editID
	m.closeInput()

	switch purpose {
	case inputCommand:
		return m.runCommandLine(value)

	case inputNewBranch:
		if value == "" {
			return nil
		}
		return m.createManualItem(engine.KindBranch, value)

	case inputNewLeaf:
		if value == "" {
			return nil
		}
		return m.createManualItem(engine.KindLeaf, value)

	case inputNewNote:
		if value == "" {
			return nil
		}
		pos := m.openSpotNearCenter()
		return createNote(m.store, m.scope, storage.NewNote{X: pos.X, Y: pos.Y, Text: value})

	case inputEditLabel:
		if value == "" || editID == "" {
			return nil
		}
		if err := m.tree.UpdateLabel(editID, value); err != nil {
			m.statusBar.SetNotice(err.Error(), true, noticeTTL)
		}
		return nil

	case inputContext:
		it := m.focused()
		if it.IsTrunk() {
			m.orch.SetTopic(value)
			m.toolbar.Topic = value
			return nil
		}
		if err := m.tree.SetExtraContext(it.ID, value); err != nil {
			m.statusBar.SetNotice(err.Error(), true, noticeTTL)
			return nil
		}
		m.statusBar.SetNotice("context set for next batch", false, noticeTTL)
		return nil
	}
	return nil
}

// runCommandLine parses and dispatches a slash command.
func (m *Model) runCommandLine(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		line = "/" + line
	}
	result := m.parser.Parse(line)
	if !result.IsValid {
		m.statusBar.SetNotice(result.Error, true, noticeTTL)
		return nil
	}
	if result.Command.Handler == nil {
		return nil
	}
	return result.Command.Handler(m.cmdCtx, result.Args)
}

// =============================================================================
// MANUAL CREATION
// =============================================================================

// createManualItem places and persists a user-authored item. Manual items
// never trigger automatic generation.
func (m *Model) createManualItem(kind engine.Kind, label string) tea.Cmd {
	pos := m.openSpotNearCenter()
	parent := ""
	if it := m.focused(); !it.IsTrunk() {
		parent = it.ID
	} else {
		parent = engine.TrunkID
	}
	return createItem(m.store, m.scope, storage.NewItem{
		Kind:     string(kind),
		Label:    label,
		ParentID: parent,
		X:        pos.X,
		Y:        pos.Y,
		Manual:   true,
	})
}

// openSpotNearCenter finds a clear world position near the screen center.
func (m *Model) openSpotNearCenter() engine.Point {
	sep := engine.MinSeparation
	if m.cfg != nil && m.cfg.Canvas.MinSeparation > 0 {
		sep = m.cfg.Canvas.MinSeparation
	}
	return engine.FindOpenSpot(m.vp.Center(), sep, m.tree.ObstaclePoints())
}

// jumpTo eases the viewport onto an item at the current zoom.
func (m *Model) jumpTo(pos engine.Point) tea.Cmd {
	now := time.Now()
	m.vp.CenterOn(pos, m.vp.Transform().Scale, now)
	return m.syncViewport(now)
}
