// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package canvas provides the Bubble Tea model for the idea canvas view:
// the pannable viewport over the item tree, keyboard and mouse input, the
// command line and the side panels.
package canvas

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/commands"
	"github.com/jeranaias/canopy-tui/internal/config"
	"github.com/jeranaias/canopy-tui/internal/logging"
	"github.com/jeranaias/canopy-tui/internal/muse"
	"github.com/jeranaias/canopy-tui/internal/storage"
	"github.com/jeranaias/canopy-tui/internal/ui/components"
	"github.com/jeranaias/canopy-tui/internal/ui/styles"
)

// =============================================================================
// MODES
// =============================================================================

// mode is the top-level input state of the view.
type mode int

const (
	modeNormal mode = iota
	modeInput       // text entry in the bottom input line
	modeSaved       // saved-ideas panel has focus
	modeExpand      // elaboration panel has focus
	modeHelp        // help overlay visible
)

// inputPurpose says what the bottom input line is collecting.
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputCommand
	inputNewBranch
	inputNewLeaf
	inputNewNote
	inputEditLabel
	inputContext
)

// noticeTTL is how long transient status-bar notices stay visible.
const noticeTTL = 4 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the canvas view.
type Model struct {
	// State
	mode    mode
	purpose inputPurpose

	// Styling
	theme *styles.Theme

	// Dimensions (terminal cells)
	width  int
	height int

	// Engine
	vp   *engine.Viewport
	tree *engine.Tree
	orch *engine.Orchestrator

	// Ports
	cfg   *config.Config
	store storage.Store
	scope storage.Scope
	gen   muse.Generator

	// Project
	project storage.Project

	// Command surface
	registry *commands.Registry
	parser   *commands.Parser
	cmdCtx   *commands.Context

	// UI components
	toolbar    *components.Toolbar
	statusBar  *components.StatusBar
	savedPanel *components.SavedPanel
	elabPanel  *components.ElaborationPanel
	spinner    components.Spinner
	input      textinput.Model

	// Focus and display
	focusID  string // focused item id, TrunkID or empty
	editID   string // item whose label is being edited
	showGrid bool

	// Frame loop
	ticking bool

	// Mouse drag
	dragging   bool
	dragX      int
	dragY      int
	dragActive bool // moved far enough to count as a pan, not a click
}

// NewModel assembles the canvas view for one open project. The viewport is
// sized later via the first WindowSizeMsg.
func NewModel(cfg *config.Config, theme *styles.Theme, store storage.Store, gen muse.Generator, scope storage.Scope) *Model {
	registry := commands.NewRegistry()

	tree := engine.NewTree()
	m := &Model{
		mode:       modeNormal,
		theme:      theme,
		vp:         engine.NewViewport(80, 48),
		tree:       tree,
		orch:       engine.NewOrchestrator(""),
		cfg:        cfg,
		store:      store,
		scope:      scope,
		gen:        gen,
		registry:   registry,
		parser:     commands.NewParser(registry),
		cmdCtx:     commands.NewContext(cfg, store, scope),
		toolbar:    components.NewToolbar(theme),
		statusBar:  components.NewStatusBar(theme),
		savedPanel: components.NewSavedPanel(theme),
		elabPanel:  components.NewElaborationPanel(theme),
		spinner:    components.NewGrowSpinner(),
		input:      newInputField(theme),
		focusID:    engine.TrunkID,
		showGrid:   cfg.UI.ShowGrid,
	}
	m.orch.SetAuto(cfg.UI.AutoGenerate)

	// Debounced label edits write straight through from the timer goroutine.
	m.tree.LabelFlush = func(id, label string) {
		l := label
		if err := store.UpdateItem(context.Background(), scope, id, storage.ItemPatch{Label: &l}); err != nil {
			logging.For("store").Error("label flush failed", "id", id, "error", err)
		}
	}

	return m
}

// Init loads the persisted canvas.
func (m *Model) Init() tea.Cmd {
	return loadCanvas(m.store, m.scope)
}

// FlushPending forces out any debounced label writes. Called on shutdown.
func (m *Model) FlushPending() {
	m.tree.FlushPending()
}

// =============================================================================
// FOCUS
// =============================================================================

// focused returns the focused item, falling back to the trunk.
func (m *Model) focused() *engine.Item {
	if m.focusID != "" && m.focusID != engine.TrunkID {
		if it, ok := m.tree.Get(m.focusID); ok {
			return it
		}
		m.focusID = engine.TrunkID
	}
	return engine.Trunk(m.orch.Topic())
}

// cycleFocus moves focus to the next item in creation order, wrapping from
// the newest back to the trunk.
func (m *Model) cycleFocus(backward bool) {
	items := m.tree.Items()
	if len(items) == 0 {
		m.focusID = engine.TrunkID
		return
	}
	idx := -1 // trunk
	for i, it := range items {
		if it.ID == m.focusID {
			idx = i
			break
		}
	}
	if backward {
		idx--
		if idx < -1 {
			idx = len(items) - 1
		}
	} else {
		idx++
		if idx >= len(items) {
			idx = -1
		}
	}
	if idx == -1 {
		m.focusID = engine.TrunkID
		return
	}
	m.focusID = items[idx].ID
}

// =============================================================================
// TREE SYNC
// =============================================================================

// resetCanvas replaces the in-memory tree with the persisted records.
func (m *Model) resetCanvas(project storage.Project, items []storage.ItemRecord, notes []storage.NoteRecord) {
	m.project = project
	m.scope = storage.Scope{Owner: m.scope.Owner, Project: project.ID}
	m.cmdCtx = commands.NewContext(m.cfg, m.store, m.scope)
	m.orch = engine.NewOrchestrator(project.Topic)
	m.orch.SetAuto(m.cfg.UI.AutoGenerate)

	m.tree = engine.NewTree()
	m.tree.LabelFlush = func(id, label string) {
		l := label
		if err := m.store.UpdateItem(context.Background(), m.scope, id, storage.ItemPatch{Label: &l}); err != nil {
			logging.For("store").Error("label flush failed", "id", id, "error", err)
		}
	}
	for _, rec := range items {
		m.tree.Add(itemFromRecord(rec))
		m.orch.MarkVisited(rec.ID)
	}
	for _, rec := range notes {
		m.tree.AddNote(noteFromRecord(rec))
	}

	m.focusID = engine.TrunkID
	m.toolbar.Project = project.Name
	m.toolbar.Topic = project.Topic
	m.vp.Reset(time.Now())
}

// itemFromRecord converts a persisted row into an engine item. Anything
// already on disk counts as visited history, not a fresh generation target;
// the visited gate is re-armed separately for refreshed subtrees.
func itemFromRecord(rec storage.ItemRecord) *engine.Item {
	return &engine.Item{
		ID:              rec.ID,
		Kind:            engine.Kind(rec.Kind),
		Position:        engine.Point{X: rec.X, Y: rec.Y},
		Label:           rec.Label,
		Liked:           rec.Liked,
		ParentID:        rec.ParentID,
		ManuallyCreated: rec.Manual,
		CreatedAt:       rec.CreatedAt,
	}
}

func noteFromRecord(rec storage.NoteRecord) *engine.Note {
	return &engine.Note{
		ID:        rec.ID,
		Position:  engine.Point{X: rec.X, Y: rec.Y},
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt,
	}
}

// =============================================================================
// FRAME LOOP
// =============================================================================

// needFrames reports whether the next display frame must be scheduled.
func (m *Model) needFrames(now time.Time) bool {
	return m.vp.Animating() || m.vp.AtEdge(now) || m.spinner.IsActive()
}

// ensureTicking starts the frame loop if it is not already running.
func (m *Model) ensureTicking(now time.Time) tea.Cmd {
	if m.ticking || !m.needFrames(now) {
		return nil
	}
	m.ticking = true
	return frameTick()
}

// syncViewport publishes the transform after direct pan/zoom input, so
// readouts track it even when the change schedules no animation frame,
// then keeps the frame loop alive if one is due.
func (m *Model) syncViewport(now time.Time) tea.Cmd {
	m.vp.Publish()
	return m.ensureTicking(now)
}
