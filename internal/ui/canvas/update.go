// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/commands"
	"github.com/jeranaias/canopy-tui/internal/logging"
	"github.com/jeranaias/canopy-tui/internal/muse"
	"github.com/jeranaias/canopy-tui/internal/storage"
	"github.com/jeranaias/canopy-tui/internal/ui/components"
)

// Pan step per keypress, in screen units (one unit per column, cellAspect
// units per row).
const (
	panStepX = 8.0
	panStepY = 8.0
)

// Zoom factor per wheel notch or keypress.
const zoomStep = 1.25

// =============================================================================
// UPDATE
// =============================================================================

// Update is the Bubble Tea update loop for the canvas view. Internal
// handlers return the concrete model; the interface conversion happens at
// the return sites.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameTickMsg:
		return m.handleFrame(msg.at)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case canvasLoadedMsg:
		return m.handleLoaded(msg)

	case itemCreatedMsg:
		return m.handleItemCreated(msg)

	case noteCreatedMsg:
		if msg.err != nil {
			m.statusBar.SetNotice("note not saved: "+msg.err.Error(), true, noticeTTL)
			return m, nil
		}
		m.tree.AddNote(noteFromRecord(msg.rec))
		return m, nil

	case generationDoneMsg:
		return m.handleGenerationDone(msg)

	case persistFailedMsg:
		m.statusBar.SetNotice("save failed: "+msg.err.Error(), true, noticeTTL)
		return m, nil

	case projectSwitchedMsg:
		if msg.err != nil {
			m.statusBar.SetNotice("project switch failed: "+msg.err.Error(), true, noticeTTL)
			return m, nil
		}
		m.scope = storage.Scope{Owner: m.scope.Owner, Project: msg.project.ID}
		return m, loadCanvas(m.store, m.scope)

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.orch.SetAuto(msg.cfg.UI.AutoGenerate)
		m.showGrid = msg.cfg.UI.ShowGrid
		m.statusBar.SetNotice("config reloaded", false, noticeTTL)
		return m, nil
	}

	return m.handleCommandMsg(msg)
}

// =============================================================================
// RESIZE
// =============================================================================

// cellAspect compensates for terminal cells being about twice as tall as
// wide: one row covers cellAspect vertical screen units.
const cellAspect = 2.0

// chromeRows is the room taken by the toolbar, status bar and input line.
const chromeRows = 3

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.toolbar.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.savedPanel.SetSize(min(msg.Width-8, 56), min(msg.Height-6, 18))
	m.elabPanel.SetSize(min(msg.Width-8, 76), min(msg.Height-4, 24))
	m.input.Width = max(msg.Width-10, 20)

	rows := msg.Height - chromeRows
	if rows < 1 {
		rows = 1
	}
	m.vp.Resize(float64(msg.Width), float64(rows)*cellAspect)
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	// Ctrl+C always quits, whatever the mode.
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeInput:
		return m.handleInputKey(msg)
	case modeSaved:
		return m.handleSavedKey(msg)
	case modeExpand:
		return m.handleExpandKey(msg)
	case modeHelp:
		m.mode = modeNormal
		return m, nil
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	now := time.Now()
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Panning. Moving the view left means dragging the world right.
	case "left", "h":
		m.vp.Pan(panStepX, 0, now)
		return m, m.syncViewport(now)
	case "right", "l":
		m.vp.Pan(-panStepX, 0, now)
		return m, m.syncViewport(now)
	case "up", "k":
		m.vp.Pan(0, panStepY, now)
		return m, m.syncViewport(now)
	case "down", "j":
		m.vp.Pan(0, -panStepY, now)
		return m, m.syncViewport(now)

	// Zoom anchored at the screen center.
	case "+", "=":
		m.vp.ZoomAt(m.screenCenter(), zoomStep, now)
		return m, m.syncViewport(now)
	case "-", "_":
		m.vp.ZoomAt(m.screenCenter(), 1/zoomStep, now)
		return m, m.syncViewport(now)

	case "c":
		return m, m.jumpTo(m.focused().Position)
	case "C":
		m.vp.Reset(now)
		return m, m.syncViewport(now)

	case "g":
		m.showGrid = !m.showGrid
		return m, nil
	case "a":
		on := m.orch.ToggleAuto()
		m.statusBar.SetNotice(autoNotice(on), false, noticeTTL)
		return m, nil

	// Creation.
	case "b":
		return m, m.openInput(inputNewBranch, "")
	case "o":
		return m, m.openInput(inputNewLeaf, "")
	case "n":
		return m, m.openInput(inputNewNote, "")

	case "e":
		return m, m.editFocused()
	case "x", "delete":
		return m, m.deleteFocused()
	case "f":
		return m, m.toggleLike()

	// Generation.
	case "m":
		return m, m.requestBatch(engine.OpElaborate, m.focused())
	case "r":
		return m, m.refreshChildren()
	case "i":
		return m, m.requestExpand()

	case "s":
		m.openSaved()
		return m, nil

	case "tab":
		m.cycleFocus(false)
		return m, nil
	case "shift+tab":
		m.cycleFocus(true)
		return m, nil

	case "enter":
		return m, m.visitFocused()

	case ":", "/":
		return m, m.openInput(inputCommand, "")
	case "?":
		m.mode = modeHelp
		return m, nil
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.submitInput()
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Label edits apply to memory on every keystroke; the store write is
	// debounced behind them.
	if m.purpose == inputEditLabel && m.editID != "" {
		if v := m.input.Value(); v != "" {
			if err := m.tree.UpdateLabel(m.editID, v); err != nil {
				m.statusBar.SetNotice(err.Error(), true, noticeTTL)
			}
		}
	}
	return m, cmd
}

func (m *Model) handleSavedKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "s", "q":
		m.mode = modeNormal
		return m, nil
	case "up", "k":
		m.savedPanel.MoveUp()
		return m, nil
	case "down", "j":
		m.savedPanel.MoveDown()
		return m, nil
	case "enter":
		if sel := m.savedPanel.Selected(); sel != nil {
			if it, ok := m.tree.Get(sel.ID); ok {
				m.mode = modeNormal
				m.focusID = it.ID
				return m, m.jumpTo(it.Position)
			}
		}
		return m, nil
	case "f":
		if sel := m.savedPanel.Selected(); sel != nil {
			cmd := m.toggleLikeID(sel.ID)
			m.refreshSavedEntries()
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleExpandKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "i":
		m.mode = modeNormal
		return m, nil
	case "down", "j":
		m.elabPanel.ScrollDown()
		return m, nil
	case "up", "k":
		m.elabPanel.ScrollUp()
		return m, nil
	}
	return m, nil
}

// =============================================================================
// MOUSE
// =============================================================================

func (m *Model) handleMouse(msg tea.MouseMsg) (*Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m, nil
	}
	now := time.Now()
	switch msg.Type {
	case tea.MouseWheelUp:
		m.vp.ZoomAt(m.screenPoint(msg.X, msg.Y), zoomStep, now)
		return m, m.syncViewport(now)
	case tea.MouseWheelDown:
		m.vp.ZoomAt(m.screenPoint(msg.X, msg.Y), 1/zoomStep, now)
		return m, m.syncViewport(now)

	case tea.MouseLeft:
		if m.dragging {
			dx := float64(msg.X-m.dragX) * 1.0
			dy := float64(msg.Y-m.dragY) * cellAspect
			if dx != 0 || dy != 0 {
				m.dragActive = true
				m.vp.Pan(dx, dy, now)
			}
			m.dragX, m.dragY = msg.X, msg.Y
			return m, m.syncViewport(now)
		}
		m.dragging = true
		m.dragActive = false
		m.dragX, m.dragY = msg.X, msg.Y
		return m, nil

	case tea.MouseRelease:
		wasClick := m.dragging && !m.dragActive
		m.dragging = false
		m.dragActive = false
		if wasClick {
			return m, m.clickAt(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseRight:
		// Quick like toggle without moving focus away first.
		if id, ok := m.hitTest(msg.X, msg.Y-1); ok {
			m.focusID = id
			return m, m.toggleLike()
		}
		return m, nil
	}
	return m, nil
}

// screenPoint converts a terminal cell position to viewport screen units.
func (m *Model) screenPoint(col, row int) engine.Point {
	return engine.Point{
		X: float64(col),
		Y: float64(row-1) * cellAspect, // toolbar occupies row 0
	}
}

// screenCenter returns the middle of the canvas area in screen units.
func (m *Model) screenCenter() engine.Point {
	w, h := m.vp.Size()
	return engine.Point{X: w / 2, Y: h / 2}
}

// clickAt focuses the item under the cursor, firing the one-time visit
// trigger when it applies.
func (m *Model) clickAt(col, row int) tea.Cmd {
	id, ok := m.hitTest(col, row-1)
	if !ok {
		return nil
	}
	m.focusID = id
	return m.visitFocused()
}

// =============================================================================
// FRAME
// =============================================================================

func (m *Model) handleFrame(at time.Time) (*Model, tea.Cmd) {
	more := m.vp.Step(at)
	// One snapshot per frame; readouts never observe mid-event transforms.
	m.vp.Publish()
	if more || m.spinner.IsActive() {
		return m, frameTick()
	}
	m.ticking = false
	return m, nil
}

// =============================================================================
// LOAD / CREATE RESULTS
// =============================================================================

func (m *Model) handleLoaded(msg canvasLoadedMsg) (*Model, tea.Cmd) {
	if msg.err != nil {
		m.statusBar.SetNotice("load failed: "+msg.err.Error(), true, noticeTTL)
		logging.For("ui").Error("canvas load failed", "error", msg.err)
		return m, nil
	}
	m.resetCanvas(msg.project, msg.items, msg.notes)
	logging.For("ui").Info("canvas loaded",
		"project", msg.project.Name, "items", len(msg.items), "notes", len(msg.notes))

	if m.orch.ShouldBootstrap(m.tree.Len()) {
		op := m.orch.Begin(engine.OpBootstrap)
		return m, tea.Batch(
			m.startSpinner(components.NewGrowSpinner()),
			generate(m.gen, op, engine.OpBootstrap, "", m.orch.BootstrapRequest()),
		)
	}
	return m, nil
}

func (m *Model) handleItemCreated(msg itemCreatedMsg) (*Model, tea.Cmd) {
	if msg.err != nil {
		m.statusBar.SetNotice("item not saved: "+msg.err.Error(), true, noticeTTL)
		return m, nil
	}
	it := itemFromRecord(msg.rec)
	m.tree.Add(it)
	if it.ManuallyCreated {
		m.focusID = it.ID
	}
	return m, nil
}

// =============================================================================
// GENERATION
// =============================================================================

// startSpinner swaps in the spinner for the running operation and starts
// frames.
func (m *Model) startSpinner(sp components.Spinner) tea.Cmd {
	m.spinner = sp
	tick := m.spinner.Start()
	now := time.Now()
	if frames := m.ensureTicking(now); frames != nil {
		return tea.Batch(tick, frames)
	}
	return tick
}

// requestBatch fires a child-batch generation for an item. Explicit requests
// run regardless of the auto switch; only a missing topic blocks them.
func (m *Model) requestBatch(kind engine.OpKind, it *engine.Item) tea.Cmd {
	req := m.orch.RelatedRequest(it)
	if it.IsTrunk() {
		req = m.orch.BootstrapRequest()
	}
	if err := muse.Validate(req); err != nil {
		m.statusBar.SetNotice("set a topic first (e)", true, noticeTTL)
		return nil
	}
	// Extra context is one-shot: consumed by this request.
	if !it.IsTrunk() {
		m.tree.ClearExtraContext(it.ID)
	}
	parentID := it.ID
	opKind := kind
	if it.IsTrunk() {
		parentID = ""
		opKind = engine.OpBootstrap
	}
	op := m.orch.Begin(opKind)
	return tea.Batch(
		m.startSpinner(components.NewGrowSpinner()),
		generate(m.gen, op, opKind, parentID, req),
	)
}

// visitFocused fires the one-time automatic elaboration for the focused
// item, when the gate allows it. Gated visits and revisits glide the view
// onto the item instead.
func (m *Model) visitFocused() tea.Cmd {
	it := m.focused()
	if !m.orch.ShouldElaborateOnVisit(it) {
		return m.jumpTo(it.Position)
	}
	if !m.orch.MarkVisited(it.ID) {
		// A racing visit got there first.
		return m.jumpTo(it.Position)
	}
	return m.requestBatch(engine.OpFirstVisit, it)
}

// refreshChildren replaces the focused item's children with a fresh batch.
func (m *Model) refreshChildren() tea.Cmd {
	it := m.focused()
	children := m.tree.ChildrenOf(it.ID)

	var removed []string
	for _, child := range children {
		ids, err := m.tree.Remove(child.ID)
		if err != nil {
			continue
		}
		removed = append(removed, ids...)
	}
	// Replacement children get a fresh visit gate.
	m.orch.Forget(removed...)
	if m.focusID != engine.TrunkID {
		if _, ok := m.tree.Get(m.focusID); !ok {
			m.focusID = it.ID
		}
	}

	gen := m.requestBatch(engine.OpRefresh, it)
	if len(removed) == 0 {
		return gen
	}
	del := deleteItems(m.store, m.scope, removed)
	if gen == nil {
		return del
	}
	return tea.Batch(del, gen)
}

// requestExpand asks for prose elaboration of the focused item.
func (m *Model) requestExpand() tea.Cmd {
	it := m.focused()
	if it.IsTrunk() {
		m.statusBar.SetNotice("pick an idea to elaborate", false, noticeTTL)
		return nil
	}
	req := m.orch.ExpandRequest(it)
	if err := muse.Validate(req); err != nil {
		m.statusBar.SetNotice("set a topic first (e)", true, noticeTTL)
		return nil
	}
	op := m.orch.Begin(engine.OpExpand)
	return tea.Batch(
		m.startSpinner(components.NewElaborateSpinner()),
		generate(m.gen, op, engine.OpExpand, it.ID, req),
	)
}

func (m *Model) handleGenerationDone(msg generationDoneMsg) (*Model, tea.Cmd) {
	m.orch.Settle(msg.op)
	if !m.orch.Busy() {
		m.spinner.Stop()
	}

	if msg.err != nil {
		m.statusBar.SetNotice(generationErrNotice(msg.err), true, noticeTTL)
		return m, nil
	}

	switch msg.kind {
	case engine.OpExpand:
		parent, ok := m.tree.Get(msg.parentID)
		if !ok {
			return m, nil
		}
		m.elabPanel.SetContent(parent.Label, msg.result.Elaboration)
		m.mode = modeExpand
		return m, nil

	case engine.OpBootstrap:
		placed := engine.PlaceInitial(m.vp.Center(), msg.result.Labels, m.tree.ObstaclePoints())
		return m, m.persistPlaced(placed, engine.TrunkID)

	default: // first-visit, elaborate, refresh
		parent, ok := m.tree.Get(msg.parentID)
		if !ok {
			// Parent deleted while the call was in flight; drop the batch.
			return m, nil
		}
		placed := engine.PlaceChildren(parent.Position, msg.result.Labels, m.tree.ObstaclePoints())
		return m, m.persistPlaced(placed, parent.ID)
	}
}

// persistPlaced turns a placed batch into store creations. Items enter the
// tree once their records come back with ids.
func (m *Model) persistPlaced(placed []engine.PlacedLabel, parentID string) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(placed))
	for _, p := range placed {
		cmds = append(cmds, createItem(m.store, m.scope, storage.NewItem{
			Kind:     string(engine.KindLeaf),
			Label:    p.Label,
			ParentID: parentID,
			X:        p.Position.X,
			Y:        p.Position.Y,
		}))
	}
	return tea.Batch(cmds...)
}

// generationErrNotice maps backend failures to a short user-facing line.
func generationErrNotice(err error) string {
	switch {
	case errors.Is(err, muse.ErrNoTopic):
		return "set a topic first (e)"
	case errors.Is(err, muse.ErrUnavailable):
		return "muse unreachable; canvas is still yours"
	case errors.Is(err, muse.ErrMalformed):
		return "muse answered nonsense; try again"
	default:
		return "generation failed: " + err.Error()
	}
}

// =============================================================================
// ITEM ACTIONS
// =============================================================================

// editFocused opens the label editor, or the topic editor on the trunk.
func (m *Model) editFocused() tea.Cmd {
	it := m.focused()
	if it.IsTrunk() {
		return m.openInput(inputContext, m.orch.Topic())
	}
	m.editID = it.ID
	return m.openInput(inputEditLabel, it.Label)
}

func (m *Model) deleteFocused() tea.Cmd {
	it := m.focused()
	if it.IsTrunk() {
		m.statusBar.SetNotice("the trunk stays", false, noticeTTL)
		return nil
	}
	removed, err := m.tree.Remove(it.ID)
	if err != nil {
		m.statusBar.SetNotice(err.Error(), true, noticeTTL)
		return nil
	}
	m.orch.Forget(removed...)
	if it.ParentID != "" {
		m.focusID = it.ParentID
	} else {
		m.focusID = engine.TrunkID
	}
	m.statusBar.SetNotice(pruneNotice(len(removed)), false, noticeTTL)
	return deleteItems(m.store, m.scope, removed)
}

func (m *Model) toggleLike() tea.Cmd {
	it := m.focused()
	if it.IsTrunk() {
		return nil
	}
	return m.toggleLikeID(it.ID)
}

func (m *Model) toggleLikeID(id string) tea.Cmd {
	liked, err := m.tree.ToggleLiked(id)
	if err != nil {
		m.statusBar.SetNotice(err.Error(), true, noticeTTL)
		return nil
	}
	l := liked
	return patchItem(m.store, m.scope, id, storage.ItemPatch{Liked: &l})
}

// openSaved fills and shows the saved-ideas panel.
func (m *Model) openSaved() {
	m.refreshSavedEntries()
	m.mode = modeSaved
}

func (m *Model) refreshSavedEntries() {
	liked := m.tree.Liked()
	entries := make([]components.SavedEntry, 0, len(liked))
	for _, it := range liked {
		entries = append(entries, components.SavedEntry{
			ID:    it.ID,
			Label: it.Label,
			Kind:  string(it.Kind),
		})
	}
	m.savedPanel.SetEntries(entries)
}

// =============================================================================
// COMMAND MESSAGES
// =============================================================================

// handleCommandMsg reacts to the typed messages emitted by slash-command
// handlers.
func (m *Model) handleCommandMsg(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		m.mode = modeHelp
		return m, nil

	case commands.CenterViewMsg:
		return m, m.jumpTo(m.focused().Position)

	case commands.SetZoomMsg:
		now := time.Now()
		m.vp.CenterOn(m.vp.Center(), msg.Scale, now)
		return m, m.syncViewport(now)

	case commands.CreateItemMsg:
		return m, m.createManualItem(engine.Kind(msg.Kind), msg.Label)

	case commands.CreateNoteMsg:
		pos := m.openSpotNearCenter()
		return m, createNote(m.store, m.scope, storage.NewNote{X: pos.X, Y: pos.Y, Text: msg.Text})

	case commands.DeleteFocusedMsg:
		return m, m.deleteFocused()

	case commands.ToggleLikeMsg:
		return m, m.toggleLike()

	case commands.ToggleGridMsg:
		m.showGrid = !m.showGrid
		return m, nil

	case commands.GenerateMoreMsg:
		return m, m.requestBatch(engine.OpElaborate, m.focused())

	case commands.RefreshChildrenMsg:
		return m, m.refreshChildren()

	case commands.ElaborateMsg:
		return m, m.requestExpand()

	case commands.SetAutoMsg:
		var on bool
		if msg.On == nil {
			on = m.orch.ToggleAuto()
		} else {
			on = *msg.On
			m.orch.SetAuto(on)
		}
		m.statusBar.SetNotice(autoNotice(on), false, noticeTTL)
		return m, nil

	case commands.SetExtraContextMsg:
		if msg.Text == "" {
			return m, m.openInput(inputContext, "")
		}
		it := m.focused()
		if it.IsTrunk() {
			m.orch.SetTopic(msg.Text)
			m.toolbar.Topic = msg.Text
			return m, nil
		}
		if err := m.tree.SetExtraContext(it.ID, msg.Text); err != nil {
			m.statusBar.SetNotice(err.Error(), true, noticeTTL)
		}
		return m, nil

	case commands.ShowSavedMsg:
		m.openSaved()
		return m, nil

	case commands.SwitchProjectMsg:
		return m, switchProject(m.store, m.scope.Owner, msg.Name)

	case commands.NoticeMsg:
		m.statusBar.SetNotice(msg.Text, msg.IsErr, noticeTTL)
		return m, nil
	}
	return m, nil
}

// =============================================================================
// NOTICE TEXT
// =============================================================================

func autoNotice(on bool) string {
	if on {
		return "auto-generation on"
	}
	return "auto-generation off"
}

func pruneNotice(n int) string {
	if n == 1 {
		return "idea pruned"
	}
	return "branch pruned"
}
