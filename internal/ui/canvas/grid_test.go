// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/storage"
)

// testStyleLookup renders every style as plain text.
func testStyleLookup() func(cellStyle) lipgloss.Style {
	plain := lipgloss.NewStyle()
	return func(cellStyle) lipgloss.Style { return plain }
}

// =============================================================================
// CELL BUFFER
// =============================================================================

func TestCellBufferText(t *testing.T) {
	buf := newCellBuffer(20, 3)
	buf.text(2, 1, "hello", styleLeaf)

	out := buf.assemble(testStyleLookup())
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "hello") {
		t.Errorf("row 1 missing text: %q", lines[1])
	}
}

func TestCellBufferClipsOutOfBounds(t *testing.T) {
	buf := newCellBuffer(6, 2)
	// Starts inside, runs off the right edge; must not panic.
	buf.text(4, 0, "overflow", styleLeaf)
	buf.text(-3, 1, "left", styleLeaf)
	buf.set(100, 100, 'x', styleLeaf)

	out := buf.assemble(testStyleLookup())
	if !strings.Contains(out, "ov") {
		t.Errorf("clipped text missing visible part: %q", out)
	}
	// "left" starts at -3 so only its tail is visible.
	if !strings.Contains(out, "t") {
		t.Errorf("left-clipped text missing tail: %q", out)
	}
}

func TestCellBufferWideRunes(t *testing.T) {
	buf := newCellBuffer(10, 1)
	buf.text(0, 0, "日本", styleLeaf)
	out := buf.assemble(testStyleLookup())
	if !strings.Contains(out, "日本") {
		t.Errorf("wide runes mangled: %q", out)
	}
}

func TestSetIfEmptyDoesNotOverwrite(t *testing.T) {
	buf := newCellBuffer(4, 1)
	buf.set(1, 0, 'A', styleLeaf)
	buf.setIfEmpty(1, 0, '.', styleGridDot)
	if buf.runes[0][1] != 'A' {
		t.Errorf("setIfEmpty overwrote a drawn cell: %q", buf.runes[0][1])
	}
}

// =============================================================================
// MAPPING
// =============================================================================

func TestToCellCompressesVertical(t *testing.T) {
	tr := engine.Transform{Scale: 1.0, TX: 0, TY: 0}
	col, row := toCell(tr, engine.Point{X: 10, Y: 10})
	if col != 10 {
		t.Errorf("col = %d, want 10", col)
	}
	if row != 5 {
		t.Errorf("row = %d, want 5 (cell aspect)", row)
	}
}

func TestBoxForCentersOnAnchor(t *testing.T) {
	tr := engine.Transform{Scale: 1.0, TX: 50, TY: 20}
	box := boxFor(tr, "a", engine.Point{}, "idea", false, styleLeaf)
	// " idea " is 6 cells wide, so the box starts 3 left of the anchor.
	if box.width != 6 {
		t.Fatalf("width = %d, want 6", box.width)
	}
	if box.col != 50-3 {
		t.Errorf("col = %d, want %d", box.col, 50-3)
	}
	if !box.contains(50, box.row) {
		t.Error("box does not contain its anchor cell")
	}
	if box.contains(50, box.row+1) {
		t.Error("box spans more than one row")
	}
}

func TestLikedMarkerWidensBox(t *testing.T) {
	tr := engine.Transform{Scale: 1.0}
	plain := boxFor(tr, "a", engine.Point{}, "idea", false, styleLeaf)
	liked := boxFor(tr, "a", engine.Point{}, "idea", true, styleLeaf)
	if liked.width != plain.width+2 {
		t.Errorf("liked width = %d, want %d", liked.width, plain.width+2)
	}
	if !strings.Contains(liked.text, "*") {
		t.Errorf("liked box missing marker: %q", liked.text)
	}
}

// =============================================================================
// RENDER AND HIT TEST
// =============================================================================

func seededModel(t *testing.T) (*Model, *memStore) {
	t.Helper()
	gen := &scriptGen{}
	m, store := newTestModel(t, gen)
	store.CreateItem(context.Background(), m.scope, storage.NewItem{
		Kind: "leaf", Label: "drip irrigation", ParentID: engine.TrunkID, X: 0, Y: 20,
	})
	load(t, m)
	return m, store
}

func TestRenderCanvasShowsCenteredItems(t *testing.T) {
	m, _ := seededModel(t)

	out := m.renderCanvas()
	if !strings.Contains(out, "drip irrigation") {
		t.Errorf("canvas missing item label")
	}
	// The trunk carries the topic.
	if !strings.Contains(out, "urban beekeeping") {
		t.Errorf("canvas missing trunk topic")
	}
	if got := len(strings.Split(out, "\n")); got != m.canvasRows() {
		t.Errorf("canvas rows = %d, want %d", got, m.canvasRows())
	}
}

func TestRenderCanvasGridToggle(t *testing.T) {
	m, _ := seededModel(t)

	m.showGrid = true
	withGrid := m.renderCanvas()
	m.showGrid = false
	withoutGrid := m.renderCanvas()
	if strings.Count(withGrid, ".") <= strings.Count(withoutGrid, ".") {
		t.Error("grid dots not painted when the grid is on")
	}
}

func TestHitTestFindsItemUnderCursor(t *testing.T) {
	m, _ := seededModel(t)

	it := m.tree.Items()[0]
	col, row := toCell(m.vp.Transform(), it.Position)
	id, ok := m.hitTest(col, row)
	if !ok {
		t.Fatal("hit test missed the item anchor")
	}
	if id != it.ID {
		t.Errorf("hit id = %q, want %q", id, it.ID)
	}

	if _, ok := m.hitTest(0, 0); ok {
		t.Error("hit test matched empty space")
	}
}

func TestClickFocusesItem(t *testing.T) {
	m, _ := seededModel(t)

	it := m.tree.Items()[0]
	col, row := toCell(m.vp.Transform(), it.Position)
	// Mouse rows include the toolbar row above the canvas.
	drain(t, m, m.clickAt(col, row+1))
	if m.focusID != it.ID {
		t.Errorf("focus = %q, want %q", m.focusID, it.ID)
	}
}

func TestEdgeFlashPaintsBorder(t *testing.T) {
	m, _ := seededModel(t)

	pinned := time.Now()
	old := timeNow
	timeNow = func() time.Time { return pinned }
	defer func() { timeNow = old }()

	// Slam the viewport into the world edge to raise the flag.
	for i := 0; i < 3000; i++ {
		m.vp.Pan(50, 0, pinned)
	}
	if !m.vp.AtEdge(pinned) {
		t.Fatal("edge flag not raised by clamped pan")
	}

	out := m.renderCanvas()
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "-") {
		t.Error("top border not flashed")
	}
	if !strings.Contains(lines[len(lines)-1], "-") {
		t.Error("bottom border not flashed")
	}
}

// =============================================================================
// FULL VIEW
// =============================================================================

func TestViewComposesChrome(t *testing.T) {
	m, _ := seededModel(t)

	out := m.View()
	if !strings.Contains(out, "canopy") {
		t.Error("view missing toolbar brand")
	}
	if !strings.Contains(out, "zoom") {
		t.Error("view missing status bar")
	}
}

func TestViewShowsOverlays(t *testing.T) {
	m, _ := seededModel(t)

	m.mode = modeHelp
	if !strings.Contains(m.View(), "Keys") {
		t.Error("help overlay not rendered")
	}

	m.mode = modeSaved
	if !strings.Contains(m.View(), "Saved ideas") {
		t.Error("saved panel not rendered")
	}
}

func TestResizeKeepsViewportInBounds(t *testing.T) {
	m, _ := seededModel(t)

	m.handleResize(tea.WindowSizeMsg{Width: 40, Height: 12})
	out := m.View()
	if out == "" {
		t.Fatal("empty view after shrink")
	}
	m.handleResize(tea.WindowSizeMsg{Width: 200, Height: 60})
	if m.canvasRows() != 57 {
		t.Errorf("canvas rows = %d, want 57", m.canvasRows())
	}
}
