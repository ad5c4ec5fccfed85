// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/util"
)

// maxLabelCells bounds how wide an item renders on screen.
const maxLabelCells = 28

// timeNow is swapped out by tests that pin the edge-flash clock.
var timeNow = time.Now

// =============================================================================
// CELL BUFFER
// =============================================================================

// Cell styles, painted per run at assembly time. PERFORMANCE: styling runs
// instead of single cells keeps the escape-sequence volume proportional to
// the number of visible elements, not the screen area.
type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleGridDot
	styleConnector
	styleTrunk
	styleBranch
	styleLeaf
	styleNote
	styleFocused
	styleEdge
)

// cellBuffer is a rows-by-cols canvas of runes with a style id per cell.
type cellBuffer struct {
	cols   int
	rows   int
	runes  [][]rune
	styles [][]cellStyle
}

func newCellBuffer(cols, rows int) *cellBuffer {
	b := &cellBuffer{cols: cols, rows: rows}
	b.runes = make([][]rune, rows)
	b.styles = make([][]cellStyle, rows)
	for r := 0; r < rows; r++ {
		b.runes[r] = make([]rune, cols)
		b.styles[r] = make([]cellStyle, cols)
		for c := 0; c < cols; c++ {
			b.runes[r][c] = ' '
		}
	}
	return b
}

// set paints one cell, ignoring out-of-bounds writes.
func (b *cellBuffer) set(col, row int, ch rune, style cellStyle) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return
	}
	b.runes[row][col] = ch
	b.styles[row][col] = style
}

// setIfEmpty paints a cell only when nothing is drawn there yet.
func (b *cellBuffer) setIfEmpty(col, row int, ch rune, style cellStyle) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return
	}
	if b.styles[row][col] == styleNone && b.runes[row][col] == ' ' {
		b.runes[row][col] = ch
		b.styles[row][col] = style
	}
}

// text paints a string starting at col, clipped to the row. UNICODE: wide
// runes occupy two cells; the second cell is marked with the same style and
// a zero rune so assembly skips it.
func (b *cellBuffer) text(col, row int, s string, style cellStyle) {
	if row < 0 || row >= b.rows {
		return
	}
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		b.set(col, row, ch, style)
		if w == 2 {
			b.set(col+1, row, rune(0), style)
		}
		col += w
	}
}

// assemble renders the buffer into styled terminal lines.
func (b *cellBuffer) assemble(lookup func(cellStyle) lipgloss.Style) string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		col := 0
		for col < b.cols {
			style := b.styles[r][col]
			var run strings.Builder
			for col < b.cols && b.styles[r][col] == style {
				if b.runes[r][col] != 0 {
					run.WriteRune(b.runes[r][col])
				}
				col++
			}
			if style == styleNone {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lookup(style).Render(run.String()))
			}
		}
		if r < b.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// =============================================================================
// WORLD TO CELL MAPPING
// =============================================================================

// toCell maps a world point to a terminal cell inside the canvas area.
func toCell(t engine.Transform, w engine.Point) (col, row int) {
	s := t.ToScreen(w)
	return int(math.Round(s.X)), int(math.Round(s.Y / cellAspect))
}

// itemBox is the on-screen rectangle of one item, used for drawing and hit
// testing alike.
type itemBox struct {
	id    string
	col   int // leftmost cell
	row   int
	width int
	text  string
	style cellStyle
}

// boxFor lays out one item's screen box around its anchor cell.
func boxFor(t engine.Transform, id string, pos engine.Point, label string, liked bool, style cellStyle) itemBox {
	text := util.TruncateWidth(label, maxLabelCells)
	if liked {
		text = "* " + text
	}
	text = " " + text + " "
	w := runewidth.StringWidth(text)
	col, row := toCell(t, pos)
	return itemBox{
		id:    id,
		col:   col - w/2,
		row:   row,
		width: w,
		text:  text,
		style: style,
	}
}

func (b itemBox) contains(col, row int) bool {
	return row == b.row && col >= b.col && col < b.col+b.width
}

// =============================================================================
// CANVAS RENDER
// =============================================================================

// canvasRows returns the number of terminal rows the canvas area covers.
func (m *Model) canvasRows() int {
	rows := m.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

// layoutBoxes computes the screen boxes of the trunk and every item, in
// draw order (oldest first, focused last so it paints on top).
func (m *Model) layoutBoxes() []itemBox {
	t := m.vp.Transform()
	items := m.tree.Items()
	boxes := make([]itemBox, 0, len(items)+1)

	trunkFocused := m.focusID == engine.TrunkID
	trunk := boxFor(t, engine.TrunkID, engine.Point{}, m.orch.Topic(), false, styleTrunk)
	if !trunkFocused {
		boxes = append(boxes, trunk)
	}

	var focusedBox *itemBox
	for _, it := range items {
		style := styleLeaf
		if it.Kind == engine.KindBranch {
			style = styleBranch
		}
		box := boxFor(t, it.ID, it.Position, it.Label, it.Liked, style)
		if it.ID == m.focusID {
			box.style = styleFocused
			b := box
			focusedBox = &b
			continue
		}
		boxes = append(boxes, box)
	}
	if trunkFocused {
		trunk.style = styleFocused
		boxes = append(boxes, trunk)
	}
	if focusedBox != nil {
		boxes = append(boxes, *focusedBox)
	}
	return boxes
}

// hitTest returns the id of the topmost item covering a canvas cell.
func (m *Model) hitTest(col, row int) (string, bool) {
	boxes := m.layoutBoxes()
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].contains(col, row) {
			return boxes[i].id, true
		}
	}
	return "", false
}

// renderCanvas paints the visible world into terminal lines.
func (m *Model) renderCanvas() string {
	cols := m.width
	rows := m.canvasRows()
	if cols < 1 {
		cols = 1
	}
	buf := newCellBuffer(cols, rows)
	t := m.vp.Transform()

	if m.showGrid {
		m.drawGrid(buf, t)
	}
	m.drawConnectors(buf, t)
	m.drawNotes(buf, t)
	for _, box := range m.layoutBoxes() {
		buf.text(box.col, box.row, box.text, box.style)
	}
	if m.vp.AtEdge(timeNow()) {
		drawEdgeFlash(buf)
	}

	return buf.assemble(m.styleFor)
}

// drawGrid paints the background grid intersections visible in the
// viewport, one dot per grid-step crossing.
func (m *Model) drawGrid(buf *cellBuffer, t engine.Transform) {
	step := 50.0
	if m.cfg != nil && m.cfg.Canvas.GridStep > 0 {
		step = m.cfg.Canvas.GridStep
	}

	// Visible world rectangle, snapped outward to grid lines.
	topLeft := t.ToWorld(engine.Point{X: 0, Y: 0})
	bottomRight := t.ToWorld(engine.Point{X: float64(buf.cols), Y: float64(buf.rows) * cellAspect})
	startX := math.Floor(topLeft.X/step) * step
	startY := math.Floor(topLeft.Y/step) * step

	for y := startY; y <= bottomRight.Y+step; y += step {
		for x := startX; x <= bottomRight.X+step; x += step {
			col, row := toCell(t, engine.Point{X: x, Y: y})
			buf.setIfEmpty(col, row, '.', styleGridDot)
		}
	}
}

// drawConnectors paints sampled points along each parent-child edge.
func (m *Model) drawConnectors(buf *cellBuffer, t engine.Transform) {
	for _, it := range m.tree.Items() {
		if it.ParentID == "" {
			continue
		}
		from := engine.Point{} // trunk origin
		if it.ParentID != engine.TrunkID {
			parent, ok := m.tree.Get(it.ParentID)
			if !ok {
				continue
			}
			from = parent.Position
		}
		drawLine(buf, t, from, it.Position)
	}
}

// drawLine samples a world-space segment into connector cells.
func drawLine(buf *cellBuffer, t engine.Transform, from, to engine.Point) {
	dist := from.Dist(to)
	if dist == 0 {
		return
	}
	// One sample per half-cell of screen distance at the current scale.
	steps := int(dist * t.Scale * 2)
	if steps < 2 {
		steps = 2
	}
	for i := 1; i < steps; i++ {
		p := float64(i) / float64(steps)
		pt := engine.Point{
			X: from.X + (to.X-from.X)*p,
			Y: from.Y + (to.Y-from.Y)*p,
		}
		col, row := toCell(t, pt)
		buf.setIfEmpty(col, row, '.', styleConnector)
	}
}

// drawNotes paints freeform notes beneath the item layer.
func (m *Model) drawNotes(buf *cellBuffer, t engine.Transform) {
	for _, n := range m.tree.Notes() {
		text := " " + util.TruncateWidth(n.Text, maxLabelCells) + " "
		w := runewidth.StringWidth(text)
		col, row := toCell(t, n.Position)
		buf.text(col-w/2, row, text, styleNote)
	}
}

// drawEdgeFlash paints the canvas border while the edge-bump flag decays.
func drawEdgeFlash(buf *cellBuffer) {
	for c := 0; c < buf.cols; c++ {
		buf.set(c, 0, '-', styleEdge)
		buf.set(c, buf.rows-1, '-', styleEdge)
	}
	for r := 0; r < buf.rows; r++ {
		buf.set(0, r, '|', styleEdge)
		buf.set(buf.cols-1, r, '|', styleEdge)
	}
}

// styleFor maps a cell style id to its theme style.
func (m *Model) styleFor(s cellStyle) lipgloss.Style {
	switch s {
	case styleGridDot:
		return m.theme.GridDot
	case styleConnector:
		return m.theme.Connector
	case styleTrunk:
		return m.theme.TrunkItem
	case styleBranch:
		return m.theme.BranchItem
	case styleLeaf:
		return m.theme.LeafItem
	case styleNote:
		return m.theme.NoteItem
	case styleFocused:
		return m.theme.FocusedItem
	case styleEdge:
		return m.theme.EdgeFlash
	default:
		return lipgloss.NewStyle()
	}
}
