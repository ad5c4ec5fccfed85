// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"time"
)

// =============================================================================
// VIEWPORT CONSTANTS
// =============================================================================

const (
	// MinZoom and MaxZoom bound the viewport scale.
	MinZoom = 0.2
	MaxZoom = 1.0

	// DefaultZoom is the scale used on startup and by reset-view.
	DefaultZoom = 0.5

	// WorldHalfExtent is half the side of the fixed world rectangle. Nodes
	// may be placed anywhere; only panning is clamped to this rectangle.
	WorldHalfExtent = 5000.0

	// EdgePadding is the screen-space slack allowed beyond the world
	// rectangle before panning is clamped.
	EdgePadding = 80.0

	// EdgeFlagDuration is how long the at-edge flag stays raised after a
	// clamped pan or zoom, to drive a visual bump affordance.
	EdgeFlagDuration = 450 * time.Millisecond

	// CenterDuration is the length of the eased center-on transition.
	CenterDuration = 500 * time.Millisecond
)

// =============================================================================
// TRANSFORM
// =============================================================================

// Transform is a composed scale + translate mapping world coordinates to
// screen coordinates: screen = world*Scale + T.
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// ToScreen maps a world point to screen coordinates.
func (t Transform) ToScreen(w Point) Point {
	return Point{X: w.X*t.Scale + t.TX, Y: w.Y*t.Scale + t.TY}
}

// ToWorld maps a screen point back to world coordinates.
func (t Transform) ToWorld(s Point) Point {
	return Point{X: (s.X - t.TX) / t.Scale, Y: (s.Y - t.TY) / t.Scale}
}

// =============================================================================
// EASING
// =============================================================================

// EasingFunc maps transition progress (0-1) to output (0-1).
type EasingFunc func(t float64) float64

// EaseInOutQuad accelerates until halfway, then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// transition is an in-flight eased interpolation of the transform. Starting
// a new transition simply overwrites the previous one; there is no queue.
type transition struct {
	from  Transform
	to    Transform
	start time.Time
	dur   time.Duration
	ease  EasingFunc
}

func (tr *transition) at(now time.Time) (Transform, bool) {
	elapsed := now.Sub(tr.start)
	if elapsed >= tr.dur {
		return tr.to, true
	}
	p := tr.ease(float64(elapsed) / float64(tr.dur))
	return Transform{
		Scale: tr.from.Scale + (tr.to.Scale-tr.from.Scale)*p,
		TX:    tr.from.TX + (tr.to.TX-tr.from.TX)*p,
		TY:    tr.from.TY + (tr.to.TY-tr.from.TY)*p,
	}, false
}

// =============================================================================
// VIEWPORT
// =============================================================================

// Viewport holds the canvas transform and the screen size it serves.
//
// The transform exists twice: the authoritative mutable value updated
// synchronously on every input event, and a published snapshot copied out
// at most once per display frame for read-mostly UI such as the zoom
// readout. Routing every pointer event through the slower observation path
// causes visible jitter under rapid input, which is the reason this split
// exists.
type Viewport struct {
	t        Transform
	snapshot Transform

	width  float64
	height float64

	atEdgeUntil time.Time
	anim        *transition
}

// NewViewport creates a viewport centered on the world origin.
func NewViewport(width, height float64) *Viewport {
	v := &Viewport{
		t:      Transform{Scale: DefaultZoom},
		width:  width,
		height: height,
	}
	v.t.TX = width / 2
	v.t.TY = height / 2
	v.t = v.clamp(v.t, nil)
	v.snapshot = v.t
	return v
}

// Resize updates the screen size and re-clamps the transform.
func (v *Viewport) Resize(width, height float64) {
	v.width = width
	v.height = height
	v.t = v.clamp(v.t, nil)
}

// Transform returns the authoritative transform.
func (v *Viewport) Transform() Transform { return v.t }

// Size returns the screen size in screen units.
func (v *Viewport) Size() (width, height float64) { return v.width, v.height }

// Publish copies the authoritative transform into the observable snapshot
// and returns it. Callers invoke it at most once per display frame.
func (v *Viewport) Publish() Transform {
	v.snapshot = v.t
	return v.snapshot
}

// Snapshot returns the last published transform without refreshing it.
func (v *Viewport) Snapshot() Transform { return v.snapshot }

// =============================================================================
// CLAMPING
// =============================================================================

// translateRange returns the legal [lo, hi] translate interval for one axis
// given the current scale and the screen span on that axis.
func translateRange(scale, span float64) (lo, hi float64) {
	// The world rectangle's screen-space edges are -wh*scale+t and
	// +wh*scale+t. The viewport may not scroll past the rectangle plus the
	// padding, so the rectangle must keep covering [pad, span-pad].
	lo = span - EdgePadding - WorldHalfExtent*scale
	hi = EdgePadding + WorldHalfExtent*scale
	if lo > hi {
		// Screen wider than the scaled world: pin to the midpoint.
		mid := span / 2
		return mid, mid
	}
	return lo, hi
}

func clampVal(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// clamp confines t to the legal translate ranges. If clamping changed a
// value and hit is non-nil, *hit is set.
func (v *Viewport) clamp(t Transform, hit *bool) Transform {
	loX, hiX := translateRange(t.Scale, v.width)
	loY, hiY := translateRange(t.Scale, v.height)
	cx := clampVal(t.TX, loX, hiX)
	cy := clampVal(t.TY, loY, hiY)
	if hit != nil && (cx != t.TX || cy != t.TY) {
		*hit = true
	}
	t.TX = cx
	t.TY = cy
	return t
}

// AtEdge reports whether a pan or zoom was clamped within the last
// EdgeFlagDuration. The flag decays on its own; Step clears it.
func (v *Viewport) AtEdge(now time.Time) bool {
	return now.Before(v.atEdgeUntil)
}

// =============================================================================
// INPUT OPERATIONS
// =============================================================================

// Pan translates the viewport by a screen-space delta, clamped to the world
// rectangle. Panning cancels an in-flight center transition.
func (v *Viewport) Pan(dx, dy float64, now time.Time) {
	v.anim = nil
	hit := false
	t := v.t
	t.TX += dx
	t.TY += dy
	v.t = v.clamp(t, &hit)
	if hit {
		v.atEdgeUntil = now.Add(EdgeFlagDuration)
	}
}

// ZoomAt scales the viewport by factor anchored at a screen point: the
// world point under the cursor before the zoom stays under it afterwards.
func (v *Viewport) ZoomAt(screen Point, factor float64, now time.Time) {
	v.anim = nil
	world := v.t.ToWorld(screen)
	t := v.t
	t.Scale = clampVal(t.Scale*factor, MinZoom, MaxZoom)
	// Re-anchor: screen = world*scale + translate.
	t.TX = screen.X - world.X*t.Scale
	t.TY = screen.Y - world.Y*t.Scale
	hit := false
	v.t = v.clamp(t, &hit)
	if hit {
		v.atEdgeUntil = now.Add(EdgeFlagDuration)
	}
}

// CenterOn starts an eased transition that brings a world point to the
// screen center at the given scale. A transition started while another is
// in flight supersedes it.
func (v *Viewport) CenterOn(world Point, scale float64, now time.Time) {
	scale = clampVal(scale, MinZoom, MaxZoom)
	target := Transform{
		Scale: scale,
		TX:    v.width/2 - world.X*scale,
		TY:    v.height/2 - world.Y*scale,
	}
	target = v.clamp(target, nil)
	v.anim = &transition{
		from:  v.t,
		to:    target,
		start: now,
		dur:   CenterDuration,
		ease:  EaseInOutQuad,
	}
}

// Reset eases back to the default view: origin centered at DefaultZoom.
func (v *Viewport) Reset(now time.Time) {
	v.CenterOn(Point{}, DefaultZoom, now)
}

// Animating reports whether a center transition is in flight.
func (v *Viewport) Animating() bool { return v.anim != nil }

// Step advances the in-flight transition for the given frame time and
// reports whether the viewport still needs further frames (animating or
// the edge flag is still decaying).
func (v *Viewport) Step(now time.Time) bool {
	if v.anim != nil {
		t, done := v.anim.at(now)
		v.t = t
		if done {
			v.anim = nil
		}
	}
	return v.anim != nil || now.Before(v.atEdgeUntil)
}

// Center returns the world point currently at the screen center.
func (v *Viewport) Center() Point {
	return v.t.ToWorld(Point{X: v.width / 2, Y: v.height / 2})
}
