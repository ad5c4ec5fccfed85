// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package canvas implements the spatial idea-canvas engine: the world
// coordinate system, the non-overlapping placement search, the item tree
// and the generation orchestrator.
//
// The package is deliberately free of UI imports. All state is in-memory
// and authoritative; persistence and generation are reached through ports
// owned by the caller.
package canvas

import (
	"math"
	"time"
)

// =============================================================================
// GEOMETRY
// =============================================================================

// Point is a position in world coordinates. World units are zoom- and
// pan-independent; the viewport maps them to screen cells.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Hypot(dx, dy)
}

// Bearing returns the angle in radians from the origin through p.
// A point at the origin has bearing 0.
func (p Point) Bearing() float64 {
	if p.X == 0 && p.Y == 0 {
		return 0
	}
	return math.Atan2(p.Y, p.X)
}

// =============================================================================
// ITEM
// =============================================================================

// Kind classifies an item on the canvas.
type Kind string

const (
	// KindBranch is a manually authored anchor node.
	KindBranch Kind = "branch"
	// KindLeaf is an idea node, the usual target of elaboration.
	KindLeaf Kind = "leaf"
)

// Valid reports whether k is a known item kind.
func (k Kind) Valid() bool {
	return k == KindBranch || k == KindLeaf
}

// TrunkID is the sentinel parent id meaning "parented to the root context
// card". The trunk itself is virtual: it is never persisted, never deleted
// and never edited.
const TrunkID = "trunk"

// Item is a spatial idea node. IDs are opaque and assigned by the
// persistence port at creation time.
type Item struct {
	ID       string
	Kind     Kind
	Position Point
	Label    string
	Liked    bool

	// ParentID is another item's id, TrunkID, or empty for an unparented
	// manual item.
	ParentID string

	// ManuallyCreated suppresses automatic child generation for this item.
	ManuallyCreated bool

	// ExtraContext is free text fed to exactly the next generation call for
	// this item, then cleared. It is session-only: generation input is not
	// part of the node and is never written to the store.
	ExtraContext string

	CreatedAt time.Time
}

// IsTrunk reports whether the item is the virtual root context card.
func (it *Item) IsTrunk() bool {
	return it.ID == TrunkID
}

// Editable reports whether the item's label may be edited in place.
// The trunk is read-only; branches and leaves are both editable.
func (it *Item) Editable() bool {
	return !it.IsTrunk()
}

// Trunk returns the virtual root item for a topic. It sits at the world
// origin and carries the project topic as its label.
func Trunk(topic string) *Item {
	return &Item{
		ID:       TrunkID,
		Kind:     KindBranch,
		Position: Point{},
		Label:    topic,
	}
}

// =============================================================================
// NOTE
// =============================================================================

// Note is a freeform annotation independent of the item tree. Notes never
// have parents or children and never participate in generation.
type Note struct {
	ID        string
	Position  Point
	Text      string
	CreatedAt time.Time
}
