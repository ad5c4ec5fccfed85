// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"strings"
	"sync"

	"github.com/jeranaias/canopy-tui/internal/muse"
)

// =============================================================================
// OPERATIONS
// =============================================================================

// OpKind classifies a generation operation.
type OpKind int

const (
	// OpBootstrap populates a bare canvas with its first batch.
	OpBootstrap OpKind = iota
	// OpFirstVisit elaborates an item on its first activation.
	OpFirstVisit
	// OpElaborate is an explicit user "generate more" on the active item.
	OpElaborate
	// OpRefresh replaces the active item's children with a fresh batch.
	OpRefresh
	// OpExpand requests prose elaboration for the panel.
	OpExpand
)

// String returns the operation kind for logging.
func (k OpKind) String() string {
	switch k {
	case OpBootstrap:
		return "bootstrap"
	case OpFirstVisit:
		return "first-visit"
	case OpElaborate:
		return "elaborate"
	case OpRefresh:
		return "refresh"
	case OpExpand:
		return "expand"
	default:
		return "unknown"
	}
}

// OpID identifies one live generation operation.
type OpID int64

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator is the per-canvas generation state machine. It tracks which
// items have already triggered their one-time automatic elaboration (the
// visited set) and which generation operations are currently in flight.
//
// State is tracked per logical operation rather than as a single shared
// boolean, so a later request settling cannot clear the busy indicator of
// an earlier one still in flight.
type Orchestrator struct {
	mu      sync.Mutex
	nextOp  OpID
	live    map[OpID]OpKind
	visited map[string]bool
	auto    bool
	topic   string
}

// NewOrchestrator creates an orchestrator for a canvas with the given topic
// context. Auto-generation starts enabled.
func NewOrchestrator(topic string) *Orchestrator {
	return &Orchestrator{
		live:    make(map[OpID]OpKind),
		visited: make(map[string]bool),
		auto:    true,
		topic:   topic,
	}
}

// Topic returns the shared topic context.
func (o *Orchestrator) Topic() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.topic
}

// SetTopic replaces the shared topic context.
func (o *Orchestrator) SetTopic(topic string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.topic = topic
}

// =============================================================================
// AUTO-GENERATION TOGGLE
// =============================================================================

// Auto reports whether automatic generation triggers are enabled. Explicit
// user commands fire regardless.
func (o *Orchestrator) Auto() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.auto
}

// ToggleAuto flips the auto-generation switch and returns the new value.
func (o *Orchestrator) ToggleAuto() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.auto = !o.auto
	return o.auto
}

// SetAuto sets the auto-generation switch.
func (o *Orchestrator) SetAuto(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.auto = on
}

// =============================================================================
// OPERATION LIFECYCLE
// =============================================================================

// Begin registers a live generation operation and returns its id.
func (o *Orchestrator) Begin(kind OpKind) OpID {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextOp++
	id := o.nextOp
	o.live[id] = kind
	return id
}

// Settle removes a live operation, success or failure alike.
func (o *Orchestrator) Settle(id OpID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.live, id)
}

// Busy reports whether any generation operation is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.live) > 0
}

// LiveOps returns the number of in-flight operations.
func (o *Orchestrator) LiveOps() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.live)
}

// =============================================================================
// VISITED SET
// =============================================================================

// Visited reports whether an item already fired its first-visit trigger.
func (o *Orchestrator) Visited(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visited[id]
}

// MarkVisited records an item as visited and reports whether this was the
// first visit.
func (o *Orchestrator) MarkVisited(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.visited[id] {
		return false
	}
	o.visited[id] = true
	return true
}

// Forget drops items from the visited set. Used when refresh replaces a
// subtree so replacement children can elaborate again.
func (o *Orchestrator) Forget(ids ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		delete(o.visited, id)
	}
}

// =============================================================================
// TRIGGER POLICY
// =============================================================================

// hasTopic reports whether a topic context is available. Without one every
// generation trigger silently no-ops.
func (o *Orchestrator) hasTopic() bool {
	return strings.TrimSpace(o.topic) != ""
}

// ShouldBootstrap reports whether activating a canvas with itemCount items
// should request the initial batch.
func (o *Orchestrator) ShouldBootstrap(itemCount int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return itemCount == 0 && o.auto && o.hasTopic()
}

// ShouldElaborateOnVisit reports whether activating an item should request
// a related batch. It does not consume the visit; callers that proceed must
// MarkVisited first so a racing second click is gated.
func (o *Orchestrator) ShouldElaborateOnVisit(it *Item) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.auto || !o.hasTopic() {
		return false
	}
	if it.IsTrunk() || it.ManuallyCreated {
		return false
	}
	return !o.visited[it.ID]
}

// =============================================================================
// REQUEST BUILDERS
// =============================================================================

// BootstrapRequest builds the initial-batch request.
func (o *Orchestrator) BootstrapRequest() muse.Request {
	return muse.Request{
		Mode:  muse.ModeInitial,
		Topic: o.Topic(),
		Count: muse.DefaultCount,
	}
}

// RelatedRequest builds a child-batch request for an item, carrying its
// one-shot extra context.
func (o *Orchestrator) RelatedRequest(it *Item) muse.Request {
	return muse.Request{
		Mode:         muse.ModeRelated,
		Topic:        o.Topic(),
		ParentLabel:  it.Label,
		ExtraContext: it.ExtraContext,
		Count:        muse.DefaultCount,
	}
}

// ExpandRequest builds a prose elaboration request for an item.
func (o *Orchestrator) ExpandRequest(it *Item) muse.Request {
	return muse.Request{
		Mode:        muse.ModeElaborate,
		Topic:       o.Topic(),
		ParentLabel: it.Label,
	}
}

// =============================================================================
// RESULT MERGE
// =============================================================================

// PlacedLabel pairs a generated label with its resolved position.
type PlacedLabel struct {
	Label    string
	Position Point
}

// PlaceInitial lays out a bootstrap batch around the viewport center.
func PlaceInitial(center Point, labels []string, obstacles []Point) []PlacedLabel {
	spots := InitialLayout(center, len(labels), MinSeparation, obstacles)
	return zipLabels(labels, spots)
}

// PlaceChildren lays out a related batch fanned outward from the parent.
func PlaceChildren(parent Point, labels []string, obstacles []Point) []PlacedLabel {
	spots := ChildLayout(parent, len(labels), MinSeparation, obstacles)
	return zipLabels(labels, spots)
}

func zipLabels(labels []string, spots []Point) []PlacedLabel {
	out := make([]PlacedLabel, 0, len(labels))
	for i, l := range labels {
		out = append(out, PlacedLabel{Label: l, Position: spots[i]})
	}
	return out
}
