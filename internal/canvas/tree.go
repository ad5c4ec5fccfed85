// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrItemNotFound is returned when an item id is unknown to the tree.
	ErrItemNotFound = errors.New("item not found")
	// ErrTrunkImmutable is returned for mutations aimed at the trunk.
	ErrTrunkImmutable = errors.New("trunk cannot be modified")
)

// LabelDebounce is the quiet period before an edited label is written
// through to the persistence port. The in-memory label updates immediately;
// the flush avoids one store write per keystroke.
const LabelDebounce = 500 * time.Millisecond

// =============================================================================
// TREE
// =============================================================================

// Tree is the in-memory collection of items and notes for one canvas. It is
// the sole arbiter of in-memory truth; persistence writes are issued by the
// caller fire-and-forget. All mutation is synchronous against memory.
//
// The tree itself carries no store handle. Mutations that must reach the
// persistence port surface through the LabelFlush callback and through the
// id lists returned by Remove.
type Tree struct {
	mu    sync.RWMutex
	items map[string]*Item
	notes map[string]*Note

	// LabelFlush, if set, receives debounced label edits: one call per item
	// after the quiet period elapses.
	LabelFlush func(id, label string)

	flushMu sync.Mutex
	timers  map[string]*time.Timer
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		items:  make(map[string]*Item),
		notes:  make(map[string]*Note),
		timers: make(map[string]*time.Timer),
	}
}

// =============================================================================
// ITEM ACCESS
// =============================================================================

// Add inserts an item. Existing ids are overwritten, which makes reloads
// from the store idempotent.
func (tr *Tree) Add(it *Item) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.items[it.ID] = it
}

// Get returns the item with the given id.
func (tr *Tree) Get(id string) (*Item, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	it, ok := tr.items[id]
	return it, ok
}

// Len returns the number of items (notes excluded).
func (tr *Tree) Len() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.items)
}

// Items returns all items ordered by creation time, oldest first.
func (tr *Tree) Items() []*Item {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	out := make([]*Item, 0, len(tr.items))
	for _, it := range tr.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Liked returns all liked items, oldest first. Liked survives generation
// and refresh cycles because it lives on the item itself, independent of
// tree position.
func (tr *Tree) Liked() []*Item {
	var out []*Item
	for _, it := range tr.Items() {
		if it.Liked {
			out = append(out, it)
		}
	}
	return out
}

// ChildrenOf returns the direct children of the given id (TrunkID for the
// trunk's children), oldest first.
func (tr *Tree) ChildrenOf(id string) []*Item {
	var out []*Item
	for _, it := range tr.Items() {
		if it.ParentID == id {
			out = append(out, it)
		}
	}
	return out
}

// ObstaclePoints returns every item position plus the trunk origin, the
// obstacle set for the open-spot search.
func (tr *Tree) ObstaclePoints() []Point {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	out := make([]Point, 0, len(tr.items)+1)
	out = append(out, Point{}) // trunk origin
	for _, it := range tr.items {
		out = append(out, it.Position)
	}
	return out
}

// =============================================================================
// MUTATION
// =============================================================================

// UpdateLabel sets an item's label in memory immediately and schedules the
// debounced write-through via LabelFlush.
func (tr *Tree) UpdateLabel(id, label string) error {
	tr.mu.Lock()
	it, ok := tr.items[id]
	if !ok {
		tr.mu.Unlock()
		return ErrItemNotFound
	}
	it.Label = label
	tr.mu.Unlock()

	tr.scheduleFlush(id, label)
	return nil
}

// ToggleLiked flips an item's liked flag and returns the new value.
func (tr *Tree) ToggleLiked(id string) (bool, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	it, ok := tr.items[id]
	if !ok {
		return false, ErrItemNotFound
	}
	it.Liked = !it.Liked
	return it.Liked, nil
}

// SetExtraContext stores one-shot generation context on an item.
func (tr *Tree) SetExtraContext(id, context string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	it, ok := tr.items[id]
	if !ok {
		return ErrItemNotFound
	}
	it.ExtraContext = context
	return nil
}

// ClearExtraContext empties an item's one-shot generation context.
func (tr *Tree) ClearExtraContext(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if it, ok := tr.items[id]; ok {
		it.ExtraContext = ""
	}
}

// Descendants returns every transitive descendant of id, breadth-first.
// The item itself is not included.
func (tr *Tree) Descendants(id string) []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.descendantsLocked(id)
}

func (tr *Tree) descendantsLocked(id string) []string {
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, it := range tr.items {
			if it.ParentID == cur {
				out = append(out, it.ID)
				queue = append(queue, it.ID)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Remove deletes an item and all its transitive descendants from memory and
// returns the removed ids, descendants first so callers can issue store
// deletes without ever leaving a dangling parent reference behind.
func (tr *Tree) Remove(id string) ([]string, error) {
	if id == TrunkID {
		return nil, ErrTrunkImmutable
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, ok := tr.items[id]; !ok {
		return nil, ErrItemNotFound
	}
	desc := tr.descendantsLocked(id)
	// Descendants first, target last.
	removed := append(desc, id)
	for _, rid := range removed {
		delete(tr.items, rid)
	}
	return removed, nil
}

// =============================================================================
// NOTES
// =============================================================================

// AddNote inserts a note.
func (tr *Tree) AddNote(n *Note) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.notes[n.ID] = n
}

// Notes returns all notes, oldest first.
func (tr *Tree) Notes() []*Note {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	out := make([]*Note, 0, len(tr.notes))
	for _, n := range tr.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// UpdateNote replaces a note's text.
func (tr *Tree) UpdateNote(id, text string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	n, ok := tr.notes[id]
	if !ok {
		return ErrItemNotFound
	}
	n.Text = text
	return nil
}

// RemoveNote deletes a note from memory.
func (tr *Tree) RemoveNote(id string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, ok := tr.notes[id]; !ok {
		return ErrItemNotFound
	}
	delete(tr.notes, id)
	return nil
}

// =============================================================================
// LABEL DEBOUNCE
// =============================================================================

// scheduleFlush (re)arms the per-item debounce timer. Timers fire on their
// own goroutine; LabelFlush implementations must be safe for that.
func (tr *Tree) scheduleFlush(id, label string) {
	tr.flushMu.Lock()
	defer tr.flushMu.Unlock()
	if t, ok := tr.timers[id]; ok {
		t.Stop()
	}
	tr.timers[id] = time.AfterFunc(LabelDebounce, func() {
		tr.flushMu.Lock()
		delete(tr.timers, id)
		flush := tr.LabelFlush
		tr.flushMu.Unlock()
		if flush != nil {
			flush(id, label)
		}
	})
}

// FlushPending fires all pending label flushes immediately. Used on
// shutdown so a quick quit does not drop the last edit.
func (tr *Tree) FlushPending() {
	tr.flushMu.Lock()
	ids := make([]string, 0, len(tr.timers))
	for id, t := range tr.timers {
		t.Stop()
		ids = append(ids, id)
	}
	tr.timers = make(map[string]*time.Timer)
	flush := tr.LabelFlush
	tr.flushMu.Unlock()

	if flush == nil {
		return
	}
	for _, id := range ids {
		if it, ok := tr.Get(id); ok {
			flush(id, it.Label)
		}
	}
}
