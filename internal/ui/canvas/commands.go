// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/logging"
	"github.com/jeranaias/canopy-tui/internal/muse"
	"github.com/jeranaias/canopy-tui/internal/storage"
)

// frameInterval is the display frame cadence while a transition or decay is
// in flight. PERFORMANCE: ticks stop entirely when nothing is animating.
const frameInterval = 33 * time.Millisecond

// frameTick schedules the next display frame.
func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg{at: t}
	})
}

// =============================================================================
// STORE COMMANDS
// =============================================================================

// loadCanvas reads the project record plus all its items and notes.
func loadCanvas(store storage.Store, scope storage.Scope) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		project, err := store.GetProject(ctx, scope.Owner, scope.Project)
		if err != nil {
			return canvasLoadedMsg{err: err}
		}
		items, err := store.ListItems(ctx, scope)
		if err != nil {
			return canvasLoadedMsg{project: project, err: err}
		}
		notes, err := store.ListNotes(ctx, scope)
		if err != nil {
			return canvasLoadedMsg{project: project, items: items, err: err}
		}
		return canvasLoadedMsg{project: project, items: items, notes: notes}
	}
}

// createItem persists a new item and reports the minted record.
func createItem(store storage.Store, scope storage.Scope, item storage.NewItem) tea.Cmd {
	return func() tea.Msg {
		rec, err := store.CreateItem(context.Background(), scope, item)
		return itemCreatedMsg{rec: rec, err: err}
	}
}

// createNote persists a new note and reports the minted record.
func createNote(store storage.Store, scope storage.Scope, note storage.NewNote) tea.Cmd {
	return func() tea.Msg {
		rec, err := store.CreateNote(context.Background(), scope, note)
		return noteCreatedMsg{rec: rec, err: err}
	}
}

// patchItem writes a partial item update fire-and-forget. Memory already
// holds the new value; a failure only produces a notice.
func patchItem(store storage.Store, scope storage.Scope, id string, patch storage.ItemPatch) tea.Cmd {
	return func() tea.Msg {
		if err := store.UpdateItem(context.Background(), scope, id, patch); err != nil {
			logging.For("store").Error("item update failed", "id", id, "error", err)
			return persistFailedMsg{action: "update", err: err}
		}
		return nil
	}
}

// deleteItems removes a batch of ids from the store, descendants first. The
// ids arrive already ordered by the in-memory cascade.
func deleteItems(store storage.Store, scope storage.Scope, ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		for _, id := range ids {
			if err := store.DeleteItem(ctx, scope, id); err != nil {
				logging.For("store").Error("item delete failed", "id", id, "error", err)
				return persistFailedMsg{action: "delete", err: err}
			}
		}
		return nil
	}
}

// deleteNote removes one note from the store.
func deleteNote(store storage.Store, scope storage.Scope, id string) tea.Cmd {
	return func() tea.Msg {
		if err := store.DeleteNote(context.Background(), scope, id); err != nil {
			logging.For("store").Error("note delete failed", "id", id, "error", err)
			return persistFailedMsg{action: "delete", err: err}
		}
		return nil
	}
}

// switchProject finds the named project for the owner or creates it, using
// the name itself as the initial topic.
func switchProject(store storage.Store, owner, name string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := store.ListProjects(ctx, owner)
		if err != nil {
			return projectSwitchedMsg{err: err}
		}
		for _, p := range projects {
			if p.Name == name {
				return projectSwitchedMsg{project: p}
			}
		}
		p, err := store.CreateProject(ctx, owner, name, name)
		return projectSwitchedMsg{project: p, err: err}
	}
}

// =============================================================================
// GENERATION COMMANDS
// =============================================================================

// generate runs one generation call against the backend. The backend applies
// its own call timeout; failures surface as a settled operation with an
// error, never partial data.
func generate(gen muse.Generator, op engine.OpID, kind engine.OpKind, parentID string, req muse.Request) tea.Cmd {
	return func() tea.Msg {
		log := logging.For("muse")
		if err := muse.Validate(req); err != nil {
			return generationDoneMsg{op: op, kind: kind, parentID: parentID, err: err}
		}
		start := time.Now()
		result, err := gen.Generate(context.Background(), req)
		if err != nil {
			log.Warn("generation failed",
				"backend", gen.Name(), "op", kind.String(), "error", err)
			return generationDoneMsg{op: op, kind: kind, parentID: parentID, err: err}
		}
		log.Debug("generation done",
			"backend", gen.Name(), "op", kind.String(),
			"labels", len(result.Labels), "took", time.Since(start))
		return generationDoneMsg{op: op, kind: kind, parentID: parentID, result: result}
	}
}
