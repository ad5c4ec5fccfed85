// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"time"

	engine "github.com/jeranaias/canopy-tui/internal/canvas"
	"github.com/jeranaias/canopy-tui/internal/config"
	"github.com/jeranaias/canopy-tui/internal/muse"
	"github.com/jeranaias/canopy-tui/internal/storage"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// frameTickMsg drives viewport transitions and the edge-flash decay. Ticks
// are only scheduled while something actually needs frames.
type frameTickMsg struct {
	at time.Time
}

// canvasLoadedMsg carries the persisted state of a project after startup or
// a project switch.
type canvasLoadedMsg struct {
	project storage.Project
	items   []storage.ItemRecord
	notes   []storage.NoteRecord
	err     error
}

// itemCreatedMsg carries a freshly persisted item. The tree is only grown
// once the store has minted the id.
type itemCreatedMsg struct {
	rec storage.ItemRecord
	err error
}

// noteCreatedMsg carries a freshly persisted note.
type noteCreatedMsg struct {
	rec storage.NoteRecord
	err error
}

// generationDoneMsg carries the outcome of one generation call, success or
// failure. parentID is empty for bootstrap batches.
type generationDoneMsg struct {
	op       engine.OpID
	kind     engine.OpKind
	parentID string
	result   muse.Result
	err      error
}

// persistFailedMsg surfaces a fire-and-forget write that did not stick.
// In-memory state stays authoritative; the user just gets told.
type persistFailedMsg struct {
	action string
	err    error
}

// projectSwitchedMsg carries the project record after a switch-or-create.
type projectSwitchedMsg struct {
	project storage.Project
	err     error
}

// configReloadedMsg is sent by the config watcher when the file on disk
// changes under a running session.
type configReloadedMsg struct {
	cfg *config.Config
}

// ConfigReloaded wraps a reloaded config for delivery via Program.Send.
func ConfigReloaded(cfg *config.Config) interface{} {
	return configReloadedMsg{cfg: cfg}
}
