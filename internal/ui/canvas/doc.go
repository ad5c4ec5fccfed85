// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package canvas is the Bubble Tea view over the idea-canvas engine.
//
// The model owns a viewport, the in-memory item tree and the generation
// orchestrator, and wires them to the persistence store and the muse
// backend. Input events mutate engine state synchronously; store writes are
// issued fire-and-forget, and generation runs as asynchronous commands that
// settle back through typed messages.
//
// Rendering rasterizes the visible world into a cell buffer: grid dots and
// connectors first, notes beneath items, the focused item on top. Vertical
// distances are compressed by the terminal cell aspect so world geometry
// reads roughly isotropic on screen.
package canvas
