// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists canopy projects, items, and notes.
//
// All reads and writes are scoped to an owner and a project so a single
// database file can hold any number of canvases. The in-memory tree is
// authoritative during a session; the store is the durable record.
//
// # Key Types
//
//   - Store: the persistence interface the UI and tests program against
//   - SQLiteStore: the SQLite-backed implementation
//   - Scope: the owner/project pair every row is keyed by
//
// # Usage
//
// Open a database and work inside a scope:
//
//	store, err := storage.Open(path)
//	items, err := store.ListItems(ctx, scope)
//
// # Storage Location
//
// The default database lives at ~/.canopy/canopy.db.
package storage
