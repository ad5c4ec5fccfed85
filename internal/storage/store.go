// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides canvas persistence: projects, items and notes,
// scoped by an owning user and project pair. The engine treats this as an
// opaque port; ids are minted here at creation time.
package storage

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a record does not exist in the scope.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidScope is returned when the owner/project pair is incomplete.
	ErrInvalidScope = errors.New("invalid scope")
)

// =============================================================================
// RECORDS
// =============================================================================

// Scope is the owning-user and project identifier pair every call is
// scoped by. Ids are never assumed unique across scopes.
type Scope struct {
	Owner   string
	Project string
}

// Valid reports whether both scope halves are set.
func (s Scope) Valid() bool {
	return s.Owner != "" && s.Project != ""
}

// Project is a saved canvas with its topic context.
type Project struct {
	ID        string
	Owner     string
	Name      string
	Topic     string
	CreatedAt time.Time
}

// ItemRecord is a persisted canvas node.
type ItemRecord struct {
	ID        string
	Kind      string
	Label     string
	ParentID  string // another item id, "trunk", or empty
	X         float64
	Y         float64
	Liked     bool
	Manual    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem carries the fields for item creation; the store assigns the id.
type NewItem struct {
	Kind     string
	Label    string
	ParentID string
	X        float64
	Y        float64
	Manual   bool
}

// ItemPatch carries partial item updates; nil fields are left untouched.
type ItemPatch struct {
	Label *string
	Liked *bool
}

// NoteRecord is a persisted freeform note.
type NoteRecord struct {
	ID        string
	X         float64
	Y         float64
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote carries the fields for note creation.
type NewNote struct {
	X    float64
	Y    float64
	Text string
}

// =============================================================================
// STORE
// =============================================================================

// Store is the persistence port consumed by the canvas engine.
type Store interface {
	// Projects
	CreateProject(ctx context.Context, owner, name, topic string) (Project, error)
	ListProjects(ctx context.Context, owner string) ([]Project, error)
	GetProject(ctx context.Context, owner, id string) (Project, error)

	// Items
	CreateItem(ctx context.Context, scope Scope, item NewItem) (ItemRecord, error)
	ListItems(ctx context.Context, scope Scope) ([]ItemRecord, error)
	UpdateItem(ctx context.Context, scope Scope, id string, patch ItemPatch) error
	DeleteItem(ctx context.Context, scope Scope, id string) error

	// Notes
	CreateNote(ctx context.Context, scope Scope, note NewNote) (NoteRecord, error)
	ListNotes(ctx context.Context, scope Scope) ([]NoteRecord, error)
	UpdateNote(ctx context.Context, scope Scope, id, text string) error
	DeleteNote(ctx context.Context, scope Scope, id string) error

	// Close releases the underlying database.
	Close() error
}
