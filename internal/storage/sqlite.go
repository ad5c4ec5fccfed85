// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultPath returns the default database location, ~/.canopy/canopy.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".canopy", "canopy.db"), nil
}

// Open opens (creating if needed) the canvas database at path.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		owner      TEXT NOT NULL,
		name       TEXT NOT NULL,
		topic      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner);

	CREATE TABLE IF NOT EXISTS items (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id  TEXT NOT NULL DEFAULT '',
		kind       TEXT NOT NULL,
		label      TEXT NOT NULL,
		x          REAL NOT NULL,
		y          REAL NOT NULL,
		liked      INTEGER NOT NULL DEFAULT 0,
		manual     INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id);

	CREATE TABLE IF NOT EXISTS notes (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		x          REAL NOT NULL,
		y          REAL NOT NULL,
		body       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notes_project ON notes(project_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

// CreateProject implements Store.
func (s *SQLiteStore) CreateProject(ctx context.Context, owner, name, topic string) (Project, error) {
	if owner == "" || strings.TrimSpace(name) == "" {
		return Project{}, ErrInvalidScope
	}
	p := Project{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      strings.TrimSpace(name),
		Topic:     strings.TrimSpace(topic),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner, name, topic, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Owner, p.Name, p.Topic, p.CreatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// ListProjects implements Store. Projects come back newest first, so the
// front of the list is the one to reopen by default.
func (s *SQLiteStore) ListProjects(ctx context.Context, owner string) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, name, topic, created_at FROM projects WHERE owner = ? ORDER BY created_at DESC`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Owner, &p.Name, &p.Topic, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProject implements Store.
func (s *SQLiteStore) GetProject(ctx context.Context, owner, id string) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner, name, topic, created_at FROM projects WHERE owner = ? AND id = ?`,
		owner, id).Scan(&p.ID, &p.Owner, &p.Name, &p.Topic, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// projectInScope verifies scope ownership before any item/note operation.
func (s *SQLiteStore) projectInScope(ctx context.Context, scope Scope) error {
	if !scope.Valid() {
		return ErrInvalidScope
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM projects WHERE id = ? AND owner = ?`,
		scope.Project, scope.Owner).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// =============================================================================
// ITEMS
// =============================================================================

// CreateItem implements Store.
func (s *SQLiteStore) CreateItem(ctx context.Context, scope Scope, item NewItem) (ItemRecord, error) {
	if err := s.projectInScope(ctx, scope); err != nil {
		return ItemRecord{}, err
	}
	now := time.Now().UTC()
	rec := ItemRecord{
		ID:        uuid.NewString(),
		Kind:      item.Kind,
		Label:     item.Label,
		ParentID:  item.ParentID,
		X:         item.X,
		Y:         item.Y,
		Manual:    item.Manual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, project_id, parent_id, kind, label, x, y, liked, manual, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		rec.ID, scope.Project, rec.ParentID, rec.Kind, rec.Label, rec.X, rec.Y,
		boolInt(rec.Manual), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return ItemRecord{}, fmt.Errorf("failed to create item: %w", err)
	}
	return rec, nil
}

// ListItems implements Store.
func (s *SQLiteStore) ListItems(ctx context.Context, scope Scope) ([]ItemRecord, error) {
	if err := s.projectInScope(ctx, scope); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id, kind, label, x, y, liked, manual, created_at, updated_at
		 FROM items WHERE project_id = ? ORDER BY created_at, id`,
		scope.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var out []ItemRecord
	for rows.Next() {
		var rec ItemRecord
		var liked, manual int
		if err := rows.Scan(&rec.ID, &rec.ParentID, &rec.Kind, &rec.Label,
			&rec.X, &rec.Y, &liked, &manual, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Liked = liked != 0
		rec.Manual = manual != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateItem implements Store.
func (s *SQLiteStore) UpdateItem(ctx context.Context, scope Scope, id string, patch ItemPatch) error {
	if err := s.projectInScope(ctx, scope); err != nil {
		return err
	}
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if patch.Label != nil {
		sets = append(sets, "label = ?")
		args = append(args, *patch.Label)
	}
	if patch.Liked != nil {
		sets = append(sets, "liked = ?")
		args = append(args, boolInt(*patch.Liked))
	}
	args = append(args, id, scope.Project)

	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ? AND project_id = ?`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return requireRow(res)
}

// DeleteItem implements Store. Cascading over descendants is the engine's
// responsibility; the store deletes exactly the id given.
func (s *SQLiteStore) DeleteItem(ctx context.Context, scope Scope, id string) error {
	if err := s.projectInScope(ctx, scope); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND project_id = ?`, id, scope.Project)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// NOTES
// =============================================================================

// CreateNote implements Store.
func (s *SQLiteStore) CreateNote(ctx context.Context, scope Scope, note NewNote) (NoteRecord, error) {
	if err := s.projectInScope(ctx, scope); err != nil {
		return NoteRecord{}, err
	}
	now := time.Now().UTC()
	rec := NoteRecord{
		ID:        uuid.NewString(),
		X:         note.X,
		Y:         note.Y,
		Text:      note.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, project_id, x, y, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, scope.Project, rec.X, rec.Y, rec.Text, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return NoteRecord{}, fmt.Errorf("failed to create note: %w", err)
	}
	return rec, nil
}

// ListNotes implements Store.
func (s *SQLiteStore) ListNotes(ctx context.Context, scope Scope) ([]NoteRecord, error) {
	if err := s.projectInScope(ctx, scope); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, x, y, body, created_at, updated_at
		 FROM notes WHERE project_id = ? ORDER BY created_at, id`,
		scope.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRecord
	for rows.Next() {
		var rec NoteRecord
		if err := rows.Scan(&rec.ID, &rec.X, &rec.Y, &rec.Text,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateNote implements Store.
func (s *SQLiteStore) UpdateNote(ctx context.Context, scope Scope, id, text string) error {
	if err := s.projectInScope(ctx, scope); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET body = ?, updated_at = ? WHERE id = ? AND project_id = ?`,
		text, time.Now().UTC(), id, scope.Project)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireRow(res)
}

// DeleteNote implements Store.
func (s *SQLiteStore) DeleteNote(ctx context.Context, scope Scope, id string) error {
	if err := s.projectInScope(ctx, scope); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND project_id = ?`, id, scope.Project)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// HELPERS
// =============================================================================

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow converts zero affected rows into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
