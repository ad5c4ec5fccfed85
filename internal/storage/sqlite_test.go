// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*SQLiteStore, Scope) {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "canopy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	p, err := s.CreateProject(context.Background(), "dana", "grid ideas", "renewable microgrids")
	require.NoError(t, err)
	return s, Scope{Owner: "dana", Project: p.ID}
}

func TestSQLiteStore_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s, scope := openTestStore(t)

	p, err := s.GetProject(ctx, "dana", scope.Project)
	require.NoError(t, err)
	assert.Equal(t, "grid ideas", p.Name)
	assert.Equal(t, "renewable microgrids", p.Topic)

	list, err := s.ListProjects(ctx, "dana")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Other owners see nothing.
	list, err = s.ListProjects(ctx, "sam")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = s.GetProject(ctx, "sam", scope.Project)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListProjectsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	time.Sleep(2 * time.Millisecond)
	newer, err := s.CreateProject(ctx, "dana", "compost routes", "urban composting")
	require.NoError(t, err)

	list, err := s.ListProjects(ctx, "dana")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, "grid ideas", list[1].Name)
}

func TestSQLiteStore_ItemCRUD(t *testing.T) {
	ctx := context.Background()
	s, scope := openTestStore(t)

	rec, err := s.CreateItem(ctx, scope, NewItem{
		Kind: "leaf", Label: "community storage", ParentID: "trunk", X: 120, Y: -260,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Liked)

	label := "community battery storage"
	liked := true
	require.NoError(t, s.UpdateItem(ctx, scope, rec.ID, ItemPatch{Label: &label, Liked: &liked}))

	items, err := s.ListItems(ctx, scope)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, label, items[0].Label)
	assert.True(t, items[0].Liked)
	assert.Equal(t, "trunk", items[0].ParentID)
	assert.Equal(t, 120.0, items[0].X)

	require.NoError(t, s.DeleteItem(ctx, scope, rec.ID))
	items, err = s.ListItems(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, s.DeleteItem(ctx, scope, rec.ID), ErrNotFound)
	assert.ErrorIs(t, s.UpdateItem(ctx, scope, rec.ID, ItemPatch{Label: &label}), ErrNotFound)
}

func TestSQLiteStore_ScopeIsolation(t *testing.T) {
	ctx := context.Background()
	s, scope := openTestStore(t)

	other, err := s.CreateProject(ctx, "sam", "other canvas", "birdwatching")
	require.NoError(t, err)
	otherScope := Scope{Owner: "sam", Project: other.ID}

	mine, err := s.CreateItem(ctx, scope, NewItem{Kind: "leaf", Label: "mine"})
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, otherScope, NewItem{Kind: "leaf", Label: "theirs"})
	require.NoError(t, err)

	// Wrong owner on a valid project id is refused outright.
	_, err = s.ListItems(ctx, Scope{Owner: "sam", Project: scope.Project})
	assert.ErrorIs(t, err, ErrNotFound)

	// Item ids do not cross scopes.
	assert.ErrorIs(t, s.DeleteItem(ctx, otherScope, mine.ID), ErrNotFound)

	items, err := s.ListItems(ctx, scope)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Label)
}

func TestSQLiteStore_InvalidScope(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	_, err := s.ListItems(ctx, Scope{Owner: "dana"})
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = s.CreateItem(ctx, Scope{Project: "p"}, NewItem{Kind: "leaf"})
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSQLiteStore_NoteCRUD(t *testing.T) {
	ctx := context.Background()
	s, scope := openTestStore(t)

	rec, err := s.CreateNote(ctx, scope, NewNote{X: 10, Y: 20, Text: "call the co-op"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateNote(ctx, scope, rec.ID, "call the co-op tuesday"))

	notes, err := s.ListNotes(ctx, scope)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "call the co-op tuesday", notes[0].Text)

	require.NoError(t, s.DeleteNote(ctx, scope, rec.ID))
	assert.ErrorIs(t, s.DeleteNote(ctx, scope, rec.ID), ErrNotFound)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "canopy.db")

	s, err := Open(path)
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, "dana", "grid ideas", "grids")
	require.NoError(t, err)
	scope := Scope{Owner: "dana", Project: p.ID}
	_, err = s.CreateItem(ctx, scope, NewItem{Kind: "branch", Label: "policy", Manual: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	items, err := s.ListItems(ctx, scope)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "policy", items[0].Label)
	assert.True(t, items[0].Manual)
}
