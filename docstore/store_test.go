package docstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercita o mesmo contrato em todos os backends.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("create then read returns the same fields", func(t *testing.T) {
		created, err := s.Add(ctx, "blog", map[string]any{
			"title":     "Primeiro post",
			"published": true,
			"id":        "ignored",
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.NotEqual(t, "ignored", created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
		assert.NotContains(t, created.Data, FieldID)

		got, err := s.Get(ctx, "blog", created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Primeiro post", got.Data["title"])
		assert.Equal(t, true, got.Data["published"])
		assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("update merges fields and keeps createdAt", func(t *testing.T) {
		created, err := s.Add(ctx, "services", map[string]any{"title": "SEO", "description": "a"})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)

		updated, err := s.Update(ctx, "services", created.ID, map[string]any{"description": "b", "createdAt": "x"})
		require.NoError(t, err)
		assert.Equal(t, "SEO", updated.Data["title"])
		assert.Equal(t, "b", updated.Data["description"])
		assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Millisecond)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("list returns only the collection", func(t *testing.T) {
		_, err := s.Add(ctx, "team", map[string]any{"name": "Ana"})
		require.NoError(t, err)
		_, err = s.Add(ctx, "team", map[string]any{"name": "Bruno"})
		require.NoError(t, err)

		docs, err := s.List(ctx, "team")
		require.NoError(t, err)
		assert.Len(t, docs, 2)

		empty, err := s.List(ctx, "portfolio")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		created, err := s.Add(ctx, "contacts", map[string]any{"email": "a@b.com"})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "contacts", created.ID))
		_, err = s.Get(ctx, "contacts", created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "contacts", created.ID), ErrNotFound)
	})

	t.Run("missing documents", func(t *testing.T) {
		_, err := s.Get(ctx, "blog", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Update(ctx, "blog", "nope", map[string]any{"a": 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid references", func(t *testing.T) {
		_, err := s.List(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyCollection)
		_, err = s.Get(ctx, "blog", "")
		assert.ErrorIs(t, err, ErrEmptyID)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d, err := s.Add(ctx, "blog", map[string]any{"title": "a"})
	require.NoError(t, err)
	d.Data["title"] = "mutated"

	got, err := s.Get(ctx, "blog", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Data["title"])
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	runStoreContract(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	d, err := s.Add(ctx, "portfolio", map[string]any{"title": "Loja", "technologies": []string{"go", "react"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "portfolio", d.ID)
	require.NoError(t, err)
	assert.Equal(t, []any{"go", "react"}, got.Data["technologies"])
}
