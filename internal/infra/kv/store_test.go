package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-reminder/internal/testutil"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	client, _ := testutil.SetupMiniredis(t)

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client),
		"sqlite": sqlite,
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

			require.NoError(t, store.Set(ctx, "reminders_Paracetamol", `["08:00","20:00"]`))

			got, err := store.Get(ctx, "reminders_Paracetamol")
			require.NoError(t, err)
			assert.Equal(t, `["08:00","20:00"]`, got)

			require.NoError(t, store.Set(ctx, "reminders_Paracetamol", `["09:00"]`))
			got, err = store.Get(ctx, "reminders_Paracetamol")
			require.NoError(t, err)
			assert.Equal(t, `["09:00"]`, got)

			require.NoError(t, store.Delete(ctx, "reminders_Paracetamol"))
			_, err = store.Get(ctx, "reminders_Paracetamol")
			assert.True(t, errors.Is(err, ErrNotFound))

			// Deleting again is not an error.
			require.NoError(t, store.Delete(ctx, "reminders_Paracetamol"))
		})
	}
}

func TestStore_KeysWithPrefix(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "reminders_b", "[]"))
			require.NoError(t, store.Set(ctx, "reminders_a*", "[]"))
			require.NoError(t, store.Set(ctx, "reminders_രാത്രി", "[]"))
			require.NoError(t, store.Set(ctx, "lastNotified_a_08:00", "2024-01-15"))
			require.NoError(t, store.Set(ctx, "remindersX", "[]"))

			keys, err := store.KeysWithPrefix(ctx, "reminders_")
			require.NoError(t, err)
			assert.Equal(t, []string{"reminders_a*", "reminders_b", "reminders_രാത്രി"}, keys)

			keys, err = store.KeysWithPrefix(ctx, "nothing_")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestStore_Ping(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, store.Ping(ctx))
		})
	}
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `reminders_\*\?\[x\]`, escapeGlob("reminders_*?[x]"))
	assert.Equal(t, `a\\b`, escapeGlob(`a\b`))
}

func TestDedupeSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupeSorted([]string{"a", "a", "b", "c", "c"}))
	assert.Equal(t, []string{}, dedupeSorted([]string{}))
}
