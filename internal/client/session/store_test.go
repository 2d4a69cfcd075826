package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	sess := &Session{
		Token:      "token-123",
		Expiration: time.Now().Add(2 * time.Hour).UTC(),
		Username:   "gopher",
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-123", got.Token)
	assert.Equal(t, "gopher", got.Username)
	assert.WithinDuration(t, sess.Expiration, got.Expiration, time.Second)
}

func TestStore_Get_NoSession(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Save_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, &Session{Token: "old", Expiration: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, &Session{Token: "new", Expiration: time.Now().Add(time.Hour)}))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
}

func TestStore_Current_Valid(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, &Session{
		Token:      "token-123",
		Expiration: time.Now().Add(time.Hour),
		Username:   "gopher",
	}))

	sess, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-123", sess.Token)
}

func TestStore_Current_Expired(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, &Session{
		Token:      "token-123",
		Expiration: time.Now().Add(-time.Minute),
		Username:   "gopher",
	}))

	// Просроченный токен эквивалентен выходу
	_, err := store.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, &Session{Token: "token", Expiration: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	// Повторный Clear — no-op
	assert.NoError(t, store.Clear(ctx))
}

func TestSession_Expired(t *testing.T) {
	assert.False(t, (&Session{Expiration: time.Now().Add(time.Minute)}).Expired())
	assert.True(t, (&Session{Expiration: time.Now().Add(-time.Minute)}).Expired())
}
