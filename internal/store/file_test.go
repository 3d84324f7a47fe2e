package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "cart.lines", []byte(`[{"quantity":2}]`)))

	got, err := s.Get(ctx, "cart.lines")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":2}]`, string(got))
}

func TestFileStore_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStore_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.SetMany(ctx, map[string][]byte{
		"session.token": []byte(`"tok-1"`),
		"session.user":  []byte(`{"id":7,"name":"Alice"}`),
	}))

	// A second store on the same path sees everything the first wrote.
	s2, err := NewFileStore(path)
	require.NoError(t, err)

	token, err := s2.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, `"tok-1"`, string(token))

	user, err := s2.Get(ctx, "session.user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Alice"}`, string(user))
}

func TestFileStore_MultiKeyDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		"session.token": []byte(`"tok-1"`),
		"session.user":  []byte(`{"id":7}`),
		"cart.lines":    []byte(`[]`),
	}))

	require.NoError(t, s.Delete(ctx, "session.token", "session.user"))

	_, err = s.Get(ctx, "session.token")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = s.Get(ctx, "session.user")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Unrelated keys are untouched.
	_, err = s.Get(ctx, "cart.lines")
	assert.NoError(t, err)
}

func TestFileStore_MissingFileMeansEmptyStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
