package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

type item struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// failingBackend rejects every write
type failingBackend struct {
	*EKVBackend
	writes int
}

func (f *failingBackend) Set(context.Context, string, []byte) error {
	f.writes++
	return errors.New("quota exceeded")
}

func TestLoadAndSave(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend, zerolog.Nop())

	t.Run("absent key returns default", func(t *testing.T) {
		got := Load(ctx, store, KeyResources, []item{})
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("round trip", func(t *testing.T) {
		in := []item{{ID: "r1", Title: "DSA notes", Tags: []string{"dsa"}}}
		require.NoError(t, store.Write(ctx, KeyResources, in))

		out := Load(ctx, store, KeyResources, []item(nil))
		assert.Equal(t, in, out)
		_, err := backend.Get(ctx, KeyResources)
		assert.NoError(t, err)
	})

	t.Run("corrupt value returns default", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, KeyTopics, []byte("{not json")))

		got := Load(ctx, store, KeyTopics, []item{{ID: "fallback"}})
		require.Len(t, got, 1)
		assert.Equal(t, "fallback", got[0].ID)
	})

	t.Run("remove", func(t *testing.T) {
		store.Save(ctx, KeyTheme, "dark")
		assert.Equal(t, "dark", Load(ctx, store, KeyTheme, "light"))

		store.Remove(ctx, KeyTheme)
		assert.Equal(t, "light", Load(ctx, store, KeyTheme, "light"))
		// deleting twice is fine
		store.Remove(ctx, KeyTheme)
	})
}

func TestWriteFailures(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{EKVBackend: NewMemoryBackend()}
	store := NewStore(backend, zerolog.Nop())

	err := store.Write(ctx, KeyNotices, []item{{ID: "n1"}})
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	// Save swallows the error
	assert.NotPanics(t, func() { store.Save(ctx, KeyNotices, []item{{ID: "n2"}}) })
	assert.Equal(t, 2, backend.writes)

	err = store.Write(ctx, KeyNotices, func() {})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	assert.Equal(t, "memory", b.Name())

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	data, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	require.NoError(t, b.Set(ctx, "k", []byte(`{"id":"u1"}`)))
	data, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(data))

	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, b.Close())
}

func TestFileBackendPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileBackend(dir, "pw")
	require.NoError(t, err)
	require.NoError(t, NewStore(first, zerolog.Nop()).Write(ctx, KeyUsers, []item{{ID: "u1"}}))

	second, err := NewFileBackend(dir, "pw")
	require.NoError(t, err)
	got := Load(ctx, NewStore(second, zerolog.Nop()), KeyUsers, []item(nil))
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ID)
}
