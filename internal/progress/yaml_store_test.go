package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "progress")
	store := NewYAMLStore(dir)

	_, err := store.Get(ctx, "user-1", KeyScore)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "user-1", KeyScore, []byte(`{"total":77,"level":"B2"}`)))
	require.NoError(t, store.Put(ctx, "user-1", KeyWords, []byte(`[{"id":"w1","interval":3}]`)))

	got, err := store.Get(ctx, "user-1", KeyScore)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":77,"level":"B2"}`, string(got))

	got, err = store.Get(ctx, "user-1", KeyWords)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"w1","interval":3}]`, string(got))

	contents, err := os.ReadFile(filepath.Join(dir, "user-1.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "level: B2")

	_, err = store.Get(ctx, "user-2", KeyScore)
	assert.ErrorIs(t, err, ErrNotFound, "users do not share documents")
}

func TestYAMLStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewYAMLStore(t.TempDir())

	var seen [][]byte
	appendOne := func(current []byte) ([]byte, error) {
		seen = append(seen, current)
		if current == nil {
			return []byte(`[1]`), nil
		}
		return []byte(`[1,2]`), nil
	}
	require.NoError(t, store.Update(ctx, "user-1", KeyHistory, appendOne))
	require.NoError(t, store.Update(ctx, "user-1", KeyHistory, appendOne))

	require.Len(t, seen, 2)
	assert.Nil(t, seen[0])
	assert.JSONEq(t, `[1]`, string(seen[1]))

	got, err := store.Get(ctx, "user-1", KeyHistory)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(got))
}

func TestYAMLStore_invalidUserID(t *testing.T) {
	store := NewYAMLStore(t.TempDir())

	for _, userID := range []string{"", "../etc/passwd", "a/b"} {
		err := store.Put(context.Background(), userID, KeyScore, []byte(`{}`))
		assert.Error(t, err, userID)
	}
}

func TestYAMLStore_Users(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	users, err := NewYAMLStore(filepath.Join(dir, "missing")).Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	store := NewYAMLStore(dir)
	require.NoError(t, store.Put(ctx, "user-2", KeyScore, []byte(`{"total":50}`)))
	require.NoError(t, store.Put(ctx, "user-1", KeyScore, []byte(`{"total":60}`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	users, err = store.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, users)
}
