package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	testCases := []struct {
		name  string
		store func(t *testing.T) Store
	}{
		{
			name: "file",
			store: func(t *testing.T) Store {
				return NewFileStore(filepath.Join(t.TempDir(), "nested", "storage.json"))
			},
		},
		{
			name: "redis",
			store: func(t *testing.T) Store {
				mr := miniredis.RunT(t)
				return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			s := tc.store(t)

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "k", "[1,2]"))
			require.NoError(t, s.Set(ctx, "other", "x"))
			v, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[1,2]", v)

			require.NoError(t, s.Set(ctx, "k", "[]"))
			v, _, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "[]", v)
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	require.NoError(t, NewFileStore(path).Set(ctx, "github-bookmarks", "[7]"))

	v, ok, err := NewFileStore(path).Get(ctx, "github-bookmarks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[7]", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStore(path).Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := DialRedis(context.Background(), mr.Addr(), 0)
	require.NoError(t, err)
	defer s.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = DialRedis(context.Background(), addr, 0)
	assert.Error(t, err)
}
