package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns every backend that can run without external services.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	sq, err := OpenSQLite(ctx, filepath.Join(dir, DefaultSQLiteName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	out := map[string]Store{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(dir, DefaultFileName)),
		"sqlite": sq,
	}
	if addr := os.Getenv("BREACHTRACK_TEST_REDIS_ADDR"); addr != "" {
		r, err := OpenRedis(ctx, RedisOptions{Addr: addr, Prefix: "breachtrack-test:" + t.Name() + ":"})
		require.NoError(t, err)
		t.Cleanup(func() { _ = r.Close() })
		out["redis"] = r
	}
	return out
}

func TestBackends_GetSet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "a", []byte(`{"x":true}`)))
			require.NoError(t, s.Set(ctx, "b", []byte(`"dark"`)))
			require.NoError(t, s.Set(ctx, "a", []byte(`{"x":false}`)))

			a, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"x":false}`, string(a))

			b, err := s.Get(ctx, "b")
			require.NoError(t, err)
			assert.JSONEq(t, `"dark"`, string(b))
		})
	}
}

func TestGetJSON_DefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	got := map[string]bool{"keep": true}
	found, err := GetJSON(ctx, s, "nope", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, map[string]bool{"keep": true}, got)

	require.NoError(t, SetJSON(ctx, s, "k", map[string]bool{"a.com": true}))
	var back map[string]bool
	found, err = GetJSON(ctx, s, "k", &back)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]bool{"a.com": true}, back)
}

func TestFile_KeysSurviveEachOther(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	// Two handles on the same file behave like two processes.
	one, two := NewFile(path), NewFile(path)
	require.NoError(t, one.Set(ctx, "checklist", []byte(`{"a.com":true}`)))
	require.NoError(t, two.Set(ctx, "notes", []byte(`{"a.com":"hi"}`)))

	v, err := one.Get(ctx, "checklist")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.com":true}`, string(v))
}

func TestFile_RejectsNonJSON(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "state.json"))
	err := s.Set(context.Background(), "k", []byte("not json"))
	require.Error(t, err)
}

func TestFile_CorruptFileSurfacesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	_, err := NewFile(path).Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"})
	require.Error(t, err)
}

func TestOpen_DefaultsToFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	f, ok := s.(*File)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), f.Path())
}

func TestOpenRedis_EmptyAddr(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisOptions{})
	require.Error(t, err)
}
