package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/breachtrack/internal/kv"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BREACHTRACK_BACKEND", "BREACHTRACK_DATA_DIR", "BREACHTRACK_REDIS_ADDR",
		"BREACHTRACK_REDIS_PASSWORD", "BREACHTRACK_REDIS_DB", "BREACHTRACK_CATALOG",
		"BREACHTRACK_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, kv.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.NoteDebounce)
	assert.True(t, cfg.Catalog.Watch)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: SQLite
  data_dir: /tmp/bt
ui:
  note_debounce: 1s
logging:
  level: info
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, kv.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/bt", cfg.Storage.DataDir)
	assert.Equal(t, time.Second, cfg.UI.NoteDebounce)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce, "unset keys keep defaults")

	t.Setenv("BREACHTRACK_BACKEND", "redis")
	t.Setenv("BREACHTRACK_REDIS_ADDR", "cache:6380")
	t.Setenv("BREACHTRACK_REDIS_DB", "2")
	t.Setenv("BREACHTRACK_LOG_LEVEL", "debug")
	t.Setenv("BREACHTRACK_CATALOG", "/etc/domains.yaml")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, kv.BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/etc/domains.yaml", cfg.Catalog.Path)

	opts := cfg.KVOptions()
	assert.Equal(t, "cache:6380", opts.Redis.Addr)
	assert.Equal(t, "breachtrack:", opts.Redis.Prefix)
}

func TestLoad_Rejects(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("storage: [1, 2"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "failed to parse config")

	t.Setenv("BREACHTRACK_BACKEND", "postgres")
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "invalid storage backend")

	t.Setenv("BREACHTRACK_BACKEND", "")
	t.Setenv("BREACHTRACK_REDIS_DB", "zero")
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "BREACHTRACK_REDIS_DB")
}

func TestSave_RoundTrips(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Backend = kv.BackendMemory
	cfg.UI.SearchDebounce = 150 * time.Millisecond
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaultDataDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	assert.Equal(t, filepath.Join("/xdg/data", "breachtrack"), DefaultDataDir())

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/xdg/data", "breachtrack", "breachtrack.log"), cfg.LogFile())
}
