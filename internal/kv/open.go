package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Options struct {
	Backend string
	Dir     string // data directory for file/sqlite
	Redis   RedisOptions
}

// Open builds the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return NewFile(filepath.Join(opts.Dir, DefaultFileName)), nil
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(opts.Dir, DefaultSQLiteName))
	case BackendRedis:
		return OpenRedis(ctx, opts.Redis)
	}
	return nil, fmt.Errorf("kv: unknown backend %q (want file|sqlite|redis|memory)", opts.Backend)
}
