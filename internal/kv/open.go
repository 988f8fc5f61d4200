package kv

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists every backend name in display order.
var Backends = []string{BackendSQLite, BackendBadger, BackendRedis, BackendFile, BackendMemory}

// Config selects and configures a backend.
type Config struct {
	Backend string
	Path    string // database file (sqlite) or directory (badger, file)
	Redis   RedisConfig
}

// Open creates a Store based on the backend configuration. An empty
// backend selects SQLite.
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendSQLite
	}
	switch backend {
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		st, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendBadger:
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger backend requires a path")
		}
		st, err := OpenBadger(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		st, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		st, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (available: %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
}
