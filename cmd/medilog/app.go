package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/medilog/internal/config"
	"github.com/verte-zerg/medilog/internal/kv"
	mlog "github.com/verte-zerg/medilog/internal/log"
	"github.com/verte-zerg/medilog/internal/recordstore"
)

const openTimeout = 10 * time.Second

type storeOptions struct {
	backend   string
	path      string
	key       string
	redisAddr string
}

// application bundles the opened backend and the record store on top of it.
type application struct {
	config  kv.Config
	backend kv.Store
	records *recordstore.Store
	base    zerolog.Logger
	logger  zerolog.Logger

	// failure holds the last error reported by the record store observer.
	failure error
}

func openApp(cmd *cobra.Command, fileCfg config.FileConfig) (*application, error) {
	base := newLogger(cmd, fileCfg)
	logger := componentLogger(base, "cli")

	kvCfg, key := resolveStoreConfig(cmd, fileCfg)
	ctx, cancel := context.WithTimeout(commandContext(cmd), openTimeout)
	defer cancel()
	backend, err := kv.Open(ctx, kvCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", kvCfg.Backend, err)
	}
	logger.Debug().Str("backend", kvCfg.Backend).Str("path", kvCfg.Path).Str("key", key).Msg("store opened")

	a := &application{config: kvCfg, backend: backend, base: base, logger: logger}
	a.records = recordstore.New(backend,
		recordstore.WithKey(key),
		recordstore.WithLogger(componentLogger(base, "recordstore")),
		recordstore.WithObserver(a.observe),
	)
	return a, nil
}

func (a *application) observe(ev recordstore.Event) {
	switch ev.Kind {
	case recordstore.EventWriteFailed:
		a.failure = ev.Err
	case recordstore.EventCorrupt:
		a.logger.Warn().Err(ev.Err).Str("key", ev.Key).Msg("stored history is unreadable and will be replaced on the next save")
	}
}

// watchDir returns the directory holding the on-disk store, or "" for
// backends that live elsewhere.
func (a *application) watchDir() string {
	switch a.config.Backend {
	case kv.BackendSQLite:
		return filepath.Dir(a.config.Path)
	case kv.BackendBadger, kv.BackendFile:
		return a.config.Path
	default:
		return ""
	}
}

func (a *application) close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close store")
	}
}

func resolveStoreConfig(cmd *cobra.Command, fileCfg config.FileConfig) (kv.Config, string) {
	opts := storeFlags
	applyStringConfig(cmd, "store", &opts.backend, fileCfg.Store.Backend)
	applyStringConfig(cmd, "store-path", &opts.path, fileCfg.Store.Path)
	applyStringConfig(cmd, "store-key", &opts.key, fileCfg.Store.Key)
	applyStringConfig(cmd, "redis-addr", &opts.redisAddr, fileCfg.Store.RedisAddr)

	backend := strings.ToLower(strings.TrimSpace(opts.backend))
	if backend == "" {
		backend = kv.BackendSQLite
	}
	path := opts.path
	if path == "" {
		path = defaultStorePath(backend)
	}
	cfg := kv.Config{
		Backend: backend,
		Path:    path,
		Redis: kv.RedisConfig{
			Addr:   opts.redisAddr,
			Prefix: "medilog:",
		},
	}
	if v := fileCfg.Store.RedisPassword; v != nil {
		cfg.Redis.Password = *v
	}
	if v := fileCfg.Store.RedisDB; v != nil {
		cfg.Redis.DB = *v
	}
	if v := fileCfg.Store.RedisPrefix; v != nil {
		cfg.Redis.Prefix = *v
	}
	if cfg.Redis.Addr == "" && backend == kv.BackendRedis {
		cfg.Redis.Addr = "localhost:6379"
	}
	key := strings.TrimSpace(opts.key)
	if key == "" {
		key = recordstore.DefaultKey
	}
	return cfg, key
}

func defaultStorePath(backend string) string {
	switch backend {
	case kv.BackendSQLite:
		return config.DefaultDBPath()
	case kv.BackendBadger:
		return config.DefaultBadgerDir()
	case kv.BackendFile:
		return config.DefaultFileStoreDir()
	default:
		return ""
	}
}

// newLogger builds the logger for one command invocation, so the level and
// writer always follow the current flags and config file.
func newLogger(cmd *cobra.Command, fileCfg config.FileConfig) zerolog.Logger {
	level := logLevel
	if !cmd.Flags().Changed("log-level") && fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	return mlog.New(mlog.Config{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Pretty: true,
		Color:  stderrIsTerminal(),
	})
}

func (a *application) component(name string) zerolog.Logger {
	return componentLogger(a.base, name)
}

func componentLogger(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
