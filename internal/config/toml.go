// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Store   StoreConfig   `toml:"store"`
	Log     LogConfig     `toml:"log"`
	Session SessionConfig `toml:"session"`
}

// StoreConfig maps storage settings.
type StoreConfig struct {
	Backend       *string `toml:"backend"`
	Path          *string `toml:"path"`
	Key           *string `toml:"key"`
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
	RedisPrefix   *string `toml:"redis-prefix"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// SessionConfig maps defaults for timed and manually added sessions.
type SessionConfig struct {
	Category *string `toml:"category"`
	Speaker  *string `toml:"speaker"`
	Minutes  *int    `toml:"minutes"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `medilog config` when no config file exists.
const Template = `# medilog configuration

[store]
# backend = "sqlite"        # sqlite, badger, redis, file, memory
# path = ""                 # database file or directory, defaults under $XDG_DATA_HOME/medilog
# key = "meditationLog"
# redis-addr = "localhost:6379"
# redis-password = ""
# redis-db = 0
# redis-prefix = "medilog:"

[log]
# level = "warn"            # debug, info, warn, error

[session]
# category = "Mindfulness"
# speaker = "Self"
# minutes = 20
`
