// Package config loads the engine's TOML-driven configuration (store
// path, durability mode, cache file): a thin struct decoded by
// github.com/BurntSushi/toml with sane zero-value defaults applied
// afterwards.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the top-level document shape for an engine config file.
type Config struct {
	Store Store `toml:"store"`
	Cache Cache `toml:"cache"`
}

// Store selects and configures the KV store backend.
type Store struct {
	// Durability is either "memory" (non-durable, in-process) or
	// "sqlite" (durable, file-backed).
	Durability string `toml:"durability"`
	// Path is the sqlite database file; required when Durability is
	// "sqlite", ignored otherwise.
	Path string `toml:"path"`
}

// Cache configures the result cache's optional file persistence.
type Cache struct {
	// File is the path Save/Load use when the CLI is told to persist
	// the cache across process restarts. Empty disables persistence.
	File string `toml:"file"`
}

// Default returns the configuration used when no file is supplied: an
// in-memory store and no cache persistence.
func Default() Config {
	return Config{Store: Store{Durability: "memory"}}
}

// Load reads and decodes the TOML config file at path, filling in
// Default()'s zero values for anything the file leaves unset.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot act on.
func (c Config) Validate() error {
	switch c.Store.Durability {
	case "memory":
		return nil
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("config: store.durability = \"sqlite\" requires store.path")
		}
		return nil
	default:
		return fmt.Errorf("config: unknown store.durability %q (want \"memory\" or \"sqlite\")", c.Store.Durability)
	}
}
