package settings

import (
	"context"
	"fmt"
)

const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

type StoreConfig struct {
	Backend string
	Path    string
	// DefaultModel is used when no model entry exists.
	DefaultModel string
	// SeedAPIKey is written to the store when it holds no key yet.
	SeedAPIKey string
}

// Open returns the configured backend wrapped in a Cached store.
func Open(ctx context.Context, cfg StoreConfig) (*Cached, error) {
	defaults := Defaults(cfg.DefaultModel)

	var store Store
	switch cfg.Backend {
	case "", BackendYAML:
		store = NewFileStore(cfg.Path, defaults)
	case BackendSQLite:
		s, err := NewSQLiteStore(cfg.Path, defaults)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	cached := NewCached(store)
	if cfg.SeedAPIKey == "" {
		return cached, nil
	}

	current, err := cached.Load(ctx)
	if err != nil {
		cached.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if current.APIKey == "" {
		if err := cached.SetAPIKey(ctx, cfg.SeedAPIKey); err != nil {
			cached.Close()
			return nil, fmt.Errorf("seed api key: %w", err)
		}
	}
	return cached, nil
}
