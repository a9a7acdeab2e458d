package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_MissingFileUsesDefaults(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"), Defaults(""))

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, got.Model)
	}
	if got.APIKey != "" {
		t.Errorf("expected no api key, got %q", got.APIKey)
	}
}

func TestFileStore_ExplicitNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("api_key: sk-abc\nmodel: null\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path, Defaults(""))

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "" {
		t.Errorf("expected explicit null to clear the model, got %q", got.Model)
	}
	if got.APIKey != "sk-abc" {
		t.Errorf("expected api key sk-abc, got %q", got.APIKey)
	}
}

func TestFileStore_SetPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := NewFileStore(path, Defaults(""))

	if err := store.SetAPIKey(ctx, "sk-new"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}
	if err := store.SetModel(ctx, "gpt-4o"); err != nil {
		t.Fatalf("SetModel: %v", err)
	}

	reopened := NewFileStore(path, Defaults(""))
	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.APIKey != "sk-new" || got.Model != "gpt-4o" {
		t.Errorf("unexpected settings after reopen: %+v", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

func TestFileStore_KeepsValueVerbatim(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"), Defaults(""))

	key := "  sk-with: odd # chars  "
	if err := store.SetAPIKey(ctx, key); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.APIKey != key {
		t.Errorf("expected %q, got %q", key, got.APIKey)
	}
}

func TestFileStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("model: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path, Defaults("")).Load(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}

// countingStore records how often the wrapped store is read.
type countingStore struct {
	Settings
	loads int
	err   error
}

func (c *countingStore) Load(context.Context) (Settings, error) {
	c.loads++
	return c.Settings, c.err
}

func (c *countingStore) SetAPIKey(_ context.Context, key string) error {
	c.APIKey = key
	return nil
}

func (c *countingStore) SetModel(_ context.Context, model string) error {
	c.Model = model
	return nil
}

func TestCached_ServesFromMemory(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Settings: Settings{APIKey: "k", Model: "m"}}
	cached := NewCached(inner)

	for range 3 {
		if _, err := cached.Load(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if inner.loads != 1 {
		t.Errorf("expected 1 underlying load, got %d", inner.loads)
	}
}

func TestCached_WriteInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Settings: Settings{APIKey: "k", Model: "m"}}
	cached := NewCached(inner)

	if _, err := cached.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := cached.SetModel(ctx, "gpt-4o"); err != nil {
		t.Fatal(err)
	}

	got, err := cached.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("expected write to be observed, got %q", got.Model)
	}
	if inner.loads != 2 {
		t.Errorf("expected reload after write, got %d loads", inner.loads)
	}
}

func TestCached_ExplicitInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Settings: Settings{Model: "m"}}
	cached := NewCached(inner)

	_, _ = cached.Load(ctx)
	inner.Model = "changed elsewhere"
	cached.Invalidate()

	got, _ := cached.Load(ctx)
	if got.Model != "changed elsewhere" {
		t.Errorf("expected fresh read, got %q", got.Model)
	}
}

func TestCached_ErrorNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{err: errors.New("disk gone")}
	cached := NewCached(inner)

	if _, err := cached.Load(ctx); err == nil {
		t.Fatal("expected error")
	}
	inner.err = nil
	inner.Model = "m"
	got, err := cached.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "m" {
		t.Errorf("expected m, got %q", got.Model)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"), Defaults(""))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Model != DefaultModel || got.APIKey != "" {
		t.Errorf("expected defaults on empty table, got %+v", got)
	}

	if err := store.SetAPIKey(ctx, "sk-1"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAPIKey(ctx, "sk-2"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetModel(ctx, "gpt-4o"); err != nil {
		t.Fatal(err)
	}

	got, err = store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.APIKey != "sk-2" || got.Model != "gpt-4o" {
		t.Errorf("unexpected settings: %+v", got)
	}
}

func TestSQLiteStore_NullClearsDefault(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"), Defaults(""))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	if _, err := store.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, NULL)`, keyModel); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Model != "" {
		t.Errorf("expected NULL to mean unset, got %q", got.Model)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("seeds empty store", func(t *testing.T) {
		store, err := Open(ctx, StoreConfig{Backend: BackendYAML, Path: filepath.Join(dir, "a.yaml"), SeedAPIKey: "sk-seed"})
		if err != nil {
			t.Fatal(err)
		}
		got, _ := store.Load(ctx)
		if got.APIKey != "sk-seed" {
			t.Errorf("expected seeded key, got %q", got.APIKey)
		}
	})

	t.Run("seed does not overwrite", func(t *testing.T) {
		path := filepath.Join(dir, "b.yaml")
		if err := os.WriteFile(path, []byte("api_key: sk-stored\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		store, err := Open(ctx, StoreConfig{Backend: BackendYAML, Path: path, SeedAPIKey: "sk-seed"})
		if err != nil {
			t.Fatal(err)
		}
		got, _ := store.Load(ctx)
		if got.APIKey != "sk-stored" {
			t.Errorf("expected stored key kept, got %q", got.APIKey)
		}
	})

	t.Run("custom default model", func(t *testing.T) {
		store, err := Open(ctx, StoreConfig{Backend: BackendSQLite, Path: filepath.Join(dir, "c.db"), DefaultModel: "gpt-4o-mini"})
		if err != nil {
			t.Fatal(err)
		}
		defer store.Close()
		got, _ := store.Load(ctx)
		if got.Model != "gpt-4o-mini" {
			t.Errorf("expected default model override, got %q", got.Model)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, StoreConfig{Backend: "redis"})
		if !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("expected ErrUnknownBackend, got %v", err)
		}
	})
}
