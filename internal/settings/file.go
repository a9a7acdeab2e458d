package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps settings in a YAML document.
type FileStore struct {
	path     string
	defaults Settings
	mu       sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string, defaults Settings) *FileStore {
	return &FileStore{path: path, defaults: defaults}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(_ context.Context) (Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return Settings{}, err
	}
	return apply(f.defaults, entries), nil
}

func (f *FileStore) SetAPIKey(_ context.Context, key string) error {
	return f.set(keyAPIKey, key)
}

func (f *FileStore) SetModel(_ context.Context, model string) error {
	return f.set(keyModel, model)
}

func (f *FileStore) set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[key] = &value
	return f.write(entries)
}

// read returns the stored entries. A missing file is an empty document.
func (f *FileStore) read() (map[string]*string, error) {
	entries := map[string]*string{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", f.path, err)
	}

	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", f.path, err)
	}
	if entries == nil {
		entries = map[string]*string{}
	}
	return entries, nil
}

func (f *FileStore) write(entries map[string]*string) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace settings %s: %w", f.path, err)
	}
	return nil
}
