// Package settings stores the runtime-mutable bot settings: the completion API
// key and the model name.
package settings

import (
	"context"
	"errors"
)

// DefaultModel is used when the store holds no model entry.
const DefaultModel = "gpt-3.5-turbo"

const (
	keyAPIKey = "api_key"
	keyModel  = "model"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown settings backend")

// Settings is a snapshot of the stored values. An empty field means not configured.
type Settings struct {
	APIKey string
	Model  string
}

// Defaults returns the values used for entries missing from a store.
func Defaults(model string) Settings {
	if model == "" {
		model = DefaultModel
	}
	return Settings{Model: model}
}

// Store persists settings. Each setter overwrites the whole value.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	SetAPIKey(ctx context.Context, key string) error
	SetModel(ctx context.Context, model string) error
}

// apply overlays the stored entries onto defaults. A present entry with a nil
// value clears the default.
func apply(defaults Settings, entries map[string]*string) Settings {
	s := defaults
	if v, ok := entries[keyAPIKey]; ok {
		s.APIKey = deref(v)
	}
	if v, ok := entries[keyModel]; ok {
		s.Model = deref(v)
	}
	return s
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
