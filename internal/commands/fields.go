package commands

import (
	"context"
	"strings"

	"pkdindustries/gptrelay/internal/settings"
)

// settingField defines how to get and set a stored setting
type settingField struct {
	setter func(context.Context, settings.Store, string) error
	// getter is nil for values that are never shown
	getter func(settings.Settings) string
	// secret values are masked in logs
	secret bool
}

// settingFields maps setting names to their handlers
var settingFields = map[string]settingField{
	"api_key": {
		setter: func(ctx context.Context, s settings.Store, v string) error { return s.SetAPIKey(ctx, v) },
		secret: true,
	},
	"model": {
		setter: func(ctx context.Context, s settings.Store, v string) error { return s.SetModel(ctx, v) },
		getter: func(s settings.Settings) string { return s.Model },
	},
}

// maskAPIKey returns a masked version of an API key showing only first 4 chars
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
