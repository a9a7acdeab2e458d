package testing

import (
	"context"
	"sync"

	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/llm"
	"pkdindustries/gptrelay/internal/relay"
	"pkdindustries/gptrelay/internal/settings"
)

// CompleteCall records a Complete() invocation
type CompleteCall struct {
	Conversation relay.Conversation
	Model        string
	APIKey       string
}

// MockCompleter implements llm.Completer for testing
type MockCompleter struct {
	Response string
	Error    error

	mu    sync.Mutex
	Calls []CompleteCall
}

func (m *MockCompleter) Complete(ctx context.Context, conv relay.Conversation, model, apiKey string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, CompleteCall{Conversation: conv, Model: model, APIKey: apiKey})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", llm.Classify(err)
	}
	if m.Error != nil {
		return "", m.Error
	}
	return m.Response, nil
}

// CallCount returns the number of Complete calls
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Verify MockCompleter implements llm.Completer
var _ llm.Completer = (*MockCompleter)(nil)

// MockSettings is an in-memory settings.Store
type MockSettings struct {
	mu       sync.Mutex
	Values   settings.Settings
	LoadErr  error
	SetErr   error
	SetCalls int
}

func (m *MockSettings) Load(context.Context) (settings.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Values, m.LoadErr
}

func (m *MockSettings) SetAPIKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values.APIKey = key
	return nil
}

func (m *MockSettings) SetModel(_ context.Context, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values.Model = model
	return nil
}

// Verify MockSettings implements settings.Store
var _ settings.Store = (*MockSettings)(nil)

// MockSystem implements core.System for testing
type MockSystem struct {
	Settings  *MockSettings
	Completer *MockCompleter
}

// NewMockSystem creates a MockSystem with a configured key and the default model
func NewMockSystem() *MockSystem {
	return &MockSystem{
		Settings: &MockSettings{
			Values: settings.Settings{APIKey: "sk-test", Model: settings.DefaultModel},
		},
		Completer: &MockCompleter{
			Response: "Hello from mock LLM",
		},
	}
}

// GetSettings implements core.System
func (m *MockSystem) GetSettings() settings.Store {
	return m.Settings
}

// GetCompleter implements core.System
func (m *MockSystem) GetCompleter() llm.Completer {
	return m.Completer
}

// Verify MockSystem implements core.System
var _ core.System = (*MockSystem)(nil)
