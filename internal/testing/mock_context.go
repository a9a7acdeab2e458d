package testing

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/relay"
)

// MockChatContext implements core.ChatContextInterface for testing
type MockChatContext struct {
	context.Context

	// Configurable return values
	Message   relay.Message
	Parent    *relay.Message
	Triggered bool
	Admin     bool
	Command   string
	Source    string
	Args      []string
	ArgText   string

	// Recorded calls (for assertions)
	Replies  []string
	Sends    []string
	Typings  int
	Redacted int

	// Injected dependencies
	cfg      *config.Configuration
	sys      core.System
	logger   *slog.Logger
	identity relay.Identity
	builder  *relay.Builder
}

// Verify MockChatContext implements core.ChatContextInterface
var _ core.ChatContextInterface = (*MockChatContext)(nil)

// NewMockContext creates a new MockChatContext with sensible defaults
func NewMockContext() *MockChatContext {
	identity := TestIdentity()
	return &MockChatContext{
		Context:  context.Background(),
		Message:  relay.Message{ID: "1000", Channel: "test-channel", AuthorID: "7", Content: "hello", CleanContent: "hello"},
		Source:   "testuser",
		Args:     []string{},
		Replies:  []string{},
		Sends:    []string{},
		cfg:      DefaultTestConfig(),
		sys:      NewMockSystem(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		identity: identity,
		builder:  relay.NewBuilder(identity, nil, 0, nil),
	}
}

// TestIdentity is the bot identity used across tests: id 42, shown as BotName.
func TestIdentity() relay.Identity {
	return relay.Identity{
		ID:          TestBotID,
		DisplayName: "BotName",
		Mention:     regexp.MustCompile(`(?m)^(<@!?` + TestBotID + `>)`),
	}
}

// Builder methods for fluent test setup

// WithContext sets a custom context (for timeout/cancellation testing)
func (m *MockChatContext) WithContext(ctx context.Context) *MockChatContext {
	m.Context = ctx
	return m
}

// WithAdmin sets the admin flag
func (m *MockChatContext) WithAdmin(admin bool) *MockChatContext {
	m.Admin = admin
	return m
}

// WithTriggered sets whether the message triggers a completion
func (m *MockChatContext) WithTriggered(triggered bool) *MockChatContext {
	m.Triggered = triggered
	return m
}

// WithMessage sets the inbound message
func (m *MockChatContext) WithMessage(msg relay.Message) *MockChatContext {
	m.Message = msg
	return m
}

// WithParent sets the resolved parent message
func (m *MockChatContext) WithParent(parent *relay.Message) *MockChatContext {
	m.Parent = parent
	return m
}

// WithArgs sets the command name and its arguments
func (m *MockChatContext) WithArgs(args ...string) *MockChatContext {
	if len(args) == 0 {
		return m
	}
	m.Command = strings.ToLower(args[0])
	m.Args = args[1:]
	m.ArgText = strings.Join(args[1:], " ")
	return m
}

// WithSource sets the source user
func (m *MockChatContext) WithSource(source string) *MockChatContext {
	m.Source = source
	return m
}

// WithConfig sets the configuration
func (m *MockChatContext) WithConfig(cfg *config.Configuration) *MockChatContext {
	m.cfg = cfg
	return m
}

// WithSystem sets the system
func (m *MockChatContext) WithSystem(sys core.System) *MockChatContext {
	m.sys = sys
	return m
}

// WithLogger sets the logger
func (m *MockChatContext) WithLogger(logger *slog.Logger) *MockChatContext {
	m.logger = logger
	return m
}

// WithResolver rebuilds the context builder around resolver
func (m *MockChatContext) WithResolver(resolver relay.Resolver) *MockChatContext {
	m.builder = relay.NewBuilder(m.identity, resolver, m.cfg.Bot.MaxDepth, m.logger)
	return m
}

// Event methods

func (m *MockChatContext) GetMessage() relay.Message {
	return m.Message
}

func (m *MockChatContext) GetParent() *relay.Message {
	return m.Parent
}

func (m *MockChatContext) IsTriggered() bool {
	return m.Triggered
}

func (m *MockChatContext) IsAdmin() bool {
	return m.Admin
}

func (m *MockChatContext) GetCommand() string {
	return m.Command
}

func (m *MockChatContext) GetArgs() []string {
	return m.Args
}

func (m *MockChatContext) GetArgText() string {
	return m.ArgText
}

func (m *MockChatContext) GetSource() string {
	return m.Source
}

// Responder methods

func (m *MockChatContext) Reply(msg string) {
	m.Replies = append(m.Replies, msg)
}

func (m *MockChatContext) Send(msg string) {
	m.Sends = append(m.Sends, msg)
}

func (m *MockChatContext) Typing() {
	m.Typings++
}

// Redact records a request to remove the triggering message
func (m *MockChatContext) Redact() error {
	m.Redacted++
	return nil
}

// Runtime methods

func (m *MockChatContext) GetConfig() *config.Configuration {
	return m.cfg
}

func (m *MockChatContext) GetSystem() core.System {
	return m.sys
}

func (m *MockChatContext) GetLogger() *slog.Logger {
	return m.logger
}

func (m *MockChatContext) GetIdentity() relay.Identity {
	return m.identity
}

func (m *MockChatContext) GetBuilder() *relay.Builder {
	return m.builder
}

// Assertion helpers

// HasReply checks if any reply contains the given substring
func (m *MockChatContext) HasReply(substring string) bool {
	for _, r := range m.Replies {
		if strings.Contains(r, substring) {
			return true
		}
	}
	return false
}

// LastReply returns the last reply, or empty string if none
func (m *MockChatContext) LastReply() string {
	if len(m.Replies) == 0 {
		return ""
	}
	return m.Replies[len(m.Replies)-1]
}

// ReplyCount returns the number of replies
func (m *MockChatContext) ReplyCount() int {
	return len(m.Replies)
}

// LastSend returns the last channel message, or empty string if none
func (m *MockChatContext) LastSend() string {
	if len(m.Sends) == 0 {
		return ""
	}
	return m.Sends[len(m.Sends)-1]
}

// SendCount returns the number of channel messages
func (m *MockChatContext) SendCount() int {
	return len(m.Sends)
}
