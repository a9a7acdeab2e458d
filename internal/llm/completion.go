// Package llm sends conversations to an OpenAI-compatible chat completion
// endpoint and turns the outcome into text for the chat.
package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"pkdindustries/gptrelay/internal/relay"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	// EmptyReply stands in for a completion without content.
	EmptyReply = "The message from ChatGPT was empty."
)

// Completer produces a reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, conv relay.Conversation, model, apiKey string) (string, error)
}

// OpenAIClient is a Completer backed by the official OpenAI SDK. The key and
// model are supplied per call since both can change at runtime.
type OpenAIClient struct {
	baseURL string
	opts    []option.RequestOption
}

var _ Completer = (*OpenAIClient)(nil)

func NewOpenAIClient(baseURL string, opts ...option.RequestOption) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenAIClient{
		baseURL: baseURL,
		opts:    opts,
	}
}

// Complete issues exactly one chat completion request. Failures are returned as
// *CompletionError.
func (c *OpenAIClient) Complete(ctx context.Context, conv relay.Conversation, model, apiKey string) (string, error) {
	opts := append([]option.RequestOption{
		option.WithBaseURL(c.baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, c.opts...)
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: ConvertMessages(conv),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return EmptyReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ConvertMessages maps a conversation onto SDK message params, order preserved.
func ConvertMessages(conv relay.Conversation) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(conv))
	for i, u := range conv {
		switch u.Role {
		case relay.RoleAssistant:
			result[i] = openai.AssistantMessage(u.Content)
		default:
			result[i] = openai.UserMessage(u.Content)
		}
	}
	return result
}

// Reply runs a completion and always yields text for the chat: the reply on
// success, a description of the failure otherwise.
func Reply(ctx context.Context, c Completer, conv relay.Conversation, model, apiKey string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	reply, err := c.Complete(ctx, conv, model, apiKey)
	if err != nil {
		ce := Classify(err)
		logger.Warn("completion failed",
			"kind", ce.Kind.String(),
			"model", model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", ce.Err)
		return Describe(ce)
	}

	logger.Info("completion done",
		"model", model,
		"utterances", len(conv),
		"duration_ms", time.Since(start).Milliseconds())
	return reply
}
