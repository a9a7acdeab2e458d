package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkdindustries/gptrelay/internal/relay"
)

// recordedRequest is the part of a chat completion request the tests look at.
type recordedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func errorBody(message, typ string) string {
	b, _ := json.Marshal(map[string]any{
		"error": map[string]any{"message": message, "type": typ},
	})
	return string(b)
}

// fakeServer answers every request with status and body and counts the hits.
func fakeServer(t *testing.T, status int, body string, seen *[]recordedRequest, auth *string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			var req recordedRequest
			if err := json.Unmarshal(raw, &req); err == nil {
				*seen = append(*seen, req)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConversation() relay.Conversation {
	return relay.Conversation{
		{Role: relay.RoleUser, Content: "what is go"},
		{Role: relay.RoleAssistant, Content: "a language"},
		{Role: relay.RoleUser, Content: "who made it"},
	}
}

func TestComplete_Success(t *testing.T) {
	var seen []recordedRequest
	var auth string
	srv, hits := fakeServer(t, http.StatusOK, completionBody("Google did."), &seen, &auth)

	client := NewOpenAIClient(srv.URL)
	got, err := client.Complete(context.Background(), testConversation(), "gpt-4o", "sk-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Google did." {
		t.Errorf("expected reply %q, got %q", "Google did.", got)
	}
	if *hits != 1 {
		t.Errorf("expected 1 request, got %d", *hits)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("expected bearer auth header, got %q", auth)
	}

	if len(seen) != 1 {
		t.Fatalf("expected 1 recorded request, got %d", len(seen))
	}
	if seen[0].Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", seen[0].Model)
	}
	var roles, contents []string
	for _, m := range seen[0].Messages {
		roles = append(roles, m.Role)
		contents = append(contents, m.Content)
	}
	if diff := cmp.Diff([]string{"user", "assistant", "user"}, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"what is go", "a language", "who made it"}, contents); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeServer(t, http.StatusOK, completionBody(tt.content), nil, nil)

			got, err := NewOpenAIClient(srv.URL).Complete(context.Background(), testConversation(), "gpt-4o", "sk-test")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != EmptyReply {
				t.Errorf("expected placeholder %q, got %q", EmptyReply, got)
			}
		})
	}
}

func TestComplete_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
		prefix string
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuthentication, "OpenAI API returned an Authentication Error: "},
		{"rate limited", http.StatusTooManyRequests, KindRateLimit, "OpenAI API request exceeded rate limit: "},
		{"server error", http.StatusInternalServerError, KindAPI, "OpenAI API returned an API Error: "},
		{"bad request", http.StatusBadRequest, KindAPI, "OpenAI API returned an API Error: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := fakeServer(t, tt.status, errorBody("nope", "test_error"), nil, nil)

			_, err := NewOpenAIClient(srv.URL).Complete(context.Background(), testConversation(), "gpt-4o", "sk-test")
			if err == nil {
				t.Fatal("expected error")
			}

			var ce *CompletionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CompletionError, got %T", err)
			}
			if ce.Kind != tt.want {
				t.Errorf("expected kind %v, got %v", tt.want, ce.Kind)
			}
			if *hits != 1 {
				t.Errorf("expected exactly 1 request (no retries), got %d", *hits)
			}
			if msg := Describe(err); !strings.HasPrefix(msg, tt.prefix) {
				t.Errorf("expected description starting with %q, got %q", tt.prefix, msg)
			}
		})
	}
}

func TestComplete_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewOpenAIClient(url).Complete(context.Background(), testConversation(), "gpt-4o", "sk-test")
	if err == nil {
		t.Fatal("expected error")
	}

	if kind := Classify(err).Kind; kind != KindConnection {
		t.Errorf("expected connection kind, got %v", kind)
	}
	if msg := Describe(err); !strings.HasPrefix(msg, "Failed to connect to OpenAI API: ") {
		t.Errorf("unexpected description %q", msg)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", context.DeadlineExceeded, KindConnection},
		{"wrapped deadline", errors.Join(errors.New("request"), context.DeadlineExceeded), KindConnection},
		{"unexpected eof", io.ErrUnexpectedEOF, KindConnection},
		{"canceled", context.Canceled, KindUnknown},
		{"plain", errors.New("something odd"), KindUnknown},
		{"already classified", &CompletionError{Kind: KindRateLimit, Err: errors.New("x")}, KindRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err).Kind; got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestDescribe_Unknown(t *testing.T) {
	got := Describe(errors.New("boom"))
	if got != "OpenAI API request failed: boom" {
		t.Errorf("unexpected description %q", got)
	}
}

// stubCompleter returns a fixed reply or error.
type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, relay.Conversation, string, string) (string, error) {
	return s.reply, s.err
}

func TestReply(t *testing.T) {
	ctx := context.Background()

	if got := Reply(ctx, stubCompleter{reply: "hi"}, testConversation(), "m", "k", nil); got != "hi" {
		t.Errorf("expected reply text, got %q", got)
	}

	rateLimited := &CompletionError{Kind: KindRateLimit, Err: errors.New("slow down")}
	got := Reply(ctx, stubCompleter{err: rateLimited}, testConversation(), "m", "k", nil)
	if got != "OpenAI API request exceeded rate limit: slow down" {
		t.Errorf("unexpected failure text %q", got)
	}
}
