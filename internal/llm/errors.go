package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/openai/openai-go/v3"
)

// ErrorKind tags a failed completion call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAPI
	KindConnection
	KindRateLimit
	KindAuthentication
)

func (k ErrorKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindConnection:
		return "connection"
	case KindRateLimit:
		return "rate_limit"
	case KindAuthentication:
		return "authentication"
	default:
		return "unknown"
	}
}

// CompletionError is returned by Completer implementations for every failed call.
type CompletionError struct {
	Kind ErrorKind
	Err  error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion %s error: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Classify tags err with the kind of failure it represents. An error that is
// already a CompletionError is returned as is.
func Classify(err error) *CompletionError {
	if err == nil {
		return nil
	}

	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return &CompletionError{Kind: KindAuthentication, Err: err}
		case http.StatusTooManyRequests:
			return &CompletionError{Kind: KindRateLimit, Err: err}
		default:
			return &CompletionError{Kind: KindAPI, Err: err}
		}
	}

	if errors.Is(err, context.Canceled) {
		return &CompletionError{Kind: KindUnknown, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.As(err, &netErr) {
		return &CompletionError{Kind: KindConnection, Err: err}
	}

	return &CompletionError{Kind: KindUnknown, Err: err}
}

// Describe renders err as the one-line text shown to the user.
func Describe(err error) string {
	ce := Classify(err)
	if ce == nil {
		return ""
	}

	switch ce.Kind {
	case KindAPI:
		return fmt.Sprintf("OpenAI API returned an API Error: %v", ce.Err)
	case KindConnection:
		return fmt.Sprintf("Failed to connect to OpenAI API: %v", ce.Err)
	case KindRateLimit:
		return fmt.Sprintf("OpenAI API request exceeded rate limit: %v", ce.Err)
	case KindAuthentication:
		return fmt.Sprintf("OpenAI API returned an Authentication Error: %v", ce.Err)
	default:
		return fmt.Sprintf("OpenAI API request failed: %v", ce.Err)
	}
}
