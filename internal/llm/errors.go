package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotConfigured is returned when no provider credential is available.
var ErrNotConfigured = errors.New("completion provider is not configured")

// ErrorKind classifies provider failures for the HTTP layer.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuth
	KindRateLimit
	KindTimeout
	KindUnavailable
	KindEmpty
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ProviderError is returned by every Provider implementation.
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Typed provider errors carry their kind; anything else falls back
// to keyword matching on the message.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var pe *ProviderError
	if errors.As(err, &pe) && pe.Kind != KindUnknown {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	return classifyMessage(err.Error())
}

// classifyMessage is the keyword heuristic used for errors without a status code.
func classifyMessage(msg string) ErrorKind {
	msg = strings.ToLower(msg)

	switch {
	case containsAny(msg, "api key", "authentication", "unauthorized", "permission denied", "unauthenticated"):
		return KindAuth
	case containsAny(msg, "rate limit", "quota", "too many requests", "resource exhausted", "resourceexhausted"):
		return KindRateLimit
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return KindTimeout
	case containsAny(msg, "unavailable", "overloaded", "connection refused"):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// kindForStatus maps an upstream HTTP status to a kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
