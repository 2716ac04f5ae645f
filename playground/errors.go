package playground

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindTransport     Kind = "transport"
	KindProvider      Kind = "provider"
	KindDecoding      Kind = "decoding"
	KindPending       Kind = "pending"
	KindInternal      Kind = "internal"
)

// ErrPending is returned when Generate is called while a request is in flight.
var ErrPending = errors.New("a generation is already in progress")

// ConfigurationError means the dispatcher cannot run, e.g. no API key. No request is made.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Message
}

// TransportError wraps a network level failure (DNS, connect, timeout).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ProviderError carries the message the completion service returned.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return "provider: " + e.Message
	}
	return fmt.Sprintf("provider: %d %s", e.StatusCode, e.Message)
}

// DecodingError means a success response did not have the expected shape.
type DecodingError struct {
	Message string
	Cause   error
}

func (e *DecodingError) Error() string {
	if e.Cause == nil {
		return "decoding: " + e.Message
	}
	return fmt.Sprintf("decoding: %s: %v", e.Message, e.Cause)
}

func (e *DecodingError) Unwrap() error {
	return e.Cause
}

// KindOf maps err to its Kind. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	var (
		cfgErr  *ConfigurationError
		trErr   *TransportError
		provErr *ProviderError
		decErr  *DecodingError
	)
	switch {
	case errors.Is(err, ErrPending):
		return KindPending
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &provErr):
		return KindProvider
	case errors.As(err, &decErr):
		return KindDecoding
	case errors.As(err, &trErr):
		return KindTransport
	}
	return KindInternal
}

// Message returns the human readable part of a generation error.
func Message(err error) string {
	var (
		cfgErr  *ConfigurationError
		provErr *ProviderError
	)
	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Message
	case errors.As(err, &provErr):
		return provErr.Message
	case err == nil:
		return ""
	}
	return err.Error()
}
