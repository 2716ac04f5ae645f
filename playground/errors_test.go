package playground

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"configuration", &ConfigurationError{Message: "no key"}, KindConfiguration},
		{"transport", &TransportError{Cause: errors.New("dial")}, KindTransport},
		{"provider", &ProviderError{StatusCode: 401, Message: "bad key"}, KindProvider},
		{"decoding", &DecodingError{Message: "no choices"}, KindDecoding},
		{"pending", ErrPending, KindPending},
		{"wrapped provider", fmt.Errorf("generate: %w", &ProviderError{Message: "x"}), KindProvider},
		{"other", errors.New("boom"), KindInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(&ProviderError{StatusCode: 429, Message: "rate limited"}); got != "rate limited" {
		t.Errorf("Expected provider text only, got %q", got)
	}
	if got := Message(&ConfigurationError{Message: "API key missing"}); got != "API key missing" {
		t.Errorf("Expected configuration text only, got %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Expected empty message for nil, got %q", got)
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected TransportError to unwrap to its cause")
	}
}
