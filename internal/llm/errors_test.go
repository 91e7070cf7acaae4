package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProviderDown(t *testing.T) {
	tests := []struct {
		name string
		err  error
		down bool
	}{
		{"rate limited", &ProviderError{Provider: "openai", StatusCode: http.StatusTooManyRequests}, true},
		{"auth rejected", &ProviderError{Provider: "gemini", StatusCode: http.StatusUnauthorized}, true},
		{"forbidden", &ProviderError{Provider: "gemini", StatusCode: http.StatusForbidden}, true},
		{"server error", &ProviderError{Provider: "anthropic", StatusCode: http.StatusInternalServerError}, true},
		{"bad gateway", &ProviderError{Provider: "anthropic", StatusCode: http.StatusBadGateway}, true},
		{"unavailable", &ProviderError{Provider: "anthropic", StatusCode: http.StatusServiceUnavailable}, true},
		{"gateway timeout", &ProviderError{Provider: "anthropic", StatusCode: http.StatusGatewayTimeout}, true},
		{"no status means network failure", &ProviderError{Provider: "gemini", Err: errors.New("dial tcp: timeout")}, true},
		{"bad request is our fault", &ProviderError{Provider: "openai", StatusCode: http.StatusBadRequest}, false},
		{"not found is our fault", &ProviderError{Provider: "openai", StatusCode: http.StatusNotFound}, false},
		{"unrelated error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.down, IsProviderDown(tt.err))
		})
	}
}

func TestIsProviderDown_Wrapped(t *testing.T) {
	inner := &ProviderError{Provider: "gemini", StatusCode: http.StatusServiceUnavailable}
	wrapped := fmt.Errorf("attempt 2: %w", inner)
	assert.True(t, IsProviderDown(wrapped))
}

func TestProviderErrorMessage(t *testing.T) {
	withStatus := &ProviderError{Provider: "openai", StatusCode: 429, Err: errors.New("quota")}
	assert.Contains(t, withStatus.Error(), "429")
	assert.Contains(t, withStatus.Error(), "openai")

	withoutStatus := &ProviderError{Provider: "gemini", Err: errors.New("dial tcp")}
	assert.Contains(t, withoutStatus.Error(), "gemini")
	assert.ErrorContains(t, withoutStatus, "dial tcp")
}

func TestNewProviderByName(t *testing.T) {
	for _, name := range []string{"gemini", "openai", "anthropic"} {
		p, err := New(name, nil)
		assert.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := New("watson", nil)
	assert.Error(t, err)
}

func TestDefaultChainOrder(t *testing.T) {
	chain := DefaultChain(nil)
	names := make([]string, len(chain))
	for i, p := range chain {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"gemini", "openai", "anthropic"}, names)
}
