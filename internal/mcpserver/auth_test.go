package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer prefix", "Bearer sk-live-123", "sk-live-123"},
		{"token prefix", "Token sk-live-123", "sk-live-123"},
		{"lowercase bearer", "bearer sk-live-123", "sk-live-123"},
		{"uppercase token", "TOKEN sk-live-123", "sk-live-123"},
		{"surrounding whitespace", "  Bearer sk-live-123  ", "sk-live-123"},
		{"empty header", "", ""},
		{"prefix only", "Bearer ", ""},
		{"unrecognized scheme", "Basic dXNlcjpwYXNz", ""},
		{"bare key without scheme", "sk-live-123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAPIKey(tt.header))
		})
	}
}

func TestCredentialContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, credentialFromContext(ctx))

	ctx = contextWithCredential(ctx, "sk-live-123")
	assert.Equal(t, "sk-live-123", credentialFromContext(ctx))

	// Empty credentials are never stashed.
	assert.Equal(t, context.Background(), contextWithCredential(context.Background(), ""))
}
