package mcpserver

import (
	"context"
	"strings"
)

type contextKey int

const credentialContextKey contextKey = iota

// extractAPIKey pulls the credential out of an Authorization header value.
// Two prefix conventions are accepted interchangeably: "Bearer <key>" and
// "Token <key>" (case-insensitive prefix). Both map to the same downstream
// credential use. An absent or unrecognized header yields "" — that is not
// an error here; it only matters once a tool needs a client.
func extractAPIKey(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	for _, prefix := range []string{"bearer ", "token "} {
		if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
			return strings.TrimSpace(header[len(prefix):])
		}
	}
	return ""
}

func contextWithCredential(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialContextKey, key)
}

func credentialFromContext(ctx context.Context) string {
	key, _ := ctx.Value(credentialContextKey).(string)
	return key
}
