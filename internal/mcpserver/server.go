// Package mcpserver exposes the DataMerge API as MCP tools over stdio and
// streamable HTTP. Both transports share one tool catalog and one session
// store; each transport contributes only its own connection-lifecycle glue.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datamergehq/datamerge-mcp/internal/datamerge"
	"github.com/datamergehq/datamerge-mcp/internal/session"
)

// Config holds configuration for the MCP server.
type Config struct {
	Name    string
	Version string
}

// Server binds the mcp-go server to the session store and the tool
// handlers. One instance serves both transports.
type Server struct {
	mcp      *server.MCPServer
	sessions *session.Store
	logger   *slog.Logger

	// sessionFromContext resolves the current request's session id.
	// Overridable in tests; production always uses the mcp-go client
	// session carried in the context.
	sessionFromContext func(ctx context.Context) string
}

// NewServer creates the MCP server, wires session lifecycle hooks, and
// registers the full tool catalog exactly once.
func NewServer(cfg Config, sessions *session.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		sessions: sessions,
		logger:   logger,
		sessionFromContext: func(ctx context.Context) string {
			if cs := server.ClientSessionFromContext(ctx); cs != nil {
				return cs.SessionID()
			}
			return ""
		},
	}

	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, cs server.ClientSession) {
		sid := cs.SessionID()
		s.sessions.Register(sid)
		// An authorization credential that arrived with the initialize
		// request was stashed in the context before a session id existed;
		// attach it now.
		if key := credentialFromContext(ctx); key != "" {
			s.sessions.RememberCredential(sid, key)
		}
		logger.Info("session registered", "session_id", sid)
	})
	hooks.AddOnUnregisterSession(func(_ context.Context, cs server.ClientSession) {
		// Connection closed: teardown must be synchronous and complete so
		// no per-session resources outlive the transport.
		s.sessions.Forget(cs.SessionID())
		logger.Info("session unregistered", "session_id", cs.SessionID())
	})

	s.mcp = server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)

	s.registerTools()
	return s
}

// SessionStore exposes the underlying store, mainly for tests and the
// liveness endpoint's session count.
func (s *Server) SessionStore() *session.Store { return s.sessions }

// resolveClient yields the upstream client for the current request's
// session. A missing credential is a tool-level error result; a missing
// session id indicates a transport bug and propagates as a router failure.
func (s *Server) resolveClient(ctx context.Context) (*datamerge.Client, *mcp.CallToolResult, error) {
	sessionID := s.sessionFromContext(ctx)
	if sessionID == "" {
		return nil, nil, fmt.Errorf("mcpserver: no session identifier in request context")
	}

	client, err := s.sessions.GetOrCreateClient(sessionID, credentialFromContext(ctx))
	if err != nil {
		if errors.Is(err, session.ErrNotConfigured) {
			return nil, mcp.NewToolResultError(
				"No DataMerge API key is configured for this session. " +
					"Call the configure-credential tool or send an Authorization header.",
			), nil
		}
		return nil, nil, err
	}
	return client, nil, nil
}
