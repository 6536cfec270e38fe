package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
)

const mcpEndpointPath = "/mcp"

// ServeStdio runs the server over the process's stdin/stdout pipe. The
// pipe carries exactly one implicit session for the process lifetime; the
// session registration hook fires for it like for any other connection.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcp)
}

// Handler returns the HTTP handler carrying the streamable MCP endpoint at
// /mcp and the unauthenticated liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	streamable := server.NewStreamableHTTPServer(
		s.mcp,
		server.WithEndpointPath(mcpEndpointPath),
		server.WithSessionIdManager(newSessionIDManager(s.sessions)),
		server.WithHTTPContextFunc(s.httpContext),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", s.handleLiveness)
	r.Handle(mcpEndpointPath, streamable)
	return r
}

// ServeHTTP runs the network transport until the context is cancelled,
// then drains connections with a bounded graceful shutdown.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on streamable HTTP", "addr", addr, "endpoint", mcpEndpointPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// httpContext runs before every HTTP request is dispatched. It extracts the
// authorization credential, re-remembers it for known sessions (supporting
// credential rotation mid-session without rebuilding the active client),
// and stashes it in the context for the registration hook and for tool
// dispatch.
func (s *Server) httpContext(ctx context.Context, r *http.Request) context.Context {
	key := extractAPIKey(r.Header.Get("Authorization"))
	if key == "" {
		return ctx
	}
	if sid := r.Header.Get("Mcp-Session-Id"); sid != "" && s.sessions.Known(sid) {
		s.sessions.RememberCredential(sid, key)
	}
	return contextWithCredential(ctx, key)
}

// handleLiveness reports process liveness. No authorization, no upstream
// call — it must answer even when no credential is configured anywhere.
func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}
