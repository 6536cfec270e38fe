// Package session maps logical caller connections to upstream API clients.
//
// The store is the only state shared across concurrent tool invocations: the
// transport layer writes (register/forget) and every tool call reads. All
// map mutation happens under one mutex; client construction performs no I/O,
// so holding the lock across it is what makes concurrent get-or-create calls
// for the same session linearizable without double construction.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/datamergehq/datamerge-mcp/internal/datamerge"
)

// ErrNotConfigured reports that no credential could be resolved for a
// session: none supplied with the call, none remembered, no process-wide
// fallback. Tools surface this as a tool-level error so the calling agent
// can react (for example by prompting for a key).
var ErrNotConfigured = errors.New("no DataMerge API key configured for this session")

type entry struct {
	credential string
	client     *datamerge.Client
}

// Store owns the session → (credential, client) mapping. A session has at
// most one client at any time; once built, the client is never mutated,
// only replaced wholesale by Configure or discarded by Forget.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	fallbackKey string
	baseURL     string
}

// NewStore creates a store. fallbackKey is the process-wide credential used
// when a session has none of its own (may be empty). baseURL overrides the
// default upstream endpoint for every constructed client (may be empty).
func NewStore(fallbackKey, baseURL string) *Store {
	return &Store{
		entries:     make(map[string]*entry),
		fallbackKey: fallbackKey,
		baseURL:     baseURL,
	}
}

// Register marks a session identifier as known. Idempotent. The transport
// layer calls this when a connection is initialized; tool dispatch for
// unknown identifiers is rejected before it reaches the store. Register is
// the only operation that creates an entry — once Forget has run, nothing
// short of a new Register brings the session back.
func (s *Store) Register(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sessionID]; !ok {
		s.entries[sessionID] = &entry{}
	}
}

// Known reports whether a session identifier is currently registered.
func (s *Store) Known(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[sessionID]
	return ok
}

// RememberCredential idempotently associates a raw credential with a
// session without constructing a client. It deliberately does NOT rebuild
// an already-built client: the passive header path remembers rotated
// credentials but only an explicit Configure replaces the active client.
// Unregistered (or already forgotten) sessions hold no state, so the write
// is dropped for them.
func (s *Store) RememberCredential(sessionID, credential string) {
	if credential == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[sessionID]; ok {
		e.credential = credential
	}
}

// GetOrCreateClient returns the session's client, constructing and caching
// it on first use. Credential precedence: explicitKey supplied with this
// call, then the session's remembered credential, then the process-wide
// fallback. With no resolvable credential it returns ErrNotConfigured.
//
// A lookup for an unregistered session still resolves (explicit key or
// fallback) but caches nothing: a forgotten session must not reappear in
// Known or Count just because a request for it was still in flight.
func (s *Store) GetOrCreateClient(sessionID, explicitKey string) (*datamerge.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, registered := s.entries[sessionID]
	if registered && e.client != nil {
		return e.client, nil
	}

	key := explicitKey
	if key == "" && registered {
		key = e.credential
	}
	if key == "" {
		key = s.fallbackKey
	}
	if key == "" {
		return nil, ErrNotConfigured
	}

	client := s.buildClient(key, "")
	if registered {
		e.credential = key
		e.client = client
		slog.Debug("constructed upstream client for session", "session_id", sessionID)
	}
	return client, nil
}

// Configure is the explicit reconfiguration path: it discards whatever
// client the session had and builds a fresh one from the given credential.
// baseURL may be empty to keep the store-wide default. Like
// GetOrCreateClient, configuring an unregistered session returns a usable
// client but persists nothing.
func (s *Store) Configure(sessionID, credential, baseURL string) *datamerge.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	client := s.buildClient(credential, baseURL)
	if e, ok := s.entries[sessionID]; ok {
		e.credential = credential
		e.client = client
		slog.Info("session reconfigured with new credential", "session_id", sessionID)
	}
	return client
}

// Forget removes all state for a session. Safe to call for unknown ids.
// Removal is atomic under the store mutex: an in-flight invocation either
// sees the full entry or none of it.
func (s *Store) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sessionID]; ok {
		delete(s.entries, sessionID)
		slog.Debug("session state removed", "session_id", sessionID)
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) buildClient(key, baseURL string) *datamerge.Client {
	if baseURL == "" {
		baseURL = s.baseURL
	}
	var opts []datamerge.Option
	if baseURL != "" {
		opts = append(opts, datamerge.WithBaseURL(baseURL))
	}
	return datamerge.NewClient(key, opts...)
}
