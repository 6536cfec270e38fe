package mcpserver

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/datamergehq/datamerge-mcp/internal/session"
)

// sessionIDManager backs the streamable HTTP transport's session lifecycle
// with the session store, so that session existence has exactly one source
// of truth. The SDK calls:
//
//   - Generate on an initialize request with no Mcp-Session-Id header,
//   - Validate on every request carrying a session id,
//   - Terminate on HTTP DELETE.
//
// Requests for unknown or terminated ids are rejected by the SDK with a
// structured protocol error; the listener itself stays up.
type sessionIDManager struct {
	sessions *session.Store
}

func newSessionIDManager(sessions *session.Store) *sessionIDManager {
	return &sessionIDManager{sessions: sessions}
}

// Generate allocates a collision-free session identifier and registers it.
func (m *sessionIDManager) Generate() string {
	sessionID := uuid.New().String()
	m.sessions.Register(sessionID)
	return sessionID
}

// Validate reports whether a session id refers to a live session. Unknown
// ids (including previously terminated ones — termination removes all
// state) are signalled via err per the SDK contract.
func (m *sessionIDManager) Validate(sessionID string) (isTerminated bool, err error) {
	if sessionID == "" {
		return false, fmt.Errorf("empty session id")
	}
	if !m.sessions.Known(sessionID) {
		return false, fmt.Errorf("unknown session %q", sessionID)
	}
	return false, nil
}

// Terminate removes the session and everything it owns. Termination is
// always permitted and idempotent.
func (m *sessionIDManager) Terminate(sessionID string) (isNotAllowed bool, err error) {
	m.sessions.Forget(sessionID)
	return false, nil
}
