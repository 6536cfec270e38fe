package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamergehq/datamerge-mcp/internal/datamerge"
)

func TestStore_CredentialPrecedence(t *testing.T) {
	t.Run("explicit key wins over remembered and fallback", func(t *testing.T) {
		s := NewStore("fallback-B", "")
		s.Register("s1")
		s.RememberCredential("s1", "remembered-A")

		client, err := s.GetOrCreateClient("s1", "explicit-C")
		require.NoError(t, err)
		assert.Equal(t, "explicit-C", client.APIKey())
	})

	t.Run("remembered key wins over fallback", func(t *testing.T) {
		s := NewStore("fallback-B", "")
		s.Register("s1")
		s.RememberCredential("s1", "remembered-A")

		client, err := s.GetOrCreateClient("s1", "")
		require.NoError(t, err)
		assert.Equal(t, "remembered-A", client.APIKey())
	})

	t.Run("fallback used when nothing remembered", func(t *testing.T) {
		s := NewStore("fallback-B", "")

		client, err := s.GetOrCreateClient("s1", "")
		require.NoError(t, err)
		assert.Equal(t, "fallback-B", client.APIKey())
	})

	t.Run("no credential at all yields ErrNotConfigured", func(t *testing.T) {
		s := NewStore("", "")

		_, err := s.GetOrCreateClient("s1", "")
		require.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestStore_ClientCachedAndImmutable(t *testing.T) {
	s := NewStore("", "")
	s.Register("s1")
	s.RememberCredential("s1", "key-1")

	first, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)

	// A later remembered credential does not rebuild the client; only an
	// explicit Configure does.
	s.RememberCredential("s1", "key-2")
	second, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "key-1", second.APIKey())

	replaced := s.Configure("s1", "key-2", "")
	assert.NotSame(t, first, replaced)
	assert.Equal(t, "key-2", replaced.APIKey())

	after, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)
	assert.Same(t, replaced, after)
}

func TestStore_ConcurrentGetOrCreateSettlesOnOneClient(t *testing.T) {
	s := NewStore("", "")
	s.Register("s1")
	s.RememberCredential("s1", "shared-key")

	const goroutines = 32
	clients := make([]*datamerge.Client, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			c, err := s.GetOrCreateClient("s1", "")
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, clients[0], clients[i], "all callers must observe the same client")
	}
}

func TestStore_ForgetIsComplete(t *testing.T) {
	s := NewStore("", "")
	s.Register("s1")
	s.RememberCredential("s1", "key-1")
	_, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)
	require.True(t, s.Known("s1"))

	s.Forget("s1")

	assert.False(t, s.Known("s1"))
	// Both the client and the remembered credential are gone.
	_, err = s.GetOrCreateClient("s1", "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	// Forgetting an unknown session is a no-op.
	s.Forget("never-seen")
}

func TestStore_ForgetIsFinal(t *testing.T) {
	t.Run("in-flight lookups cannot resurrect a forgotten session", func(t *testing.T) {
		s := NewStore("fallback", "")
		s.Register("s1")
		s.RememberCredential("s1", "session-key")
		s.Forget("s1")

		// The racing lookup still resolves via the fallback...
		client, err := s.GetOrCreateClient("s1", "")
		require.NoError(t, err)
		assert.Equal(t, "fallback", client.APIKey())

		// ...but the session stays dead.
		assert.False(t, s.Known("s1"), "forgotten session id must stay unknown")
		assert.Zero(t, s.Count())
	})

	t.Run("late credential writes are dropped", func(t *testing.T) {
		s := NewStore("", "")
		s.Register("s1")
		s.Forget("s1")

		s.RememberCredential("s1", "late-key")
		assert.False(t, s.Known("s1"))
		assert.Zero(t, s.Count())
		_, err := s.GetOrCreateClient("s1", "")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("late configure persists nothing", func(t *testing.T) {
		s := NewStore("", "")
		s.Register("s1")
		s.Forget("s1")

		client := s.Configure("s1", "late-key", "")
		assert.Equal(t, "late-key", client.APIKey(), "the caller still gets a usable client")
		assert.False(t, s.Known("s1"))
		assert.Zero(t, s.Count())
	})
}

func TestStore_ForgetFallsBackToProcessCredential(t *testing.T) {
	s := NewStore("fallback", "")
	s.Register("s1")
	s.RememberCredential("s1", "session-key")
	_, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)

	s.Forget("s1")

	client, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)
	assert.Equal(t, "fallback", client.APIKey())
}

func TestStore_RegisterAndCount(t *testing.T) {
	s := NewStore("", "")
	assert.Equal(t, 0, s.Count())

	s.Register("a")
	s.Register("a")
	s.Register("b")
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Known("a"))
	assert.False(t, s.Known("c"))
}

func TestStore_BaseURLAppliedToClients(t *testing.T) {
	s := NewStore("key", "https://staging.datamerge.example/v1")

	client, err := s.GetOrCreateClient("s1", "")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.datamerge.example/v1", client.BaseURL())

	// Configure may override per session.
	replaced := s.Configure("s1", "key", "https://other.example/v2")
	assert.Equal(t, "https://other.example/v2", replaced.BaseURL())
}
