package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	t.Parallel()

	h := NewHub()
	client, err := h.Register("p1", nil)
	require.NoError(t, err)
	assert.True(t, h.IsOnline("p1"))
	assert.Equal(t, 1, h.ConnectionCount())

	h.UnregisterClient(client)
	assert.False(t, h.IsOnline("p1"))
	assert.Equal(t, 0, h.ConnectionCount())

	// Unregistering twice must not corrupt the count.
	h.UnregisterClient(client)
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestHub_PerProfileConnectionLimit(t *testing.T) {
	t.Parallel()

	h := NewHub()
	for i := 0; i < maxConnsPerProfile; i++ {
		_, err := h.Register("p1", nil)
		require.NoError(t, err)
	}
	_, err := h.Register("p1", nil)
	assert.Error(t, err)

	// Other profiles are unaffected.
	_, err = h.Register("p2", nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastReachesAllProfileClients(t *testing.T) {
	t.Parallel()

	h := NewHub()
	c1, err := h.Register("p1", nil)
	require.NoError(t, err)
	c2, err := h.Register("p1", nil)
	require.NoError(t, err)
	other, err := h.Register("p2", nil)
	require.NoError(t, err)

	h.Broadcast("p1", []byte("hello"))

	assert.Equal(t, []byte("hello"), <-c1.Send)
	assert.Equal(t, []byte("hello"), <-c2.Send)
	select {
	case <-other.Send:
		t.Fatal("p2 must not receive p1's message")
	default:
	}
}

func TestClient_TrySendDropsOnFullBuffer(t *testing.T) {
	t.Parallel()

	h := NewHub()
	c, err := h.Register("p1", nil)
	require.NoError(t, err)

	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("fill")
	}

	// Must not block even though the buffer is full.
	c.TrySend([]byte("overflow"))
	assert.Len(t, c.Send, cap(c.Send))
}
