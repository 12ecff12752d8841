package server

import (
	"net"
	"net/http"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, addr, token string) (*gws.Conn, *http.Response, error) {
	t.Helper()
	url := "ws://" + addr + "/api/ws"
	if token != "" {
		url += "?token=" + token
	}
	dialer := gws.Dialer{HandshakeTimeout: 2 * time.Second}
	return dialer.Dial(url, nil)
}

func TestWebSocketRealtimeDelivery(t *testing.T) {
	s := newTestServer(t)
	token, profileID := signupUser(t, s, "casey")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.App().Listener(ln) }()
	t.Cleanup(func() { _ = s.App().Shutdown() })

	conn, _, err := dialWS(t, ln.Addr().String(), token)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool {
		return s.hub.IsOnline(profileID)
	}, 2*time.Second, 10*time.Millisecond)

	payload := []byte(`{"event":"message.created","conversationId":"c1"}`)
	s.hub.Broadcast(profileID, payload)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(msg))
}

func TestWebSocketRequiresToken(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.App().Listener(ln) }()
	t.Cleanup(func() { _ = s.App().Shutdown() })

	_, resp, err := dialWS(t, ln.Addr().String(), "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
