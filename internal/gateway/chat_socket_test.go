// ABOUTME: Tests for the WebSocket chat route over a real listener
// ABOUTME: Covers replies, error frames, origin checks and shutdown

package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo9/campus-g9/internal/chatbot"
)

func dialChat(t *testing.T, gw *Gateway, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(gw.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func TestChatSocket_AnswersEachFrame(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	conn, _, err := dialChat(t, gw, nil)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for _, tt := range []struct{ text, want string }{
		{"hola", chatbot.GreetingReply},
		{"cuál es la fecha?", chatbot.ExamDateReply},
	} {
		require.NoError(t, conn.WriteJSON(map[string]string{"text": tt.text}))

		var reply chatbot.Reply
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, tt.want, reply.Content)
		assert.Equal(t, chatbot.Author, reply.Author)
	}
}

func TestChatSocket_BadFramesKeepSessionOpen(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	conn, _, err := dialChat(t, gw, nil)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var e errorResponse
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, "invalid JSON body", e.Detail)

	require.NoError(t, conn.WriteJSON(map[string]any{}))
	e = errorResponse{}
	require.NoError(t, conn.ReadJSON(&e))
	assert.Contains(t, e.Detail, "text")

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "hola"}))
	var reply chatbot.Reply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, chatbot.GreetingReply, reply.Content)
}

func TestChatSocket_RejectsUnknownOrigin(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.CORS.AllowedOrigins = []string{"https://campus.example"}
	gw, _ := newTestGatewayWithConfig(t, cfg)

	_, resp, err := dialChat(t, gw, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialChat(t, gw, http.Header{"Origin": {"https://campus.example"}})
	require.NoError(t, err)
	assert.NotNil(t, conn)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/chat/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := newUpgrader(nil)
	assert.True(t, open.CheckOrigin(req("https://anything.example")))

	limited := newUpgrader([]string{"https://campus.example"})
	assert.True(t, limited.CheckOrigin(req("")))
	assert.True(t, limited.CheckOrigin(req("https://campus.example")))
	assert.False(t, limited.CheckOrigin(req("https://evil.example")))
}

func TestChatSocket_ShutdownEndsOpenSessions(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	conn, _, err := dialChat(t, gw, nil)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// One round trip guarantees the session is registered.
	require.NoError(t, conn.WriteJSON(map[string]string{"text": "hola"}))
	var reply chatbot.Reply
	require.NoError(t, conn.ReadJSON(&reply))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, gw.Shutdown(ctx))

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	_, resp, err := dialChat(t, gw, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
