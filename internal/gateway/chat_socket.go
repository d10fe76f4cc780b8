// ABOUTME: WebSocket variant of the chat route for clients that keep a session open
// ABOUTME: One {"text"} frame in, one {content, author} frame out, with ping keepalive

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	chatSocketReadLimit = 64 * 1024
	chatSocketPongWait  = 60 * time.Second
	chatSocketPingEvery = 30 * time.Second
	chatSocketWriteWait = 10 * time.Second
	chatSocketQueue     = 16
)

// newUpgrader accepts the same origins as the CORS middleware. Requests
// without an Origin header (non-browser clients) are always accepted.
func newUpgrader(origins []string) websocket.Upgrader {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowAll || origin == "" || slices.Contains(origins, origin)
		},
	}
}

// chatSessions tracks open chat sockets. http.Server.Shutdown does not wait
// for hijacked connections, so the gateway ends them itself before closing
// the store.
type chatSessions struct {
	ctx    context.Context // canceled when the gateway shuts down
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newChatSessions() *chatSessions {
	ctx, cancel := context.WithCancel(context.Background())
	return &chatSessions{ctx: ctx, cancel: cancel}
}

// begin registers a session. It returns false once close has started.
func (s *chatSessions) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *chatSessions) end() {
	s.wg.Done()
}

// close refuses new sessions, tells open ones to finish and waits for them
// until ctx expires.
func (s *chatSessions) close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for chat sockets: %w", ctx.Err())
	}
}

// handleChatSocket handles GET /api/chat/ws.
func (g *Gateway) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	if !g.sessions.begin() {
		g.sendJSONError(w, http.StatusServiceUnavailable, "shutting down")
		return
	}
	defer g.sessions.end()

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		g.logger.Debug("chat socket upgrade failed", "error", err)
		return
	}

	// Shutdown unblocks the read loop by closing the connection.
	stop := context.AfterFunc(g.sessions.ctx, func() {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(chatSocketWriteWait))
		_ = conn.Close()
	})
	defer stop()

	send := make(chan any, chatSocketQueue)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		g.chatWritePump(conn, send)
	}()

	g.chatReadPump(g.sessions.ctx, conn, send, writerDone)
	close(send)
	<-writerDone
}

// chatReadPump answers frames until the peer goes away or the writer stops.
func (g *Gateway) chatReadPump(ctx context.Context, conn *websocket.Conn, send chan<- any, writerDone <-chan struct{}) {
	conn.SetReadLimit(chatSocketReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(chatSocketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatSocketPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Warn("chat socket closed unexpectedly", "error", err)
			}
			return
		}

		out := g.answerFrame(ctx, data)

		select {
		case send <- out:
		case <-writerDone:
			return
		}
	}
}

// answerFrame turns one inbound frame into the reply or error to send back.
func (g *Gateway) answerFrame(ctx context.Context, data []byte) any {
	var req ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse{Detail: "invalid JSON body"}
	}
	if err := req.validate(); err != nil {
		return errorResponse{Detail: err.Error()}
	}
	return g.bot.Answer(ctx, *req.Text)
}

// chatWritePump owns all writes to conn. It closes conn when it returns.
func (g *Gateway) chatWritePump(conn *websocket.Conn, send <-chan any) {
	ticker := time.NewTicker(chatSocketPingEvery)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case v, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(chatSocketWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(v); err != nil {
				g.logger.Debug("chat socket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(chatSocketWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
