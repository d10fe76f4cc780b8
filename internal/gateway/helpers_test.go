// ABOUTME: Shared fixtures for gateway tests
// ABOUTME: Builds a Gateway wired to an httptest upstream and an in-memory store

package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grupo9/campus-g9/internal/config"
	"github.com/grupo9/campus-g9/internal/store"
)

const testJWTSecret = "gateway-test-secret-at-least-32-bytes"

// upstreamCall is one request seen by the fake upstream.
type upstreamCall struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeUpstream serves both the users and channels services from one mux.
type fakeUpstream struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls []upstreamCall
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{mux: http.NewServeMux()}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := upstreamCall{Method: r.Method, Path: r.URL.EscapedPath()}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &call.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

// reply registers a canned JSON answer for pattern.
func (f *fakeUpstream) reply(pattern string, status int, body string) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeUpstream) lastCall(t *testing.T) upstreamCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "upstream was not called")
	return f.calls[len(f.calls)-1]
}

func (f *fakeUpstream) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// testLogger creates a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(upstreamURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Upstreams: config.UpstreamsConfig{
			UsersURL:    upstreamURL,
			ChannelsURL: upstreamURL,
			Timeout:     2 * time.Second,
			ListTimeout: 200 * time.Millisecond,
		},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Auth:     config.AuthConfig{JWTSecret: testJWTSecret},
		Chatbot: config.ChatbotConfig{
			CacheTTL:  time.Minute,
			CacheSize: 64,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// newTestGateway builds a gateway whose upstreams point at f.
func newTestGateway(t *testing.T, f *fakeUpstream) (*Gateway, *store.MockStore) {
	t.Helper()
	url := "http://127.0.0.1:1"
	if f != nil {
		url = f.URL
	}
	return newTestGatewayWithConfig(t, testConfig(url))
}

func newTestGatewayWithConfig(t *testing.T, cfg *config.Config) (*Gateway, *store.MockStore) {
	t.Helper()
	s := store.NewMockStore()
	gw, err := NewWithStore(cfg, s, testLogger())
	require.NoError(t, err)
	t.Cleanup(gw.bot.Close)
	return gw, s
}

// do sends a request through the full handler chain.
func do(t *testing.T, gw *Gateway, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)
	return rec
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Detail
}
