// ABOUTME: Gateway orchestrator that wires upstream clients, chatbot and HTTP server
// ABOUTME: Manages listeners (TCP or Tailscale), store lifecycle and health endpoints

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"tailscale.com/tsnet"

	"github.com/grupo9/campus-g9/internal/auth"
	"github.com/grupo9/campus-g9/internal/chatbot"
	"github.com/grupo9/campus-g9/internal/config"
	"github.com/grupo9/campus-g9/internal/store"
	"github.com/grupo9/campus-g9/internal/upstream"
)

// Gateway is the campus-gateway HTTP server.
type Gateway struct {
	config      *config.Config
	store       store.AnswerStore
	bot         *chatbot.Bot
	users       *upstream.Users
	channels    *upstream.Channels
	verifier    *auth.JWTVerifier
	upgrader    websocket.Upgrader
	sessions    *chatSessions
	handler     http.Handler
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	logger      *slog.Logger
}

// initStore opens the knowledge base named by config or CAMPUS_DB_PATH.
func initStore(cfg *config.Config) (store.AnswerStore, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("CAMPUS_DB_PATH"); envPath != "" {
		dbPath = envPath
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// New creates a Gateway backed by the SQLite knowledge base from cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	gw, err := NewWithStore(cfg, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return gw, nil
}

// NewWithStore creates a Gateway using an already opened store. The Gateway
// owns the store from here on and closes it on Shutdown.
func NewWithStore(cfg *config.Config, s store.AnswerStore, logger *slog.Logger) (*Gateway, error) {
	bot, err := chatbot.New(chatbot.Config{
		Store:       s,
		Logger:      logger.With("component", "chatbot"),
		MaxDistance: cfg.Chatbot.MaxDistance(),
		Fallback:    cfg.Chatbot.Fallback,
		CacheTTL:    cfg.Chatbot.CacheTTL,
		CacheSize:   cfg.Chatbot.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chatbot: %w", err)
	}

	upstreamLogger := logger.With("component", "upstream")
	gw := &Gateway{
		config: cfg,
		store:  s,
		bot:    bot,
		users:  upstream.NewUsers(cfg.Upstreams.UsersURL, nil, cfg.Upstreams.Timeout, upstreamLogger),
		channels: upstream.NewChannels(cfg.Upstreams.ChannelsURL, nil,
			cfg.Upstreams.Timeout, cfg.Upstreams.ListTimeout, upstreamLogger),
		upgrader: newUpgrader(cfg.CORS.AllowedOrigins),
		sessions: newChatSessions(),
		logger:   logger.With("component", "gateway"),
	}

	if cfg.Auth.JWTSecret != "" {
		verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		if err != nil {
			bot.Close()
			return nil, fmt.Errorf("creating JWT verifier: %w", err)
		}
		gw.verifier = verifier
	}

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("GET /health/ready", gw.handleReady)

	gw.registerProxyRoutes(mux)
	mux.HandleFunc("POST /api/chat", gw.handleChat)
	mux.HandleFunc("GET /api/chat/ws", gw.handleChatSocket)
	gw.registerAnswerRoutes(mux)

	gw.handler = requestLogger(gw.logger, cors(cfg.CORS.AllowedOrigins, mux))

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           gw.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	gw.httpServer.RegisterOnShutdown(gw.sessions.cancel)

	return gw, nil
}

// Handler returns the gateway's complete HTTP handler, middleware included.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// setupListener creates the HTTP listener (Tailscale or TCP).
func (g *Gateway) setupListener(ctx context.Context) (net.Listener, error) {
	if g.config.Tailscale.Enabled {
		if g.config.Server.HTTPAddr != "" {
			g.logger.Warn("server.http_addr is ignored when tailscale is enabled",
				"http_addr", g.config.Server.HTTPAddr,
			)
		}
		return g.listenTailnet(ctx)
	}

	g.logger.Info("starting gateway", "http_addr", g.config.Server.HTTPAddr)
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// Run serves HTTP until ctx is canceled or the server fails, then shuts
// down. Returns nil on graceful shutdown.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := g.setupListener(ctx)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// The Run context is already canceled at this point.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server, ends open chat sockets and releases the
// tailnet node, the chatbot cache and the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", g.httpServer.Shutdown(ctx))
	errs = appendCloseError(errs, "chat sockets", g.sessions.close(ctx))

	if g.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", g.tsnetServer.Close())
	}

	g.bot.Close()
	errs = appendCloseError(errs, "store close", g.store.Close())

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK when the knowledge base answers a ping.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := g.store.Ping(r.Context()); err != nil {
		g.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("knowledge base unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
