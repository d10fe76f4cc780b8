// ABOUTME: Entry point for campus-gateway, the Campus G9 API gateway
// ABOUTME: Serves the proxy and chat routes and manages the chatbot knowledge base

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/grupo9/campus-g9/internal/client"
	"github.com/grupo9/campus-g9/internal/config"
	"github.com/grupo9/campus-g9/internal/gateway"
)

// Version is set at build time.
var version = "dev"

const banner = `
                                                    ___
  ___ __ _ _ __ ___  _ __  _   _ ___        __ _  / _ \
 / __/ _' | '_ ' _ \| '_ \| | | / __|_____ / _' || (_) |
| (_| (_| | | | | | | |_) | |_| \__ \_____| (_| | \__, |
 \___\__,_|_| |_| |_| .__/ \__,_|___/      \__, |   /_/
                    |_|                    |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: CAMPUS_CONFIG env var > XDG_CONFIG_HOME/campus/gateway.yaml > ~/.config/campus/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("CAMPUS_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "campus", "gateway.yaml")
}

// getDataPath returns the directory holding the knowledge base.
// Priority: XDG_DATA_HOME/campus > ~/.local/share/campus
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "campus")
}

func usage() {
	fmt.Println("Usage: campus-gateway <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                          Start the gateway server")
	fmt.Println("  init                           Create a new config file interactively")
	fmt.Println("  health                         Check gateway health")
	fmt.Println("  token --subject NAME [--ttl D] Mint a token for the answer admin routes")
	fmt.Println("  answers list                   List knowledge-base answers")
	fmt.Println("  answers set QUESTION ANSWER    Add or replace an answer")
	fmt.Println("  answers delete QUESTION        Remove an answer")
	fmt.Println("  answers import FILE.toml       Load [[answer]] entries from a TOML file")
	fmt.Println()
	fmt.Println("answers commands go through the running gateway's admin routes when it is")
	fmt.Println("reachable at server.http_addr and auth.jwt_secret is set. Otherwise, or with")
	fmt.Println("answers --local, they edit the database directly and a running gateway may")
	fmt.Println("keep serving cached replies for up to chatbot.cache_ttl.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	case "token":
		err = runToken(os.Args[2:])
	case "answers":
		err = runAnswers(ctx, os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Users:     %s\n", cfg.Upstreams.UsersURL)
	green.Print("    ▶ ")
	fmt.Printf("Channels:  %s\n", cfg.Upstreams.ChannelsURL)
	green.Print("    ▶ ")
	fmt.Printf("Answers:   %s\n", cfg.Database.Path)

	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel {
			yellow.Print(" [funnel]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	}
	if cfg.Auth.JWTSecret == "" {
		yellow.Print("    ! ")
		fmt.Println("Admin:     disabled (no auth.jwt_secret)")
	}

	fmt.Println()

	logger.Info("starting campus-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"users_url", cfg.Upstreams.UsersURL,
		"channels_url", cfg.Upstreams.ChannelsURL,
	)

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = &colorHandler{level: level}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	writeAttr := func(a slog.Attr) {
		buf.WriteString(color.HiBlackString(" " + prefix + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	buf.WriteString("\n")

	stdoutMu.Lock()
	defer stdoutMu.Unlock()
	fmt.Print(buf.String())
	return nil
}

// stdoutMu serialises writes from every handler derived from the root.
var stdoutMu sync.Mutex

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := client.New(localGatewayURL(cfg), nil)
	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	color.Green("healthy")
	return nil
}

// localGatewayURL is the address a gateway started from cfg listens on.
func localGatewayURL(cfg *config.Config) string {
	return "http://" + cfg.Server.HTTPAddr
}

// newSecret returns a random base64 secret long enough for auth.jwt_secret.
func newSecret() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secretBytes), nil
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("campus-gateway configuration setup")
	fmt.Println("==================================")
	fmt.Println()

	defaultConfigPath := getConfigPath()
	defaultDbPath := filepath.Join(getDataPath(), "answers.db")

	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8000")

	fmt.Println("\n--- Upstream Services ---")
	usersURL := prompt(reader, "Users service URL", config.DefaultUsersURL)
	channelsURL := prompt(reader, "Channels service URL", config.DefaultChannelsURL)

	fmt.Println("\n--- Knowledge Base ---")
	dbPath := prompt(reader, "SQLite database path", defaultDbPath)

	fmt.Println("\n--- Admin Routes ---")
	var jwtSecret string
	if isYes(prompt(reader, "Enable answer admin routes?", "yes")) {
		var err error
		if jwtSecret, err = newSecret(); err != nil {
			return err
		}
	}

	fmt.Println("\n--- Tailscale Configuration ---")
	tailscaleEnabled := isYes(prompt(reader, "Enable Tailscale?", "no"))

	var tsHostname, tsAuthKey string
	var tsEphemeral, tsFunnel bool
	if tailscaleEnabled {
		tsHostname = prompt(reader, "Tailscale hostname", "campus-gateway")
		tsAuthKey = prompt(reader, "Tailscale auth key (leave empty for interactive)", "")
		tsEphemeral = isYes(prompt(reader, "Ephemeral node?", "no"))
		tsFunnel = isYes(prompt(reader, "Enable Funnel (public HTTPS)?", "no"))
	}

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	var cfg strings.Builder
	cfg.WriteString("# campus-gateway configuration\n")
	cfg.WriteString("# Generated by campus-gateway init\n\n")

	cfg.WriteString("server:\n")
	fmt.Fprintf(&cfg, "  http_addr: %q\n\n", httpAddr)

	cfg.WriteString("upstreams:\n")
	fmt.Fprintf(&cfg, "  users_url: %q\n", usersURL)
	fmt.Fprintf(&cfg, "  channels_url: %q\n", channelsURL)
	cfg.WriteString("  timeout: \"10s\"\n")
	cfg.WriteString("  list_timeout: \"5s\"\n\n")

	cfg.WriteString("database:\n")
	fmt.Fprintf(&cfg, "  path: %q\n\n", dbPath)

	if jwtSecret != "" {
		cfg.WriteString("auth:\n")
		fmt.Fprintf(&cfg, "  jwt_secret: %q\n\n", jwtSecret)
	}

	cfg.WriteString("chatbot:\n")
	cfg.WriteString("  fuzzy_max_distance: 2\n")
	cfg.WriteString("  cache_ttl: \"5m\"\n\n")

	cfg.WriteString("tailscale:\n")
	fmt.Fprintf(&cfg, "  enabled: %t\n", tailscaleEnabled)
	if tailscaleEnabled {
		fmt.Fprintf(&cfg, "  hostname: %q\n", tsHostname)
		if tsAuthKey != "" {
			fmt.Fprintf(&cfg, "  auth_key: %q\n", tsAuthKey)
		}
		fmt.Fprintf(&cfg, "  ephemeral: %t\n", tsEphemeral)
		fmt.Fprintf(&cfg, "  funnel: %t\n", tsFunnel)
	}
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	fmt.Fprintf(&cfg, "  level: %q\n", logLevel)
	fmt.Fprintf(&cfg, "  format: %q\n", logFormat)

	if _, err := config.Parse([]byte(cfg.String())); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// The file can hold the JWT secret.
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  campus-gateway serve\n")
	if jwtSecret != "" {
		fmt.Println("To mint an admin token:")
		fmt.Printf("  campus-gateway token --subject you\n")
	}

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
