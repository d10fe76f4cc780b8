// ABOUTME: Terminal client for Campus G9: login, channels and the chatbot
// ABOUTME: Talks to campus-gateway over HTTP and logs to a file while running

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupo9/campus-g9/internal/client"
	"github.com/grupo9/campus-g9/internal/clientconfig"
	"github.com/grupo9/campus-g9/internal/tui"
)

func main() {
	gatewayURL := flag.String("gateway", "", "Gateway URL (overrides gateway.url / CAMPUS_GATEWAY_URL)")
	flag.Parse()

	if err := run(*gatewayURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(gatewayURL string) error {
	cfg, err := clientconfig.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if gatewayURL != "" {
		cfg.Gateway.URL = gatewayURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("starting campus-tui", "gateway", cfg.Gateway.URL)

	api := client.New(cfg.Gateway.URL, &http.Client{Timeout: cfg.Gateway.Timeout})
	model := tui.New(api, tui.Options{
		Logger:       logger,
		RefreshDelay: cfg.UI.RefreshDelay,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running client: %w", err)
	}
	return nil
}

// openLog sends JSON log lines to the configured file, since the terminal
// belongs to the UI.
func openLog(cfg clientconfig.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
