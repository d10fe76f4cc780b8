// ABOUTME: Tailscale listener for campus-gateway: joins the tailnet with tsnet
// ABOUTME: Serves plain HTTP on :80, HTTPS with tailnet certs, or a public Funnel

package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/grupo9/campus-g9/internal/config"
)

// tailnetMode picks how the gateway is exposed on the tailnet.
type tailnetMode int

const (
	tailnetHTTP tailnetMode = iota
	tailnetHTTPS
	tailnetFunnel
)

func modeOf(cfg config.TailscaleConfig) tailnetMode {
	switch {
	case cfg.Funnel:
		return tailnetFunnel
	case cfg.HTTPS:
		return tailnetHTTPS
	default:
		return tailnetHTTP
	}
}

// tailnetStateDir defaults to ~/.local/share/campus-gateway/tailscale.
func tailnetStateDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no home directory for tailscale state, set tailscale.state_dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "campus-gateway", "tailscale"), nil
}

// tailnetAuthKey prefers the configured key, then TS_AUTHKEY.
func tailnetAuthKey(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if key := os.Getenv("TS_AUTHKEY"); key != "" {
		return key, nil
	}
	return "", errors.New("tailscale auth key required: set tailscale.auth_key or TS_AUTHKEY")
}

// listenTailnet brings up the tsnet node and opens the listener for the
// configured mode. On failure the node is closed again.
func (g *Gateway) listenTailnet(ctx context.Context) (ln net.Listener, err error) {
	tsCfg := g.config.Tailscale

	stateDir, err := tailnetStateDir(tsCfg.StateDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}
	authKey, err := tailnetAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, err
	}

	srv := &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}
	defer func() {
		if err != nil {
			_ = srv.Close()
		}
	}()

	g.logger.Info("joining tailnet", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := srv.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting tailscale: %w", err)
	}
	g.logTailnetStatus(tsCfg.Hostname, status)

	switch modeOf(tsCfg) {
	case tailnetFunnel:
		g.logger.Info("tailscale funnel enabled, serving public HTTPS on :443")
		ln, err = srv.ListenFunnel("tcp", ":443")
	case tailnetHTTPS:
		g.logger.Info("serving HTTPS with tailnet certs on :443")
		ln, err = listenTailnetTLS(srv)
	default:
		ln, err = srv.Listen("tcp", ":80")
	}
	if err != nil {
		return nil, fmt.Errorf("tailnet listener: %w", err)
	}

	g.tsnetServer = srv
	return ln, nil
}

func listenTailnetTLS(srv *tsnet.Server) (net.Listener, error) {
	lc, err := srv.LocalClient()
	if err != nil {
		return nil, fmt.Errorf("tailscale local client: %w", err)
	}
	ln, err := srv.Listen("tcp", ":443")
	if err != nil {
		return nil, err
	}
	return tls.NewListener(ln, &tls.Config{
		GetCertificate: lc.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}), nil
}

func (g *Gateway) logTailnetStatus(hostname string, status *ipnstate.Status) {
	var ip, dnsName string
	if len(status.TailscaleIPs) > 0 {
		ip = status.TailscaleIPs[0].String()
	} else {
		g.logger.Warn("tailnet node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = status.Self.DNSName
	}
	g.logger.Info("tailnet node ready", "hostname", hostname, "tailscale_ip", ip, "dns_name", dnsName)
}
