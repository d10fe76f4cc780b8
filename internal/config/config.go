// ABOUTME: Configuration loading and parsing for campus-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is left empty in the file.
const (
	DefaultUsersURL         = "https://users.inf326.nursoft.dev"
	DefaultChannelsURL      = "https://channel-api.inf326.nur.dev"
	DefaultUpstreamTimeout  = 10 * time.Second
	DefaultListTimeout      = 5 * time.Second
	DefaultCacheTTL         = 5 * time.Minute
	DefaultFuzzyMaxDistance = 2
	DefaultFallbackAnswer   = "No entiendo. Prueba 'hola'."
)

// Config represents the complete campus-gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Upstreams UpstreamsConfig `yaml:"upstreams"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Chatbot   ChatbotConfig   `yaml:"chatbot"`
	CORS      CORSConfig      `yaml:"cors"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Hostname  string `yaml:"hostname"`
	AuthKey   string `yaml:"auth_key"`
	StateDir  string `yaml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral"`
	HTTPS     bool   `yaml:"https"`  // Serve HTTPS on :443 with Tailscale certs
	Funnel    bool   `yaml:"funnel"` // Enable public Funnel (implies HTTPS)
}

// UpstreamsConfig locates the external users and channels services.
type UpstreamsConfig struct {
	UsersURL    string        `yaml:"users_url"`
	ChannelsURL string        `yaml:"channels_url"`
	Timeout     time.Duration `yaml:"-"`
	ListTimeout time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	TimeoutRaw     string `yaml:"timeout"`
	ListTimeoutRaw string `yaml:"list_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration for the admin routes
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// ChatbotConfig tunes how chat messages are answered.
type ChatbotConfig struct {
	FuzzyMaxDistance *int          `yaml:"fuzzy_max_distance"`
	Fallback         string        `yaml:"fallback"`
	CacheTTL         time.Duration `yaml:"-"`
	CacheSize        int           `yaml:"cache_size"`

	CacheTTLRaw string `yaml:"cache_ttl"`
}

// MaxDistance returns the configured fuzzy distance, or the default when unset.
func (c ChatbotConfig) MaxDistance() int {
	if c.FuzzyMaxDistance == nil {
		return DefaultFuzzyMaxDistance
	}
	return *c.FuzzyMaxDistance
}

// CORSConfig lists the origins allowed to call the gateway from a browser.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a Config from raw YAML bytes. It is Load without the file read.
func Parse(data []byte) (*Config, error) {
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Upstreams.UsersURL == "" {
		cfg.Upstreams.UsersURL = DefaultUsersURL
	}
	if cfg.Upstreams.ChannelsURL == "" {
		cfg.Upstreams.ChannelsURL = DefaultChannelsURL
	}
	if cfg.Upstreams.Timeout == 0 {
		cfg.Upstreams.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstreams.ListTimeout == 0 {
		cfg.Upstreams.ListTimeout = DefaultListTimeout
	}
	if cfg.Chatbot.Fallback == "" {
		cfg.Chatbot.Fallback = DefaultFallbackAnswer
	}
	if cfg.Chatbot.CacheTTL == 0 {
		cfg.Chatbot.CacheTTL = DefaultCacheTTL
	}
	if cfg.Chatbot.CacheSize == 0 {
		cfg.Chatbot.CacheSize = 1024
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	// Server address is required unless Tailscale is enabled
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	for name, raw := range map[string]string{
		"upstreams.users_url":    c.Upstreams.UsersURL,
		"upstreams.channels_url": c.Upstreams.ChannelsURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.Chatbot.MaxDistance() < 0 {
		return fmt.Errorf("chatbot.fuzzy_max_distance must not be negative")
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 bytes")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Upstreams.TimeoutRaw != "" {
		cfg.Upstreams.Timeout, err = time.ParseDuration(cfg.Upstreams.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Upstreams.TimeoutRaw, err)
		}
	}

	if cfg.Upstreams.ListTimeoutRaw != "" {
		cfg.Upstreams.ListTimeout, err = time.ParseDuration(cfg.Upstreams.ListTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing list_timeout %q: %w", cfg.Upstreams.ListTimeoutRaw, err)
		}
	}

	if cfg.Chatbot.CacheTTLRaw != "" {
		cfg.Chatbot.CacheTTL, err = time.ParseDuration(cfg.Chatbot.CacheTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache_ttl %q: %w", cfg.Chatbot.CacheTTLRaw, err)
		}
	}

	return nil
}
