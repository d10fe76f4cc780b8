// ABOUTME: campus-tui settings loaded through viper from TOML and CAMPUS_* env vars
// ABOUTME: Applies defaults for gateway URL, timeouts, refresh delay and log file

package clientconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds client configuration.
type Config struct {
	Gateway GatewayConfig `mapstructure:"gateway"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

// GatewayConfig locates campus-gateway.
type GatewayConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// RefreshDelay is how long to wait after a channel write before reloading
	// the channel lists.
	RefreshDelay time.Duration `mapstructure:"refresh_delay"`
}

// LogConfig says where the client writes its log while the UI owns the terminal.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// CAMPUS_ (gateway.url becomes CAMPUS_GATEWAY_URL).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("gateway.url", "http://localhost:8000")
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("ui.refresh_delay", "500ms")
	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CAMPUS_CLIENT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(configHome(), "campus"))
		v.SetConfigName("client")
	}

	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(cfgPath == "" && os.IsNotExist(err)) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if c.Gateway.URL == "" {
		return errors.New("gateway.url is required")
	}
	if !strings.HasPrefix(c.Gateway.URL, "http://") && !strings.HasPrefix(c.Gateway.URL, "https://") {
		return fmt.Errorf("gateway.url must start with http:// or https://, got %q", c.Gateway.URL)
	}
	if c.Gateway.Timeout < 0 {
		return errors.New("gateway.timeout must not be negative")
	}
	if c.UI.RefreshDelay < 0 {
		return errors.New("ui.refresh_delay must not be negative")
	}
	return nil
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(stateHome, "campus", "tui.log")
}
