// ABOUTME: Tests for tailnet listener settings
// ABOUTME: Covers mode selection, state directory and auth key fallback

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo9/campus-g9/internal/config"
)

func TestModeOf(t *testing.T) {
	assert.Equal(t, tailnetHTTP, modeOf(config.TailscaleConfig{}))
	assert.Equal(t, tailnetHTTPS, modeOf(config.TailscaleConfig{HTTPS: true}))
	assert.Equal(t, tailnetFunnel, modeOf(config.TailscaleConfig{HTTPS: true, Funnel: true}))
}

func TestTailnetStateDir(t *testing.T) {
	dir, err := tailnetStateDir("/srv/ts")
	require.NoError(t, err)
	assert.Equal(t, "/srv/ts", dir)

	t.Setenv("HOME", "/home/campus")
	dir, err = tailnetStateDir("")
	require.NoError(t, err)
	assert.Equal(t, "/home/campus/.local/share/campus-gateway/tailscale", dir)
}

func TestTailnetAuthKey(t *testing.T) {
	t.Setenv("TS_AUTHKEY", "")
	_, err := tailnetAuthKey("")
	assert.Error(t, err)

	t.Setenv("TS_AUTHKEY", "tskey-env")
	key, err := tailnetAuthKey("")
	require.NoError(t, err)
	assert.Equal(t, "tskey-env", key)

	key, err = tailnetAuthKey("tskey-config")
	require.NoError(t, err)
	assert.Equal(t, "tskey-config", key)
}
