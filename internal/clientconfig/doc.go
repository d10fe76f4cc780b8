// Package clientconfig loads campus-tui settings.
//
// # Sources
//
// Values are layered, later sources winning:
//
//  1. built-in defaults (gateway http://localhost:8000, 10s timeout)
//  2. the TOML file at CAMPUS_CLIENT_CONFIG, else ~/.config/campus/client.toml
//  3. CAMPUS_* environment variables, e.g. CAMPUS_GATEWAY_URL
//
// A missing file is not an error. The result is validated before it is
// returned.
//
// # Example
//
//	[gateway]
//	url = "http://campus.tailnet:80"
//	timeout = "15s"
//
//	[ui]
//	refresh_delay = "500ms"
//
//	[log]
//	file = "/tmp/campus-tui.log"
//	level = "debug"
package clientconfig
