// Package config handles configuration loading for campus-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CAMPUS_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/campus/gateway.yaml
//  3. ~/.config/campus/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CAMPUS_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Upstream services (defaults shown):
//
//	upstreams:
//	  users_url: "https://users.inf326.nursoft.dev"
//	  channels_url: "https://channel-api.inf326.nur.dev"
//	  timeout: "10s"       # auth and channel writes
//	  list_timeout: "5s"   # channel list reads
//
// Chatbot knowledge base:
//
//	database:
//	  path: "/var/lib/campus/answers.db"
//
//	chatbot:
//	  fuzzy_max_distance: 2   # 0 disables fuzzy matching
//	  fallback: "No entiendo. Prueba 'hola'."
//	  cache_ttl: "5m"
//	  cache_size: 1024
//
// Admin routes (omit to disable them):
//
//	auth:
//	  jwt_secret: "${CAMPUS_JWT_SECRET}"   # at least 32 bytes
//
// Browser access and Tailscale:
//
//	cors:
//	  allowed_origins: ["*"]
//
//	tailscale:
//	  enabled: false
//	  hostname: "campus-gateway"
//	  auth_key: "${TS_AUTHKEY}"
//	  https: true
//	  funnel: false
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
