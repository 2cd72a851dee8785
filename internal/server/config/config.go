// Package config handles configuration for the devserver, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the blogdesk devserver.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the REST API (/api/Auth, /api/Post).
//   - EndpointAddrAuth: second REST listener, matching the client's default
//     auth base URL. "" disables it.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint, "" disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps all data in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty means a random
//     secret per process, so tokens do not survive a restart.
//   - AccessTokenValidityDuration: lifetime of issued tokens.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrAuth            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrAuth = ":8081"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
