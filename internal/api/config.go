package api

import (
	"time"

	"github.com/FocuswithJustin/BibleHere/internal/config"
)

// Config holds server configuration.
type Config struct {
	Port              int
	Version           string     // reported by GET /
	RateLimitRequests int        // requests per minute (0 = disabled)
	RateLimitBurst    int        // burst size
	Auth              AuthConfig // authentication configuration
	TLS               TLSConfig  // TLS configuration
	AllowedOrigins    []string   // CORS and WebSocket origins (empty = allow all)
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// FromConfig maps the server section of the configuration file.
func FromConfig(c config.ServerConfig, version string) Config {
	return Config{
		Port:              c.Port,
		Version:           version,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitBurst:    c.RateLimitBurst,
		Auth:              AuthConfig{Enabled: c.APIKey != "", APIKey: c.APIKey},
		TLS:               TLSConfig{Enabled: c.TLSCert != "", CertFile: c.TLSCert, KeyFile: c.TLSKey},
		AllowedOrigins:    c.AllowedOrigins,
		ReadTimeout:       c.ReadTimeout,
		WriteTimeout:      c.WriteTimeout,
	}
}
