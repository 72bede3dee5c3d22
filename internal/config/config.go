// Package config loads the BibleHere configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration. Zero sections are filled from
// Default by Load and Parse.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
	Canon   CanonConfig   `yaml:"canon"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port              int           `yaml:"port"`
	AllowedOrigins    []string      `yaml:"allowed_origins,omitempty"` // empty = allow all
	RateLimitRequests int           `yaml:"rate_limit_requests"`       // per minute, 0 = disabled
	RateLimitBurst    int           `yaml:"rate_limit_burst"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	// APIKey enables X-API-Key authentication when set.
	APIKey  string `yaml:"api_key,omitempty"`
	TLSCert string `yaml:"tls_cert,omitempty"`
	TLSKey  string `yaml:"tls_key,omitempty"`
}

// StorageConfig locates the corpus database.
type StorageConfig struct {
	Database string `yaml:"database"`
	// Watch reloads the corpus when the database file changes.
	Watch bool `yaml:"watch"`
}

// SearchConfig holds search dispatcher defaults.
type SearchConfig struct {
	DefaultVersions  []string      `yaml:"default_versions"`
	DefaultPageSize  int           `yaml:"default_page_size"`
	MaxPageSize      int           `yaml:"max_page_size"`
	NgramSize        int           `yaml:"ngram_size"`
	NgramMinOverlap  float64       `yaml:"ngram_min_overlap"`
	MaxRegexLength   int           `yaml:"max_regex_length"`
	StopwordLanguage string        `yaml:"stopword_language"`
	HighlightPre     string        `yaml:"highlight_pre"`
	HighlightPost    string        `yaml:"highlight_post"`
	CacheSize        int           `yaml:"cache_size"` // 0 disables the result cache
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	SuggestLimit     int           `yaml:"suggest_limit"`
}

// HistoryConfig bounds the search history log.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CanonConfig configures book-name handling.
type CanonConfig struct {
	DefaultLocale string `yaml:"default_locale"`
	// AliasFile adds aliases from a YAML file shaped like the built-in table.
	AliasFile string `yaml:"alias_file,omitempty"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			RateLimitRequests: 600,
			RateLimitBurst:    60,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		Storage: StorageConfig{
			Database: "biblehere.db",
		},
		Search: SearchConfig{
			DefaultVersions:  []string{"KJV"},
			DefaultPageSize:  20,
			MaxPageSize:      100,
			NgramSize:        2,
			NgramMinOverlap:  0.5,
			MaxRegexLength:   512,
			StopwordLanguage: "en",
			HighlightPre:     "<mark>",
			HighlightPost:    "</mark>",
			CacheSize:        256,
			CacheTTL:         time.Hour,
			SuggestLimit:     10,
		},
		History: HistoryConfig{
			Capacity: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Canon: CanonConfig{
			DefaultLocale: "en",
		},
	}
}

// GetConfigDir returns the XDG-compliant config directory.
func GetConfigDir() (string, error) {
	if override := os.Getenv("BIBLEHERE_CONFIG_DIR"); override != "" {
		return override, nil
	}

	var base string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		base = xdg
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "biblehere"), nil
}

// Load reads path, or config.yaml in the config directory when path is
// empty. A missing default file yields Default; a missing explicit file is
// an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case os.IsNotExist(err) && !explicit:
		cfg := Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML on top of Default, so omitted keys keep their
// defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides the database path, port and API key from
// BIBLEHERE_DB, BIBLEHERE_PORT and BIBLEHERE_API_KEY.
func (c *Config) ApplyEnv() error {
	if key := os.Getenv("BIBLEHERE_API_KEY"); key != "" {
		c.Server.APIKey = key
	}
	if db := os.Getenv("BIBLEHERE_DB"); db != "" {
		c.Storage.Database = db
	}
	if p := os.Getenv("BIBLEHERE_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("BIBLEHERE_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	case c.Storage.Database == "":
		return fmt.Errorf("storage.database must be set")
	case c.Search.DefaultPageSize <= 0 || c.Search.MaxPageSize <= 0:
		return fmt.Errorf("search page sizes must be positive")
	case c.Search.DefaultPageSize > c.Search.MaxPageSize:
		return fmt.Errorf("search.default_page_size %d exceeds max_page_size %d", c.Search.DefaultPageSize, c.Search.MaxPageSize)
	case c.Search.NgramSize < 1:
		return fmt.Errorf("search.ngram_size must be at least 1")
	case c.Search.NgramMinOverlap <= 0 || c.Search.NgramMinOverlap > 1:
		return fmt.Errorf("search.ngram_min_overlap must be in (0, 1]")
	case c.Search.CacheSize < 0:
		return fmt.Errorf("search.cache_size must not be negative")
	case c.History.Capacity < 1:
		return fmt.Errorf("history.capacity must be at least 1")
	case (c.Server.TLSCert == "") != (c.Server.TLSKey == ""):
		return fmt.Errorf("server.tls_cert and server.tls_key must be set together")
	}
	return nil
}
