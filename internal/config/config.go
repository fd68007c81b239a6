// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads appmod settings from defaults, a TOML file, a .env
// file and APPMOD_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete appmod configuration.
type Config struct {
	Catalog  CatalogConfig  `toml:"catalog"`
	Listing  ListingConfig  `toml:"listing"`
	Download DownloadConfig `toml:"download"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// CatalogConfig locates the app collection.
type CatalogConfig struct {
	Source       string   `toml:"source"`
	FetchTimeout Duration `toml:"fetch_timeout"`
}

// ListingConfig tunes the list view.
type ListingConfig struct {
	Shuffle bool `toml:"shuffle"`
}

// DownloadConfig tunes the simulated download.
type DownloadConfig struct {
	Interval Duration `toml:"interval"`
	Step     int      `toml:"step"`
}

// ServerConfig configures the web front end.
type ServerConfig struct {
	Listen      string   `toml:"listen"`
	BasePath    string   `toml:"base_path"`
	PublicURL   string   `toml:"public_url"`
	SiteTitle   string   `toml:"site_title"`
	DefaultIcon string   `toml:"default_icon"`
	SessionTTL  Duration `toml:"session_ttl"`
	StartRate   Duration `toml:"start_rate"`
	StartBurst  int      `toml:"start_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:       "databases/app.json",
			FetchTimeout: Duration{30 * time.Second},
		},
		Listing: ListingConfig{Shuffle: true},
		Download: DownloadConfig{
			Interval: Duration{time.Second},
			Step:     10,
		},
		Server: ServerConfig{
			Listen:      "127.0.0.1:8080",
			BasePath:    "/app-mod",
			SiteTitle:   "App Mod",
			DefaultIcon: "/app-mod/static/favicon.svg",
			SessionTTL:  Duration{10 * time.Minute},
			StartRate:   Duration{200 * time.Millisecond},
			StartBurst:  5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadOptions locate the configuration inputs.
type LoadOptions struct {
	// Path is an explicit config file; it must exist when set.
	Path string
	// EnvFile is a dotenv file read if present. Empty means ".env".
	EnvFile string
	// Lookup reads the process environment. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load builds the configuration from defaults, the TOML file, the dotenv file
// and the environment.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path, required := opts.Path, true
	if path == "" {
		path, required = DefaultConfigPath(), false
	}

	if err := cfg.readFile(path, required); err != nil {
		return nil, err
	}

	lookup, err := envLookup(opts.EnvFile, opts.Lookup)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	// #nosec G304 -- config path comes from the user or XDG
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

// envLookup layers the process environment over the dotenv file.
func envLookup(envFile string, lookup func(string) (string, bool)) (func(string) (string, bool), error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if envFile == "" {
		envFile = ".env"
	}

	dotenv, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		dotenv = map[string]string{}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}

		v, ok := dotenv[key]

		return v, ok
	}, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"APPMOD_SOURCE":     &c.Catalog.Source,
		"APPMOD_LISTEN":     &c.Server.Listen,
		"APPMOD_BASE_PATH":  &c.Server.BasePath,
		"APPMOD_PUBLIC_URL": &c.Server.PublicURL,
		"APPMOD_LOG_LEVEL":  &c.Log.Level,
		"APPMOD_LOG_FILE":   &c.Log.File,
	}

	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"APPMOD_FETCH_TIMEOUT":     &c.Catalog.FetchTimeout,
		"APPMOD_DOWNLOAD_INTERVAL": &c.Download.Interval,
	}

	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
			}
		}
	}

	if v, ok := lookup("APPMOD_DOWNLOAD_STEP"); ok {
		step, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: APPMOD_DOWNLOAD_STEP: %w", ErrInvalidConfig, err)
		}

		c.Download.Step = step
	}

	if v, ok := lookup("APPMOD_SHUFFLE"); ok {
		shuffle, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: APPMOD_SHUFFLE: %w", ErrInvalidConfig, err)
		}

		c.Listing.Shuffle = shuffle
	}

	return nil
}

// Validate checks ranges and normalizes the base path.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Source) == "" {
		return fmt.Errorf("%w: catalog.source is empty", ErrInvalidConfig)
	}

	if c.Download.Step < 1 || c.Download.Step > 100 {
		return fmt.Errorf("%w: download.step must be within 1..100, got %d", ErrInvalidConfig, c.Download.Step)
	}

	if c.Download.Interval.Duration <= 0 {
		return fmt.Errorf("%w: download.interval must be positive", ErrInvalidConfig)
	}

	if c.Catalog.FetchTimeout.Duration < 0 {
		return fmt.Errorf("%w: catalog.fetch_timeout must not be negative", ErrInvalidConfig)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}

	base := strings.TrimRight(strings.TrimSpace(c.Server.BasePath), "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}

	c.Server.BasePath = base

	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return data, nil
}
