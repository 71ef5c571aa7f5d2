package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pithecene-io/abacus/adapter"
	"github.com/pithecene-io/abacus/log"
	"github.com/pithecene-io/abacus/store"
)

// Config represents an abacus.yaml configuration file.
// All values are optional and act as defaults for command flags.
// CLI flags always override config and environment values.
type Config struct {
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Journal JournalConfig `yaml:"journal" envPrefix:"JOURNAL_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Notify  NotifyConfig  `yaml:"notify" envPrefix:"NOTIFY_"`
}

// StorageConfig selects the key-value backend for history and preferences.
type StorageConfig struct {
	Backend     string   `yaml:"backend" env:"BACKEND"`
	Path        string   `yaml:"path" env:"PATH"`
	URL         string   `yaml:"url" env:"URL"`
	Prefix      string   `yaml:"prefix" env:"PREFIX"`
	Region      string   `yaml:"region" env:"REGION"`
	Endpoint    string   `yaml:"endpoint" env:"ENDPOINT"`
	S3PathStyle bool     `yaml:"s3_path_style" env:"S3_PATH_STYLE"`
	Codec       string   `yaml:"codec" env:"CODEC"`
	Timeout     Duration `yaml:"timeout" env:"TIMEOUT"`
}

// JournalConfig controls the calculation journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	// File receives TUI logs; empty discards them.
	File string `yaml:"file" env:"FILE"`
}

// NotifyConfig publishes completed calculations to a downstream system.
// An empty adapter disables notifications.
type NotifyConfig struct {
	Adapter string            `yaml:"adapter" env:"ADAPTER"`
	URL     string            `yaml:"url" env:"URL"`
	Channel string            `yaml:"channel" env:"CHANNEL"`
	Headers map[string]string `yaml:"headers" env:"HEADERS"`
	Timeout Duration          `yaml:"timeout" env:"TIMEOUT"`
	Retries int               `yaml:"retries" env:"RETRIES"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText parses a duration from an environment variable.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration as "5s".
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DataDir is the default root for local state: $ABACUS_HOME, else the user
// config directory, else ./.abacus.
func DataDir() string {
	if home := os.Getenv("ABACUS_HOME"); home != "" {
		return home
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "abacus")
	}
	return ".abacus"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: store.BackendFile,
			Codec:   store.CodecJSON,
			Timeout: Duration{store.DefaultTimeout},
		},
		Journal: JournalConfig{Enabled: true},
		Log:     LogConfig{Level: "info"},
		Notify:  NotifyConfig{Retries: adapter.DefaultRetries},
	}
}

// Validate checks names and backend requirements.
func (c *Config) Validate() error {
	var errs []error
	if err := store.ValidateBackend(c.Storage.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := store.NewCodec(c.Storage.Codec); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.Backend {
	case store.BackendRedis:
		if c.Storage.URL == "" {
			errs = append(errs, errors.New("storage.url is required for the redis backend"))
		}
	case store.BackendS3:
		if bucket, _ := store.ParseS3Path(c.Storage.Path); bucket == "" {
			errs = append(errs, errors.New("storage.path (bucket/prefix) is required for the s3 backend"))
		}
	}
	if err := adapter.ValidateName(c.Notify.Adapter); err != nil {
		errs = append(errs, err)
	}
	if c.Notify.Adapter != "" && c.Notify.URL == "" {
		errs = append(errs, fmt.Errorf("notify.url is required for the %s adapter", c.Notify.Adapter))
	}
	if c.Notify.Retries < 0 {
		errs = append(errs, fmt.Errorf("notify.retries must be >= 0, got %d", c.Notify.Retries))
	}
	if c.Storage.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("storage.timeout must be >= 0, got %s", c.Storage.Timeout))
	}
	return errors.Join(errs...)
}

// StoreConfig converts the storage section into a store.Config, deriving a
// local path under DataDir when none is set.
func (c *Config) StoreConfig() store.Config {
	path := c.Storage.Path
	if path == "" {
		switch c.Storage.Backend {
		case store.BackendFile:
			path = filepath.Join(DataDir(), "state")
		case store.BackendSQLite:
			path = filepath.Join(DataDir(), "abacus.db")
		}
	}
	return store.Config{
		Backend:      c.Storage.Backend,
		Path:         path,
		URL:          c.Storage.URL,
		Prefix:       c.Storage.Prefix,
		Region:       c.Storage.Region,
		Endpoint:     c.Storage.Endpoint,
		UsePathStyle: c.Storage.S3PathStyle,
		Timeout:      c.Storage.Timeout.Duration,
	}
}

// JournalPath returns the journal root, defaulting under DataDir.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(DataDir(), "journal")
}
