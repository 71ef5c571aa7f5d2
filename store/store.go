// Package store provides the flat key-value persistence used for calculator
// history and preferences.
//
// Backends share one Store interface; Repository layers the two fixed
// calculator keys and their codecs on top of it.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store is a flat key-value store. Get returns ErrNotFound for absent keys.
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendS3}

// DefaultTimeout bounds a single network backend operation.
const DefaultTimeout = 5 * time.Second

// Config selects and configures a backend.
type Config struct {
	// Backend is one of Backends.
	Backend string
	// Path is the directory (file), database file (sqlite) or
	// "bucket/prefix" (s3).
	Path string
	// URL is the redis connection URL.
	URL string
	// Prefix namespaces keys for redis and s3.
	Prefix string
	// Region is the AWS region (s3). Empty uses the default chain.
	Region string
	// Endpoint is a custom S3 endpoint for S3-compatible providers.
	Endpoint string
	// UsePathStyle forces path-style S3 addressing.
	UsePathStyle bool
	// Timeout bounds each network operation (default 5s).
	Timeout time.Duration
}

// ValidateBackend reports whether name is a supported backend.
func ValidateBackend(name string) error {
	for _, b := range Backends {
		if name == b {
			return nil
		}
	}
	return fmt.Errorf("unknown storage backend %q (want one of %s)", name, strings.Join(Backends, ", "))
}

// Open creates the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := ValidateBackend(cfg.Backend); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemory()
	case BackendFile:
		s, err = NewFile(cfg.Path)
	case BackendSQLite:
		s, err = NewSQLite(ctx, cfg.Path)
	case BackendRedis:
		s, err = NewRedis(RedisConfig{URL: cfg.URL, Prefix: cfg.Prefix, Timeout: cfg.Timeout})
	case BackendS3:
		s, err = NewS3(ctx, cfg)
	}
	if err != nil {
		return nil, wrap(err, "open", cfg.Backend)
	}
	return s, nil
}

// IsNotFound reports whether err reports an absent key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
