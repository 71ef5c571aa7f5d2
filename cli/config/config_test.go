package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pithecene-io/abacus/store"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `storage:
  backend: s3
  path: my-bucket/prefix
  prefix: users/alice
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true
  codec: msgpack
  timeout: 10s

journal:
  enabled: false
  path: /var/lib/abacus/journal

log:
  level: debug
  file: /tmp/abacus.log
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Storage
	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "my-bucket/prefix")
	assertEqual(t, "storage.prefix", cfg.Storage.Prefix, "users/alice")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	assertEqual(t, "storage.codec", cfg.Storage.Codec, "msgpack")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}
	if cfg.Storage.Timeout.Duration != 10*time.Second {
		t.Errorf("expected storage.timeout=10s, got %v", cfg.Storage.Timeout.Duration)
	}

	// Journal
	if cfg.Journal.Enabled {
		t.Error("expected journal.enabled=false")
	}
	assertEqual(t, "journal.path", cfg.JournalPath(), "/var/lib/abacus/journal")

	// Log
	assertEqual(t, "log.level", cfg.Log.Level, "debug")
	assertEqual(t, "log.file", cfg.Log.File, "/tmp/abacus.log")

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_EmptyConfigKeepsDefaults(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "storage.backend", cfg.Storage.Backend, store.BackendFile)
	assertEqual(t, "storage.codec", cfg.Storage.Codec, store.CodecJSON)
	if !cfg.Journal.Enabled {
		t.Error("expected journal enabled by default")
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeTemp(t, "storage:\n  backend: sqlite\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "storage.backend", cfg.Storage.Backend, "sqlite")
	assertEqual(t, "log.level", cfg.Log.Level, "info")
	if cfg.Storage.Timeout.Duration != store.DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Storage.Timeout.Duration)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/abacus.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_REDIS_URL", "redis://localhost:6379/2")

	path := writeTemp(t, "storage:\n  backend: redis\n  url: ${TEST_REDIS_URL}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "storage.url", cfg.Storage.URL, "redis://localhost:6379/2")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	yaml := `log:
  level: info
bogus_key: should_fail
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "bogus_key") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestLoad_UnknownNestedKeyRejected(t *testing.T) {
	yaml := `storage:
  backend: file
  path: ./data
  unknown_field: bad
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown nested key, got nil")
	}
	if !strings.Contains(err.Error(), "unknown_field") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestLoad_CommentsOnlyConfig(t *testing.T) {
	path := writeTemp(t, "# This is a comment\n# Another comment\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed for comments-only config: %v", err)
	}
	assertEqual(t, "storage.backend", cfg.Storage.Backend, store.BackendFile)
}

func TestDuration_InvalidFormat(t *testing.T) {
	path := writeTemp(t, "storage:\n  timeout: not-a-duration\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error should mention invalid duration, got: %v", err)
	}
}

func TestDuration_EmptyKeepsValue(t *testing.T) {
	path := writeTemp(t, "storage:\n  timeout: \"\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Timeout.Duration != store.DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Storage.Timeout.Duration)
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ABACUS_STORAGE_BACKEND", "redis")
	t.Setenv("ABACUS_STORAGE_URL", "redis://cache:6379/0")
	t.Setenv("ABACUS_STORAGE_TIMEOUT", "750ms")
	t.Setenv("ABACUS_JOURNAL_ENABLED", "false")
	t.Setenv("ABACUS_LOG_LEVEL", "warn")

	cfg := Default()
	cfg.Storage.Codec = "msgpack"
	if err := ParseEnv(cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}

	assertEqual(t, "storage.backend", cfg.Storage.Backend, "redis")
	assertEqual(t, "storage.url", cfg.Storage.URL, "redis://cache:6379/0")
	assertEqual(t, "storage.codec", cfg.Storage.Codec, "msgpack")
	assertEqual(t, "log.level", cfg.Log.Level, "warn")
	if cfg.Storage.Timeout.Duration != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %v", cfg.Storage.Timeout.Duration)
	}
	if cfg.Journal.Enabled {
		t.Error("expected journal disabled by env")
	}
}

func TestResolve_FileThenEnv(t *testing.T) {
	t.Setenv("ABACUS_STORAGE_PATH", "/srv/abacus.db")
	path := writeTemp(t, "storage:\n  backend: sqlite\n  path: ./local.db\n")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertEqual(t, "storage.backend", cfg.Storage.Backend, "sqlite")
	assertEqual(t, "storage.path", cfg.Storage.Path, "/srv/abacus.db")
}

func TestResolve_NoFile(t *testing.T) {
	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertEqual(t, "storage.backend", cfg.Storage.Backend, store.BackendFile)
}

func TestResolve_InvalidEnv(t *testing.T) {
	t.Setenv("ABACUS_STORAGE_BACKEND", "etcd")
	if _, err := Resolve(""); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, "unknown storage backend"},
		{"unknown codec", func(c *Config) { c.Storage.Codec = "xml" }, "unknown codec"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"redis without url", func(c *Config) { c.Storage.Backend = "redis" }, "storage.url"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = "s3" }, "storage.path"},
		{"negative timeout", func(c *Config) { c.Storage.Timeout.Duration = -time.Second }, "storage.timeout"},
		{"unknown notify adapter", func(c *Config) { c.Notify.Adapter = "kafka" }, "unknown notify adapter"},
		{"notify without url", func(c *Config) { c.Notify.Adapter = "webhook" }, "notify.url"},
		{"negative notify retries", func(c *Config) { c.Notify.Retries = -1 }, "notify.retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStoreConfig_DerivesLocalPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ABACUS_HOME", home)

	cfg := Default()
	assertEqual(t, "file path", cfg.StoreConfig().Path, filepath.Join(home, "state"))

	cfg.Storage.Backend = store.BackendSQLite
	assertEqual(t, "sqlite path", cfg.StoreConfig().Path, filepath.Join(home, "abacus.db"))

	cfg.Storage.Path = "/explicit.db"
	assertEqual(t, "explicit path", cfg.StoreConfig().Path, "/explicit.db")

	assertEqual(t, "journal path", cfg.JournalPath(), filepath.Join(home, "journal"))
}

func TestStoreConfig_CarriesS3Settings(t *testing.T) {
	cfg := Default()
	cfg.Storage = StorageConfig{
		Backend:     store.BackendS3,
		Path:        "bucket/abacus",
		Region:      "eu-west-1",
		Endpoint:    "http://minio:9000",
		S3PathStyle: true,
		Timeout:     Duration{2 * time.Second},
	}

	sc := cfg.StoreConfig()
	if sc.Backend != store.BackendS3 || sc.Path != "bucket/abacus" || sc.Region != "eu-west-1" {
		t.Errorf("unexpected store config: %+v", sc)
	}
	if !sc.UsePathStyle || sc.Endpoint != "http://minio:9000" || sc.Timeout != 2*time.Second {
		t.Errorf("unexpected s3 options: %+v", sc)
	}
}

func TestLoad_NotifySection(t *testing.T) {
	yaml := `notify:
  adapter: webhook
  url: https://hooks.example.com/abacus
  headers:
    Authorization: Bearer token
  timeout: 2s
  retries: 1
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "notify.adapter", cfg.Notify.Adapter, "webhook")
	assertEqual(t, "notify.url", cfg.Notify.URL, "https://hooks.example.com/abacus")
	assertEqual(t, "notify.headers", cfg.Notify.Headers["Authorization"], "Bearer token")
	if cfg.Notify.Timeout.Duration != 2*time.Second {
		t.Errorf("expected notify.timeout=2s, got %v", cfg.Notify.Timeout.Duration)
	}
	if cfg.Notify.Retries != 1 {
		t.Errorf("expected notify.retries=1, got %d", cfg.Notify.Retries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseEnv_NotifyOverrides(t *testing.T) {
	t.Setenv("ABACUS_NOTIFY_ADAPTER", "redis")
	t.Setenv("ABACUS_NOTIFY_URL", "redis://bus:6379/0")
	t.Setenv("ABACUS_NOTIFY_RETRIES", "0")

	cfg := Default()
	if err := ParseEnv(cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	assertEqual(t, "notify.adapter", cfg.Notify.Adapter, "redis")
	assertEqual(t, "notify.url", cfg.Notify.URL, "redis://bus:6379/0")
	if cfg.Notify.Retries != 0 {
		t.Errorf("expected notify.retries=0, got %d", cfg.Notify.Retries)
	}
}

func TestDefault_NotifyDisabled(t *testing.T) {
	cfg := Default()
	if cfg.Notify.Adapter != "" {
		t.Errorf("expected notifications off by default, got %q", cfg.Notify.Adapter)
	}
	if cfg.Notify.Retries != 3 {
		t.Errorf("expected 3 default retries, got %d", cfg.Notify.Retries)
	}
}

// writeTemp writes content to a temp file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "abacus.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
