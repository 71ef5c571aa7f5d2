package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/abacus/adapter"
	"github.com/pithecene-io/abacus/calc"
	"github.com/pithecene-io/abacus/cli/config"
	"github.com/pithecene-io/abacus/iox"
	"github.com/pithecene-io/abacus/journal"
	"github.com/pithecene-io/abacus/log"
	"github.com/pithecene-io/abacus/metrics"
	"github.com/pithecene-io/abacus/prefs"
	"github.com/pithecene-io/abacus/store"
)

// session is the storage, journal and logging wired for one invocation.
// It implements tui.Sink.
type session struct {
	sessionID string
	cfg       *config.Config
	notifier  adapter.Adapter
	logger    *log.Logger
	metrics   *metrics.Collector
	repo      *store.Repository
	journal   *journal.Journal
	closers   []func() error
}

// sessionOptions controls how openSession wires logging.
type sessionOptions struct {
	// logOut receives log output when no log file is configured.
	logOut io.Writer
	// ephemeral forces in-memory storage without a journal.
	ephemeral bool
}

// resolveConfig loads the config file and environment, then applies the
// storage flags. Errors are usage errors.
func resolveConfig(c *cli.Context, opts sessionOptions) (*config.Config, error) {
	cfg, err := config.Resolve(c.String(ConfigFlag.Name))
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	cfg.Storage.Backend = resolveString(c, BackendFlag.Name, cfg.Storage.Backend)
	cfg.Storage.Path = resolveString(c, StoragePathFlag.Name, cfg.Storage.Path)
	cfg.Storage.Codec = resolveString(c, CodecFlag.Name, cfg.Storage.Codec)
	cfg.Log.Level = resolveString(c, LogLevelFlag.Name, cfg.Log.Level)
	if resolveBool(c, NoJournalFlag.Name, false) {
		cfg.Journal.Enabled = false
	}
	if opts.ephemeral || c.Bool(EphemeralFlag.Name) {
		cfg.Storage.Backend = store.BackendMemory
		cfg.Journal.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Exit(fmt.Sprintf("invalid configuration: %v", err), exitUsage)
	}
	return cfg, nil
}

// openSession resolves configuration and opens storage.
// The caller must call Close.
func openSession(c *cli.Context, opts sessionOptions) (*session, error) {
	cfg, err := resolveConfig(c, opts)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	s := &session{sessionID: sessionID, cfg: cfg}

	logger, err := s.openLogger(sessionID, opts)
	if err != nil {
		_ = s.Close()
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	s.logger = logger
	s.metrics = metrics.NewCollector(sessionID, cfg.Storage.Backend)

	codec, err := store.NewCodec(cfg.Storage.Codec)
	if err != nil {
		_ = s.Close()
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	st, err := store.Open(c.Context, cfg.StoreConfig())
	if err != nil {
		_ = s.Close()
		return nil, storageExit(err)
	}
	s.repo = store.NewRepository(st, codec, logger, s.metrics)
	s.closers = append(s.closers, s.repo.Close)

	if cfg.Journal.Enabled {
		j, err := journal.NewFS(cfg.JournalPath())
		if err != nil {
			_ = s.Close()
			return nil, storageExit(err)
		}
		s.journal = j
	}

	notifier, err := newNotifier(cfg.Notify)
	if err != nil {
		_ = s.Close()
		return nil, cli.Exit(fmt.Sprintf("notify: %v", err), exitUsage)
	}
	if notifier != nil {
		s.notifier = notifier
		s.closers = append(s.closers, notifier.Close)
	}

	logger.Debug("session opened", map[string]any{
		"codec":   codec.Name(),
		"journal": cfg.Journal.Enabled,
		"notify":  cfg.Notify.Adapter,
	})
	return s, nil
}

func (s *session) openLogger(sessionID string, opts sessionOptions) (*log.Logger, error) {
	meta := log.SessionMeta{SessionID: sessionID, StorageBackend: s.cfg.Storage.Backend}

	out := opts.logOut
	if out == nil {
		out = os.Stderr
	}
	if s.cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(s.cfg.Log.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(s.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.closers = append(s.closers, f.Close)
		out = f
	}

	logger, err := log.NewLoggerWithLevel(meta, s.cfg.Log.Level, out)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() error {
		// Sync on stderr reports EINVAL on some platforms.
		iox.DiscardErr(logger.Sync)
		return nil
	})
	return logger, nil
}

// Close releases storage and the log file, newest first.
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// SaveHistory implements tui.Sink.
func (s *session) SaveHistory(ctx context.Context, entries []string) error {
	return s.repo.SaveHistory(ctx, entries)
}

// ClearHistory implements tui.Sink.
func (s *session) ClearHistory(ctx context.Context) error {
	return s.repo.ClearHistory(ctx)
}

// SavePreferences implements tui.Sink.
func (s *session) SavePreferences(ctx context.Context, p prefs.Preferences) error {
	return s.repo.SavePreferences(ctx, p)
}

// RecordCalculation implements tui.Sink. It appends entry to the journal,
// when enabled, and publishes it to the notify adapter, when configured.
func (s *session) RecordCalculation(ctx context.Context, entry string) error {
	var e journal.Entry
	if s.journal != nil {
		recorded, err := s.journal.Record(ctx, entry)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		e = recorded
	} else if parsed, err := journal.ParseEntry(entry); err == nil {
		e = parsed
	}
	s.notify(ctx, e, entry)
	return nil
}

// storageExit maps a storage failure to exit code 2.
func storageExit(err error) error {
	return cli.Exit(fmt.Sprintf("storage error: %v", err), exitStorage)
}

// newEngine creates an engine with the persisted history restored.
func (s *session) newEngine(ctx context.Context) (*calc.Engine, error) {
	entries, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return nil, storageExit(err)
	}
	engine := calc.NewEngine(calc.WithMetrics(s.metrics))
	engine.Restore(entries)
	return engine, nil
}
