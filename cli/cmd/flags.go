// Package cmd provides CLI commands for the abacus binary.
package cmd

import (
	"os"

	"github.com/urfave/cli/v2"
)

// Exit codes.
const (
	exitSuccess = 0
	exitUsage   = 1
	exitStorage = 2
)

// Shared output flags.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}
)

// Shared storage flags. Each overrides the matching config file and
// ABACUS_* environment value when set.
var (
	// ConfigFlag points at an abacus.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to abacus.yaml config file",
		EnvVars: []string{"ABACUS_CONFIG"},
	}

	// BackendFlag selects the storage backend.
	BackendFlag = &cli.StringFlag{
		Name:  "backend",
		Usage: "Storage backend: memory, file, sqlite, redis, s3",
	}

	// StoragePathFlag sets the backend path (directory, database file or bucket/prefix).
	StoragePathFlag = &cli.StringFlag{
		Name:  "storage-path",
		Usage: "Storage path (file: directory, sqlite: database file, s3: bucket/prefix)",
	}

	// CodecFlag selects the stored payload codec.
	CodecFlag = &cli.StringFlag{
		Name:  "codec",
		Usage: "Stored payload codec: json, msgpack",
	}

	// EphemeralFlag keeps all state in memory for this invocation.
	EphemeralFlag = &cli.BoolFlag{
		Name:  "ephemeral",
		Usage: "Use in-memory storage and skip the journal",
	}

	// NoJournalFlag disables the calculation journal.
	NoJournalFlag = &cli.BoolFlag{
		Name:  "no-journal",
		Usage: "Do not append calculations to the journal",
	}

	// LogLevelFlag sets the log level.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}
)

// ReadOnlyFlags returns the shared output flags.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
	}
}

// StorageFlags returns the shared flags for commands that open storage.
func StorageFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		BackendFlag,
		StoragePathFlag,
		CodecFlag,
		EphemeralFlag,
		NoJournalFlag,
		LogLevelFlag,
	}
}

// outputFlags returns the output flags followed by the storage flags.
func outputFlags(extra ...cli.Flag) []cli.Flag {
	flags := append(ReadOnlyFlags(), StorageFlags()...)
	return append(flags, extra...)
}

// resolveString returns the CLI value when the flag was set explicitly,
// otherwise the config value, otherwise the flag default.
func resolveString(c *cli.Context, name, cfgValue string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if cfgValue != "" {
		return cfgValue
	}
	return c.String(name)
}

// resolveBool returns the CLI value when the flag was set explicitly,
// otherwise the config value.
func resolveBool(c *cli.Context, name string, cfgValue bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	return cfgValue
}

// isTerminal returns true if f is a TTY.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
