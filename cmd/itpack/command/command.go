// Package command implements the itpack CLI subcommands.
package command

import (
	"log/slog"
	"os"

	"github.com/tirnanog/itpack"
)

// Environment variables recognized by the CLI. A local .env file is
// loaded at startup when present.
const (
	// EnvKey supplies a default passphrase ("SaltKey").
	EnvKey = "ITPACK_KEY"

	// EnvSalts supplies the salt file path.
	EnvSalts = "ITPACK_SALTS"
)

// saltOpts are shared by every subcommand that resolves archive salts.
type saltOpts struct {
	Key   string `short:"k" long:"key" env:"ITPACK_KEY" description:"Passphrase (SaltKey) for entry encryption"`
	Salts string `long:"salts" env:"ITPACK_SALTS" default:"salts.txt" description:"Salt file mapping archive names to salts"`
	Name  string `long:"name" description:"Original archive name for salt lookup (defaults to the archive's base name)"`
}

// verboseOpts select diagnostic detail; they do not affect codec
// behavior.
type verboseOpts struct {
	Verbose []bool `short:"v" long:"verbose" description:"Increase verbosity (-v info, -vv debug)"`
}

// logger builds the slog logger for one invocation.
func (o verboseOpts) logger() *slog.Logger {
	level := slog.LevelWarn
	switch len(o.Verbose) {
	case 0:
	case 1:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadSalts loads the salt store, tolerating a missing file.
func (o saltOpts) loadSalts(logger *slog.Logger) (itpack.SaltStore, error) {
	return itpack.LoadSaltsOrEmpty(o.Salts, logger)
}

// openOptions assembles the archive open options for this invocation.
func (o saltOpts) openOptions(logger *slog.Logger) ([]itpack.OpenOption, error) {
	salts, err := o.loadSalts(logger)
	if err != nil {
		return nil, err
	}
	opts := []itpack.OpenOption{
		itpack.OpenWithKey(o.Key),
		itpack.OpenWithSalts(salts),
		itpack.OpenWithLogger(logger),
	}
	if o.Name != "" {
		opts = append(opts, itpack.OpenWithName(o.Name))
	}
	return opts, nil
}
