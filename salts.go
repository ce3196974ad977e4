package itpack

import (
	"log/slog"

	"github.com/tirnanog/itpack/internal/saltfile"
)

// LoadSalts reads a salt file mapping archive names to salts.
//
// Each line is "name=salt"; blank lines and '#' comments are skipped.
// Malformed lines are skipped with a warning on the logger rather than
// aborting the load. LoadSalts fails with ErrSaltFile when nothing in a
// non-empty file could be parsed, and with the underlying I/O error
// when the file cannot be read.
func LoadSalts(path string, logger *slog.Logger) (SaltStore, error) {
	return saltfile.Load(path, logger)
}

// LoadSaltsOrEmpty is LoadSalts, except a missing file yields an empty
// store: every lookup then misses and key derivation falls back to the
// passphrase alone.
func LoadSaltsOrEmpty(path string, logger *slog.Logger) (SaltStore, error) {
	return saltfile.LoadOrEmpty(path, logger)
}
