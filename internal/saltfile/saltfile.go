// Package saltfile loads the external salt resource ("salts.txt"): a
// line-oriented mapping from archive filename to the salt mixed into
// that archive's key derivation.
package saltfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tirnanog/itpack/internal/packtype"
)

// Store is an immutable archive-name to salt mapping. The zero Store is
// usable and resolves every name to the empty salt.
type Store struct {
	salts   map[string]string
	skipped int
}

// Load reads a salt file. Each line is "name=salt"; blank lines and
// lines starting with '#' are skipped. Malformed lines (missing
// delimiter, invalid UTF-8) are skipped with a warning rather than
// aborting the load; Load fails with ErrSaltFile only when no line in a
// non-empty file could be parsed, and passes through I/O errors when
// the file cannot be read at all.
func Load(path string, logger *slog.Logger) (*Store, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	return parse(f, logger)
}

// LoadOrEmpty is Load, except a missing file yields an empty store.
// Extraction then falls back to passphrase-only key derivation.
func LoadOrEmpty(path string, logger *slog.Logger) (*Store, error) {
	st, err := Load(path, logger)
	if os.IsNotExist(err) {
		return &Store{}, nil
	}
	return st, err
}

func parse(r io.Reader, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	st := &Store{salts: make(map[string]string)}
	sc := bufio.NewScanner(r)
	lineno := 0
	sawContent := false
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sawContent = true

		if !utf8.ValidString(line) {
			logger.Warn("skipping salt line: invalid UTF-8", "line", lineno)
			st.skipped++
			continue
		}
		name, salt, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			logger.Warn("skipping salt line: missing name=salt delimiter", "line", lineno)
			st.skipped++
			continue
		}
		st.salts[name] = strings.TrimSpace(salt)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", packtype.ErrSaltFile, err)
	}
	if sawContent && len(st.salts) == 0 {
		return nil, fmt.Errorf("%w: no parseable entries", packtype.ErrSaltFile)
	}
	return st, nil
}

// Lookup returns the salt recorded for an archive name. A miss means
// the archive uses no additional salt.
//
// Names are matched exactly as stored; callers must pass the archive's
// original base filename, not a canonicalized path.
func (s *Store) Lookup(name string) (string, bool) {
	salt, ok := s.salts[name]
	return salt, ok
}

// Len returns the number of loaded salt records.
func (s *Store) Len() int {
	return len(s.salts)
}

// Skipped returns the number of malformed lines dropped during load.
func (s *Store) Skipped() int {
	return s.skipped
}
