package itpack

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"hash/crc32"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tirnanog/itpack/internal/codec"
	"github.com/tirnanog/itpack/internal/fileops"
)

// defaultCompressExts are the extensions compressed by default when
// packing, matching the established tooling for this format.
var defaultCompressExts = []string{"txt", "xml", "dds", "pmg", "set", "raw"}

// CreateOption configures Create.
type CreateOption func(*createConfig)

type createConfig struct {
	key          string
	salts        SaltStore
	name         string
	compressExts []string
	workers      int
	maxFiles     int
	logger       *slog.Logger
}

// CreateWithKey sets the passphrase used to encrypt entry payloads.
// Without it, entries are stored unencrypted.
func CreateWithKey(key string) CreateOption {
	return func(c *createConfig) {
		c.key = key
	}
}

// CreateWithSalts sets the salt store consulted for the per-archive salt.
func CreateWithSalts(store SaltStore) CreateOption {
	return func(c *createConfig) {
		c.salts = store
	}
}

// CreateWithName overrides the archive name used for salt resolution.
// Defaults to the base name of the output path.
func CreateWithName(name string) CreateOption {
	return func(c *createConfig) {
		c.name = name
	}
}

// CreateWithCompressExts replaces the default extension allowlist for
// compression. Extensions are matched case-insensitively, without dots.
func CreateWithCompressExts(exts []string) CreateOption {
	return func(c *createConfig) {
		c.compressExts = exts
	}
}

// CreateWithWorkers sets the worker count for parallel payload encoding.
// Values < 1 select GOMAXPROCS.
func CreateWithWorkers(n int) CreateOption {
	return func(c *createConfig) {
		c.workers = n
	}
}

// CreateWithMaxFiles limits the number of input files.
// Defaults to the format's entry bound.
func CreateWithMaxFiles(n int) CreateOption {
	return func(c *createConfig) {
		c.maxFiles = n
	}
}

// CreateWithLogger sets the logger for progress reporting.
func CreateWithLogger(l *slog.Logger) CreateOption {
	return func(c *createConfig) {
		c.logger = l
	}
}

// PackStats summarizes an archive build.
type PackStats struct {
	Files         int
	OriginalBytes uint64
	StoredBytes   uint64
	Compressed    int
	Encrypted     int
}

// Create builds an archive from the contents of dir.
//
// Create walks dir recursively, including all regular files; symbolic
// links fail with ErrSymlink. Unlike extraction, packing has no
// skip-and-continue tier: any unreadable input file aborts the build,
// since an archive missing intended content is worse than failing fast.
//
// Per-file compression, encryption and checksumming run on a bounded
// worker pool; offsets are assigned in a single pass once all payloads
// are sized, then the header, payload region and entry table are
// written through one file handle.
func Create(ctx context.Context, dir, outPath string, opts ...CreateOption) (PackStats, error) {
	cfg := createConfig{name: filepath.Base(outPath)}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return PackStats{}, err
	}
	defer root.Close() //nolint:errcheck // read-only root

	paths, err := collectInputs(root, cfg.maxFiles)
	if err != nil {
		return PackStats{}, err
	}

	salt := ""
	if cfg.salts != nil {
		salt, _ = cfg.salts.Lookup(cfg.name)
	}
	logger.Info("packing archive", "name", cfg.name, "files", len(paths),
		"encrypted", cfg.key != "", "salted", salt != "")

	entries, payloads, err := encodeInputs(ctx, root, paths, &cfg, salt)
	if err != nil {
		return PackStats{}, err
	}

	stats := assembleStats(entries)
	if err := writeArchive(outPath, entries, payloads, cfg.key != ""); err != nil {
		return PackStats{}, err
	}
	logger.Info("archive written", "path", outPath,
		"files", stats.Files, "stored_bytes", stats.StoredBytes)
	return stats, nil
}

// collectInputs walks the input tree and returns the relative paths of
// all regular files, sorted.
func collectInputs(root *os.Root, maxFiles int) ([]string, error) {
	if maxFiles <= 0 {
		maxFiles = codec.MaxEntries
	}

	var paths []string
	err := fs.WalkDir(root.FS(), ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrSymlink, p)
		}
		if !d.Type().IsRegular() {
			return fmt.Errorf("%w: %s is not a regular file", ErrFormat, p)
		}
		if len(p) > codec.MaxPathLen {
			return fmt.Errorf("%w: path %q too long", ErrFormat, p)
		}
		if len(paths) >= maxFiles {
			return fmt.Errorf("%w: more than %d input files", ErrTooManyFiles, maxFiles)
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// encodeInputs reads and encodes every input file on a worker pool.
// Results are positional, so the path-sorted order is preserved.
func encodeInputs(ctx context.Context, root *os.Root, paths []string, cfg *createConfig, salt string) ([]Entry, [][]byte, error) {
	entries := make([]Entry, len(paths))
	payloads := make([][]byte, len(paths))

	exts := cfg.compressExts
	if exts == nil {
		exts = defaultCompressExts
	}
	compressible := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		compressible[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	enc := fileops.NewCodec(cfg.key, salt)

	workers := cfg.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(root.FS(), p)
			if err != nil {
				return fmt.Errorf("read input %s: %w", p, err)
			}
			ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
			_, compress := compressible[ext]

			entries[i] = Entry{Path: p}
			stored, err := enc.Encode(&entries[i], data, compress)
			if err != nil {
				return fmt.Errorf("encode %s: %w", p, err)
			}
			payloads[i] = stored
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return entries, payloads, nil
}

func assembleStats(entries []Entry) PackStats {
	stats := PackStats{Files: len(entries)}
	for i := range entries {
		stats.OriginalBytes += entries[i].OriginalSize
		stats.StoredBytes += entries[i].StoredSize
		if entries[i].Method.Compressed() {
			stats.Compressed++
		}
		if entries[i].Method.Encrypted() {
			stats.Encrypted++
		}
	}
	return stats
}

// writeArchive assigns offsets, serializes the table and header, and
// writes the whole archive sequentially through a single handle.
func writeArchive(outPath string, entries []Entry, payloads [][]byte, encrypted bool) error {
	var payloadSize uint64
	hasher := sha256.New()
	for i := range entries {
		entries[i].Offset = payloadSize
		payloadSize += entries[i].StoredSize
		hasher.Write(payloads[i])
	}

	table := codec.EncodeTable(entries)
	header := codec.Header{
		Version:     codec.Version,
		EntryCount:  uint32(len(entries)), //nolint:gosec // bounded by MaxEntries
		TableOffset: codec.HeaderSize + payloadSize,
		TableSize:   uint64(len(table)),
		TableCRC:    crc32.ChecksumIEEE(table),
	}
	if encrypted {
		header.Flags |= codec.FlagEncrypted
	}
	hasher.Sum(header.DataDigest[:0])

	out, err := os.Create(outPath) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(out, 256<<10)
	if _, err := w.Write(codec.AppendHeader(nil, header)); err != nil {
		out.Close() //nolint:errcheck,gosec // write failed, best-effort close
		return err
	}
	for i := range payloads {
		if _, err := w.Write(payloads[i]); err != nil {
			out.Close() //nolint:errcheck,gosec // write failed, best-effort close
			return err
		}
	}
	if _, err := w.Write(table); err != nil {
		out.Close() //nolint:errcheck,gosec // write failed, best-effort close
		return err
	}
	if err := w.Flush(); err != nil {
		out.Close() //nolint:errcheck,gosec // write failed, best-effort close
		return err
	}
	return out.Close()
}
