package itpack

import (
	"fmt"
	"hash/crc32"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/tirnanog/itpack/internal/codec"
	"github.com/tirnanog/itpack/internal/fileops"
)

// Archive provides access to the entries of an opened pack.
//
// The parsed entry table is immutable and safe to share across
// goroutines for the lifetime of the archive.
type Archive struct {
	name    string // original base filename, the salt lookup key
	source  ByteSource
	header  codec.Header
	entries []Entry // path-sorted
	codec   *fileops.Codec
	logger  *slog.Logger

	closer io.Closer // set when the archive owns the underlying file
}

// OpenOption configures Open and New.
type OpenOption func(*openConfig)

type openConfig struct {
	key    string
	salts  SaltStore
	name   string
	logger *slog.Logger
}

// OpenWithKey sets the passphrase ("SaltKey") used to derive per-entry
// cipher keys. Without it, encrypted entries fail with ErrNoKey.
func OpenWithKey(key string) OpenOption {
	return func(c *openConfig) {
		c.key = key
	}
}

// OpenWithSalts sets the salt store consulted for the per-archive salt.
func OpenWithSalts(store SaltStore) OpenOption {
	return func(c *openConfig) {
		c.salts = store
	}
}

// OpenWithName overrides the archive name used for salt resolution.
//
// Salt records key on the archive's original filename; when reading a
// renamed or relocated copy, pass the original name here.
func OpenWithName(name string) OpenOption {
	return func(c *openConfig) {
		c.name = name
	}
}

// OpenWithLogger sets the logger used for warnings during reads.
func OpenWithLogger(l *slog.Logger) OpenOption {
	return func(c *openConfig) {
		c.logger = l
	}
}

// Open opens an archive file read-only.
//
// The header and entry table are parsed and validated up front; a file
// that is not a recognizable pack fails with ErrFormat before any entry
// is touched. The returned archive must be closed.
func Open(path string, opts ...OpenOption) (*Archive, error) {
	f, err := openFileSource(path)
	if err != nil {
		return nil, err
	}

	cfg := openConfig{name: filepath.Base(path)}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := newArchive(f, &cfg)
	if err != nil {
		f.Close() //nolint:errcheck,gosec // open failed, best-effort close
		return nil, err
	}
	a.closer = f
	return a, nil
}

// New opens an archive over an arbitrary byte source.
//
// name is the archive's original filename, used for salt resolution.
func New(source ByteSource, name string, opts ...OpenOption) (*Archive, error) {
	cfg := openConfig{name: name}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newArchive(source, &cfg)
}

func newArchive(source ByteSource, cfg *openConfig) (*Archive, error) {
	header, entries, err := readTable(source)
	if err != nil {
		return nil, err
	}

	salt := ""
	if cfg.salts != nil {
		salt, _ = cfg.salts.Lookup(cfg.name)
	}

	return &Archive{
		name:    cfg.name,
		source:  source,
		header:  header,
		entries: entries,
		codec:   fileops.NewCodec(cfg.key, salt),
		logger:  cfg.logger,
	}, nil
}

// readTable parses and validates the header and entry table.
func readTable(source ByteSource) (codec.Header, []Entry, error) {
	header, err := codec.ParseHeader(io.NewSectionReader(source, 0, codec.HeaderSize))
	if err != nil {
		return codec.Header{}, nil, err
	}
	if err := header.Validate(source.Size()); err != nil {
		return codec.Header{}, nil, err
	}

	tableData := make([]byte, header.TableSize)
	if _, err := source.ReadAt(tableData, int64(header.TableOffset)); err != nil && err != io.EOF { //nolint:gosec // bounds validated
		return codec.Header{}, nil, fmt.Errorf("read entry table: %w", err)
	}
	if crc32.ChecksumIEEE(tableData) != header.TableCRC {
		return codec.Header{}, nil, fmt.Errorf("%w: entry table checksum mismatch", ErrFormat)
	}

	entries, err := codec.ParseTable(tableData, header.EntryCount)
	if err != nil {
		return codec.Header{}, nil, err
	}
	payloadSize := header.TableOffset - codec.HeaderSize
	if err := codec.ValidateEntries(entries, payloadSize); err != nil {
		return codec.Header{}, nil, err
	}
	// Writers emit path-sorted tables, but Lookup's binary search must
	// not depend on it.
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return header, entries, nil
}

// Close releases the underlying file when the archive owns one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// Name returns the archive name used for salt resolution.
func (a *Archive) Name() string {
	return a.name
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Encrypted reports whether the archive carries encrypted entries.
func (a *Archive) Encrypted() bool {
	return a.header.Encrypted()
}

// DataDigest returns the recorded SHA-256 digest of the payload region.
func (a *Archive) DataDigest() digest.Digest {
	return digest.NewDigestFromBytes(digest.SHA256, a.header.DataDigest[:])
}

// Entries returns an iterator over all entries in path-sorted order.
func (a *Archive) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := range a.entries {
			if !yield(a.entries[i]) {
				return
			}
		}
	}
}

// Lookup returns the entry for the given path.
//
// Entries are path-sorted, so lookup is a binary search.
func (a *Archive) Lookup(path string) (Entry, bool) {
	i := sort.Search(len(a.entries), func(i int) bool {
		return a.entries[i].Path >= path
	})
	if i < len(a.entries) && a.entries[i].Path == path {
		return a.entries[i], true
	}
	return Entry{}, false
}

func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// readStored reads an entry's stored payload bytes.
func (a *Archive) readStored(e *Entry) ([]byte, error) {
	buf := make([]byte, e.StoredSize)
	n, err := a.source.ReadAt(buf, codec.HeaderSize+int64(e.Offset)) //nolint:gosec // bounds validated at open
	if err != nil && err != io.EOF {
		return nil, err
	}
	if uint64(n) != e.StoredSize {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

// ReadFile decodes and returns the content of the named entry.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	e, ok := a.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("itpack: %s: file does not exist", path)
	}
	stored, err := a.readStored(&e)
	if err != nil {
		return nil, err
	}
	return a.codec.Decode(&e, stored)
}
