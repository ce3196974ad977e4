package itpack

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// fileSource wraps *os.File to implement ByteSource.
// os.File has ReadAt but not Size, so the size is cached at construction.
type fileSource struct {
	file *os.File
	size int64
}

func openFileSource(path string) (*fileSource, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close() //nolint:errcheck,gosec // open failed, best-effort close
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	return &fileSource{file: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

// Size returns the total size of the file.
func (s *fileSource) Size() int64 {
	return s.size
}

// Close closes the underlying file.
func (s *fileSource) Close() error {
	return s.file.Close()
}

var _ ByteSource = (*fileSource)(nil)

// Open implements io/fs.FS over the archive's regular files. The
// returned file holds the fully decoded content; directories are not
// materialized.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	e, ok := a.Lookup(name)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	content, err := a.ReadFile(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &entryFile{
		Reader: *bytes.NewReader(content),
		info:   entryInfo{entry: e},
	}, nil
}

var _ fs.FS = (*Archive)(nil)

// entryFile is an in-memory fs.File over one decoded entry.
type entryFile struct {
	bytes.Reader
	info entryInfo
}

func (f *entryFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *entryFile) Close() error               { return nil }

// entryInfo adapts an Entry to fs.FileInfo. Packs do not record
// permissions or times, so fixed values are reported.
type entryInfo struct {
	entry Entry
}

func (i entryInfo) Name() string       { return pathBase(i.entry.Path) }
func (i entryInfo) Size() int64        { return int64(i.entry.OriginalSize) } //nolint:gosec // sizes bounded by format
func (i entryInfo) Mode() fs.FileMode  { return 0o444 }
func (i entryInfo) ModTime() time.Time { return time.Time{} }
func (i entryInfo) IsDir() bool        { return false }
func (i entryInfo) Sys() any           { return nil }

func pathBase(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}
