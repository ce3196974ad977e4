package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tirnanog/itpack/internal/packtype"
)

// FileSink writes decoded entries under a destination root with atomic
// writes: content lands in a temp file in the target directory, then a
// rename makes it visible. Partially written files are never observable
// at the final path.
type FileSink struct {
	destDir   string
	overwrite bool
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func WithOverwrite(overwrite bool) FileSinkOption {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// NewFileSink creates a sink writing under destDir. Parent directories
// are created as needed.
func NewFileSink(destDir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{destDir: destDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShouldProcess returns false if the file already exists and overwrite
// is disabled.
func (s *FileSink) ShouldProcess(e *packtype.Entry) bool {
	if s.overwrite {
		return true
	}
	_, err := os.Stat(filepath.Join(s.destDir, filepath.FromSlash(e.Path)))
	return os.IsNotExist(err)
}

// Put writes one entry's content to its final path.
func (s *FileSink) Put(e *packtype.Entry, content []byte) error {
	destPath := filepath.Join(s.destDir, filepath.FromSlash(e.Path))
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".itpack-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()        //nolint:errcheck // best-effort cleanup
		_ = os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", e.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", destPath, err)
	}
	return nil
}

// DiscardSink decodes and verifies entries without writing anything.
// Used by archive verification.
type DiscardSink struct{}

// ShouldProcess always returns true.
func (DiscardSink) ShouldProcess(*packtype.Entry) bool { return true }

// Put drops the content.
func (DiscardSink) Put(*packtype.Entry, []byte) error { return nil }
