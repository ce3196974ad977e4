package itpack

import (
	"context"
	"fmt"
	"os"

	"github.com/tirnanog/itpack/internal/batch"
	"github.com/tirnanog/itpack/internal/codec"
)

// ExtractOption configures ExtractTo.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	filters   *FilterSet
	workers   int
	overwrite bool
}

// ExtractWithFilters limits extraction to entries whose paths match the
// filter set.
func ExtractWithFilters(f *FilterSet) ExtractOption {
	return func(c *extractConfig) {
		c.filters = f
	}
}

// ExtractWithWorkers sets the worker count for parallel decoding.
// Values < 1 select GOMAXPROCS.
func ExtractWithWorkers(n int) ExtractOption {
	return func(c *extractConfig) {
		c.workers = n
	}
}

// ExtractWithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func ExtractWithOverwrite(overwrite bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = overwrite
	}
}

// ExtractStats summarizes an extraction run.
type ExtractStats struct {
	// Extracted counts entries written to disk.
	Extracted int

	// Existing counts entries skipped because the destination already
	// exists and overwrite was not requested.
	Existing int

	// Errors records entries skipped due to per-entry failures: wrong
	// key, corrupt payload, checksum mismatch, or write errors.
	Errors []*EntryError
}

// Skipped returns the number of entries skipped due to errors.
func (s ExtractStats) Skipped() int {
	return len(s.Errors)
}

// ExtractTo decodes the selected entries into destDir.
//
// Entries are processed across a worker pool; each worker writes its own
// temp file, so no shared writer exists. Per-entry failures are
// collected in the returned stats and the run continues: one corrupted
// entry never blocks extraction of the rest. Only context cancellation
// and destination setup failures are fatal.
func (a *Archive) ExtractTo(ctx context.Context, destDir string, opts ...ExtractOption) (ExtractStats, error) {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	selected := make([]Entry, 0, len(a.entries))
	for i := range a.entries {
		if cfg.filters.Match(a.entries[i].Path) {
			selected = append(selected, a.entries[i])
		}
	}
	a.log().Info("extracting archive", "name", a.name, "entries", len(selected), "dest", destDir)
	if len(selected) == 0 {
		return ExtractStats{}, nil
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return ExtractStats{}, fmt.Errorf("create destination: %w", err)
	}

	sink := batch.NewFileSink(destDir, batch.WithOverwrite(cfg.overwrite))
	proc := batch.NewProcessor(a.source, codec.HeaderSize, a.codec,
		batch.WithWorkers(cfg.workers),
		batch.WithLogger(a.logger),
	)

	stats, err := proc.Process(ctx, selected, sink)
	out := ExtractStats{
		Extracted: stats.Done,
		Existing:  stats.Existing,
		Errors:    stats.Errors,
	}
	if err != nil {
		return out, err
	}
	a.log().Info("extraction complete",
		"extracted", out.Extracted, "skipped", out.Skipped(), "existing", out.Existing)
	return out, nil
}
