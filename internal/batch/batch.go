// Package batch decodes sets of archive entries across a bounded worker
// pool, with best-effort error semantics: one bad entry is recorded and
// skipped, the rest of the batch continues.
package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/tirnanog/itpack/internal/fileops"
	"github.com/tirnanog/itpack/internal/packtype"
)

// ByteSource provides random access to archive bytes.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// Sink receives decoded entry content. Implementations must be safe for
// concurrent Put calls; each entry is delivered exactly once.
type Sink interface {
	// ShouldProcess filters entries before any decode work happens.
	ShouldProcess(e *packtype.Entry) bool

	// Put delivers the fully decoded, verified content of one entry.
	Put(e *packtype.Entry, content []byte) error
}

// Stats summarizes one batch run.
type Stats struct {
	// Done counts entries decoded and delivered to the sink.
	Done int

	// Existing counts entries the sink declined (already present).
	Existing int

	// Errors records per-entry failures. len(Errors) entries were
	// skipped; the run still completes unless a fatal error occurred.
	Errors []*packtype.EntryError
}

// Processor decodes entries from an archive source through a payload
// codec. Entries are independent once the table is parsed, so per-entry
// work is distributed across workers; the parsed entries and the source
// are the only shared state and both are read-only.
type Processor struct {
	source     ByteSource
	dataOffset int64
	codec      *fileops.Codec
	workers    int
	logger     *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithWorkers sets the worker count. Values < 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		p.workers = n
	}
}

// WithLogger sets the logger used for per-entry warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// NewProcessor creates a batch processor. dataOffset is the absolute
// position of the payload region within the source; entry offsets are
// relative to it.
func NewProcessor(source ByteSource, dataOffset int64, codec *fileops.Codec, opts ...Option) *Processor {
	p := &Processor{
		source:     source,
		dataOffset: dataOffset,
		codec:      codec,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Process decodes every entry and delivers it to the sink.
//
// Per-entry failures (wrong key, corrupt payload, checksum mismatch,
// write failure) are collected into Stats.Errors and the run continues.
// Only context cancellation aborts the run; it is checked between
// entries, never mid-entry, so no partially processed entry is ever
// reported as done.
func (p *Processor) Process(ctx context.Context, entries []packtype.Entry, sink Sink) (Stats, error) {
	stats := Stats{}
	if len(entries) == 0 {
		return stats, nil
	}

	workers := p.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	var (
		mu       sync.Mutex
		done     atomic.Int64
		existing atomic.Int64
		stop     atomic.Bool
		wg       sync.WaitGroup
	)

	for w := range workers {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(entries); i += workers {
				if stop.Load() {
					return
				}
				if ctx.Err() != nil {
					stop.Store(true)
					return
				}
				e := &entries[i]
				if !sink.ShouldProcess(e) {
					existing.Add(1)
					continue
				}
				if err := p.processEntry(e, sink); err != nil {
					p.log().Warn("skipping entry", "path", e.Path, "error", err)
					mu.Lock()
					stats.Errors = append(stats.Errors, &packtype.EntryError{Path: e.Path, Err: err})
					mu.Unlock()
					continue
				}
				done.Add(1)
			}
		}(w)
	}
	wg.Wait()

	stats.Done = int(done.Load())
	stats.Existing = int(existing.Load())
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// processEntry reads, decodes, verifies and delivers a single entry.
func (p *Processor) processEntry(e *packtype.Entry, sink Sink) error {
	stored := make([]byte, e.StoredSize)
	n, err := p.source.ReadAt(stored, p.dataOffset+int64(e.Offset)) //nolint:gosec // offset validated against source size
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if uint64(n) != e.StoredSize {
		return io.ErrUnexpectedEOF
	}

	content, err := p.codec.Decode(e, stored)
	if err != nil {
		return err
	}
	return sink.Put(e, content)
}
