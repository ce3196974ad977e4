package itpack

import (
	"context"

	"github.com/tirnanog/itpack/internal/batch"
	"github.com/tirnanog/itpack/internal/codec"
)

// VerifyStats summarizes a verification run.
type VerifyStats struct {
	// OK counts entries that decoded and passed CRC verification.
	OK int

	// Errors records entries that failed to decode or verify.
	Errors []*EntryError
}

// Verify decodes every entry without writing anything, reporting
// per-entry failures. The same best-effort semantics as extraction
// apply: a bad entry is recorded and the rest are still checked.
func (a *Archive) Verify(ctx context.Context, workers int) (VerifyStats, error) {
	proc := batch.NewProcessor(a.source, codec.HeaderSize, a.codec,
		batch.WithWorkers(workers),
		batch.WithLogger(a.logger),
	)

	stats, err := proc.Process(ctx, a.entries, batch.DiscardSink{})
	return VerifyStats{OK: stats.Done, Errors: stats.Errors}, err
}
