package fileops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// InflaterPool manages reusable zlib readers to reduce allocation
// overhead when decoding many entries.
//
// The zero pool is not usable; call NewInflaterPool.
type InflaterPool struct {
	pool sync.Pool
}

// NewInflaterPool creates a pool of reusable zlib readers.
func NewInflaterPool() *InflaterPool {
	return &InflaterPool{}
}

// get returns a zlib reader positioned at the start of src.
// The caller must call the release function when done.
func (p *InflaterPool) get(src io.Reader) (io.ReadCloser, func(), error) {
	if p == nil {
		rc, err := zlib.NewReader(src)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil //nolint:errcheck // close of bytes-backed reader
	}

	if v := p.pool.Get(); v != nil {
		rc := v.(io.ReadCloser)
		if err := rc.(zlib.Resetter).Reset(src, nil); err != nil {
			return nil, nil, err
		}
		return rc, func() { p.pool.Put(rc) }, nil
	}

	rc, err := zlib.NewReader(src)
	if err != nil {
		return nil, nil, err
	}
	return rc, func() { p.pool.Put(rc) }, nil
}

// Compress deflates data with zlib at the default level.
//
// Compression is best-effort: callers compare the result against the
// input and store whichever is smaller, recording the choice in the
// entry's method.
func Compress(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data) //nolint:errcheck // writes to bytes.Buffer cannot fail
	_ = zw.Close()        //nolint:errcheck // ditto
	return buf.Bytes()
}

// Decompress inflates data into a buffer pre-sized to expected bytes.
//
// A malformed or truncated stream fails with ErrDecompression; a stream
// that inflates to any length other than expected fails with
// ErrLengthMismatch.
func (p *InflaterPool) Decompress(data []byte, expected uint64) ([]byte, error) {
	rc, release, err := p.get(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer release()

	out := make([]byte, expected)
	if _, err := io.ReadFull(rc, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: stream ended early (want %d bytes)", ErrLengthMismatch, expected)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}

	// The stream must end exactly at the expected length.
	var scratch [1]byte
	switch n, err := rc.Read(scratch[:]); {
	case n > 0:
		return nil, fmt.Errorf("%w: stream longer than %d bytes", ErrLengthMismatch, expected)
	case err != nil && !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return out, nil
}
