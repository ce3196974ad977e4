package fileops

import (
	"bytes"
	"errors"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()

	pool := NewInflaterPool()

	tests := []struct {
		name string
		data []byte
	}{
		{"small", []byte("hello world")},
		{"repetitive", bytes.Repeat([]byte("abcdef"), 4096)},
		{"binary", func() []byte {
			b := make([]byte, 1000)
			for i := range b {
				b[i] = byte(i * 7)
			}
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deflated := Compress(tt.data)
			out, err := pool.Decompress(deflated, uint64(len(tt.data)))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(out, tt.data) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("the quick brown fox "), 500)
	if deflated := Compress(data); len(deflated) >= len(data) {
		t.Fatalf("deflated %d bytes, input %d", len(deflated), len(data))
	}
}

func TestDecompressLengthMismatch(t *testing.T) {
	t.Parallel()

	pool := NewInflaterPool()
	data := bytes.Repeat([]byte("payload "), 100)
	deflated := Compress(data)

	if _, err := pool.Decompress(deflated, uint64(len(data))+1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("over-expectation: got %v, want ErrLengthMismatch", err)
	}
	if _, err := pool.Decompress(deflated, uint64(len(data))-1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("under-expectation: got %v, want ErrLengthMismatch", err)
	}
}

func TestDecompressCorruptStream(t *testing.T) {
	t.Parallel()

	pool := NewInflaterPool()

	if _, err := pool.Decompress([]byte{0x00, 0x01, 0x02}, 10); !errors.Is(err, ErrDecompression) {
		t.Fatalf("garbage header: got %v, want ErrDecompression", err)
	}

	deflated := Compress(bytes.Repeat([]byte("x"), 4096))
	deflated[len(deflated)/2] ^= 0xff
	_, err := pool.Decompress(deflated, 4096)
	if err == nil {
		t.Fatal("corrupt stream must not decode")
	}
	if !errors.Is(err, ErrDecompression) && !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v, want a decode sentinel", err)
	}
}

func TestDecompressPoolReuse(t *testing.T) {
	t.Parallel()

	pool := NewInflaterPool()
	data := bytes.Repeat([]byte("reuse "), 256)
	deflated := Compress(data)

	for i := 0; i < 10; i++ {
		out, err := pool.Decompress(deflated, uint64(len(data)))
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("iteration %d: mismatch", i)
		}
	}
}
