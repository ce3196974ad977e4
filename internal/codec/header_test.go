package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tirnanog/itpack/internal/packtype"
)

func validHeader() Header {
	h := Header{
		Version:     Version,
		Flags:       FlagEncrypted,
		EntryCount:  3,
		TableOffset: 1024,
		TableSize:   200,
		TableCRC:    0xdeadbeef,
	}
	for i := range h.DataDigest {
		h.DataDigest[i] = byte(i)
	}
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	want := validHeader()
	buf := AppendHeader(nil, want)
	if len(buf) != HeaderSize {
		t.Fatalf("serialized header is %d bytes, want %d", len(buf), HeaderSize)
	}

	got, err := ParseHeader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if !got.Encrypted() {
		t.Fatal("Encrypted() should report the flag")
	}
}

func TestParseHeaderRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(h *Header)
		corrupt func(buf []byte) []byte
		want    error
	}{
		{
			name:    "bad magic",
			corrupt: func(buf []byte) []byte { buf[0] = 'X'; return buf },
			want:    packtype.ErrFormat,
		},
		{
			name:   "unsupported version",
			mutate: func(h *Header) { h.Version = 99 },
			want:   packtype.ErrFormat,
		},
		{
			name:   "entry count over limit",
			mutate: func(h *Header) { h.EntryCount = MaxEntries + 1 },
			want:   packtype.ErrTooManyFiles,
		},
		{
			name:    "truncated",
			corrupt: func(buf []byte) []byte { return buf[:HeaderSize/2] },
			want:    packtype.ErrFormat,
		},
		{
			name:    "empty",
			corrupt: func([]byte) []byte { return nil },
			want:    packtype.ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := validHeader()
			if tt.mutate != nil {
				tt.mutate(&h)
			}
			buf := AppendHeader(nil, h)
			if tt.corrupt != nil {
				buf = tt.corrupt(buf)
			}

			if _, err := ParseHeader(bytes.NewReader(buf)); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHeaderValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   Header
		fileSize int64
		wantErr  bool
	}{
		{
			name:     "table fits",
			header:   Header{TableOffset: HeaderSize, TableSize: 36},
			fileSize: HeaderSize + 36,
		},
		{
			name:     "table offset inside header",
			header:   Header{TableOffset: HeaderSize - 1, TableSize: 10},
			fileSize: 1000,
			wantErr:  true,
		},
		{
			name:     "table past end of file",
			header:   Header{TableOffset: HeaderSize, TableSize: 100},
			fileSize: HeaderSize + 99,
			wantErr:  true,
		},
		{
			name:     "table offset overflow",
			header:   Header{TableOffset: ^uint64(0) - 1, TableSize: 16},
			fileSize: 1000,
			wantErr:  true,
		},
		{
			name:     "file shorter than header",
			header:   Header{TableOffset: HeaderSize},
			fileSize: HeaderSize - 1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.header.Validate(tt.fileSize)
			if tt.wantErr {
				if !errors.Is(err, packtype.ErrFormat) {
					t.Fatalf("got %v, want ErrFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
