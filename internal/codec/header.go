// Package codec parses and serializes the on-disk ".it" container layout:
// a fixed 64-byte header, a payload region, and a trailing entry table.
// All integers are little-endian. The layout is a compatibility contract;
// both directions must round-trip byte-identically.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tirnanog/itpack/internal/packtype"
)

const (
	// HeaderSize is the fixed size of the archive header in bytes.
	HeaderSize = 64

	// Version is the only recognized container version.
	Version = 2

	// MaxEntries bounds the declared entry count. Guards against
	// corrupted headers triggering unbounded allocation.
	MaxEntries = 1_000_000

	// MaxPathLen bounds a stored entry path, in bytes.
	MaxPathLen = 4096
)

// magic identifies an itpack container.
var magic = [4]byte{'I', 'T', 'P', 'K'}

// Header flag bits.
const (
	// FlagEncrypted marks an archive that carries encrypted entries.
	FlagEncrypted uint16 = 1 << 0
)

// DigestSize is the size of the archive payload digest (SHA-256).
const DigestSize = 32

// Header is the decoded archive header.
type Header struct {
	Version    uint16
	Flags      uint16
	EntryCount uint32
	// TableOffset is the absolute byte offset of the entry table.
	TableOffset uint64
	TableSize   uint64
	// TableCRC is the CRC-32 (IEEE) of the serialized table bytes.
	TableCRC uint32
	// DataDigest is the SHA-256 of the payload region.
	DataDigest [DigestSize]byte
}

// Encrypted reports whether the archive carries encrypted entries.
func (h Header) Encrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// ParseHeader reads and decodes the fixed-size header. A file whose
// first bytes do not carry the expected magic or a recognized version is
// rejected with ErrFormat before any entry is touched.
func ParseHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("%w: short header: %v", packtype.ErrFormat, err)
	}
	if [4]byte(buf[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", packtype.ErrFormat, buf[0:4])
	}

	h := Header{
		Version:     binary.LittleEndian.Uint16(buf[4:6]),
		Flags:       binary.LittleEndian.Uint16(buf[6:8]),
		EntryCount:  binary.LittleEndian.Uint32(buf[8:12]),
		TableOffset: binary.LittleEndian.Uint64(buf[12:20]),
		TableSize:   binary.LittleEndian.Uint64(buf[20:28]),
		TableCRC:    binary.LittleEndian.Uint32(buf[28:32]),
	}
	copy(h.DataDigest[:], buf[32:64])

	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", packtype.ErrFormat, h.Version)
	}
	if h.EntryCount > MaxEntries {
		return Header{}, fmt.Errorf("%w: entry count %d exceeds limit", packtype.ErrTooManyFiles, h.EntryCount)
	}
	return h, nil
}

// Validate checks the header's table bounds against the archive size.
func (h Header) Validate(fileSize int64) error {
	if fileSize < HeaderSize {
		return fmt.Errorf("%w: file shorter than header", packtype.ErrFormat)
	}
	if h.TableOffset < HeaderSize {
		return fmt.Errorf("%w: table offset %d inside header", packtype.ErrFormat, h.TableOffset)
	}
	end := h.TableOffset + h.TableSize
	if end < h.TableOffset || end > uint64(fileSize) {
		return fmt.Errorf("%w: table [%d, %d) past end of file (%d)",
			packtype.ErrFormat, h.TableOffset, end, fileSize)
	}
	return nil
}

// AppendHeader serializes h to buf, returning the extended slice.
func AppendHeader(buf []byte, h Header) []byte {
	buf = append(buf, magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, h.Version)
	buf = binary.LittleEndian.AppendUint16(buf, h.Flags)
	buf = binary.LittleEndian.AppendUint32(buf, h.EntryCount)
	buf = binary.LittleEndian.AppendUint64(buf, h.TableOffset)
	buf = binary.LittleEndian.AppendUint64(buf, h.TableSize)
	buf = binary.LittleEndian.AppendUint32(buf, h.TableCRC)
	buf = append(buf, h.DataDigest[:]...)
	return buf
}
