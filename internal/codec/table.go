package codec

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/tirnanog/itpack/internal/packtype"
)

// entryFixedSize is the size of the fixed fields following an entry's
// path bytes: method, salt, offset, stored size, original size, crc.
const entryFixedSize = 1 + packtype.SaltSize + 8 + 8 + 8 + 4

// ParseTable decodes count entries from the serialized table bytes.
// The whole buffer must be consumed; trailing bytes are a format error.
func ParseTable(data []byte, count uint32) ([]packtype.Entry, error) {
	entries := make([]packtype.Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, rest, err := parseEntry(data)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
		data = rest
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after entry table", packtype.ErrFormat, len(data))
	}
	return entries, nil
}

func parseEntry(data []byte) (packtype.Entry, []byte, error) {
	if len(data) < 2 {
		return packtype.Entry{}, nil, fmt.Errorf("%w: truncated entry", packtype.ErrFormat)
	}
	pathLen := int(binary.LittleEndian.Uint16(data[0:2]))
	if pathLen == 0 || pathLen > MaxPathLen {
		return packtype.Entry{}, nil, fmt.Errorf("%w: path length %d", packtype.ErrFormat, pathLen)
	}
	if len(data) < 2+pathLen+entryFixedSize {
		return packtype.Entry{}, nil, fmt.Errorf("%w: truncated entry", packtype.ErrFormat)
	}
	pathBytes := data[2 : 2+pathLen]
	if !utf8.Valid(pathBytes) {
		return packtype.Entry{}, nil, fmt.Errorf("%w: path is not valid UTF-8", packtype.ErrFormat)
	}

	e := packtype.Entry{Path: string(pathBytes)}
	rest := data[2+pathLen:]

	e.Method = packtype.Method(rest[0])
	if !e.Method.Valid() {
		return packtype.Entry{}, nil, fmt.Errorf("%w: unknown storage method %d", packtype.ErrFormat, rest[0])
	}
	copy(e.Salt[:], rest[1:1+packtype.SaltSize])
	rest = rest[1+packtype.SaltSize:]

	e.Offset = binary.LittleEndian.Uint64(rest[0:8])
	e.StoredSize = binary.LittleEndian.Uint64(rest[8:16])
	e.OriginalSize = binary.LittleEndian.Uint64(rest[16:24])
	e.CRC = binary.LittleEndian.Uint32(rest[24:28])

	return e, rest[28:], nil
}

// AppendEntry serializes e to buf, returning the extended slice.
// The inverse of parseEntry; output must round-trip byte-identically.
func AppendEntry(buf []byte, e packtype.Entry) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(e.Path)))
	buf = append(buf, e.Path...)
	buf = append(buf, byte(e.Method))
	buf = append(buf, e.Salt[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, e.Offset)
	buf = binary.LittleEndian.AppendUint64(buf, e.StoredSize)
	buf = binary.LittleEndian.AppendUint64(buf, e.OriginalSize)
	buf = binary.LittleEndian.AppendUint32(buf, e.CRC)
	return buf
}

// EncodeTable serializes entries in order.
func EncodeTable(entries []packtype.Entry) []byte {
	size := 0
	for i := range entries {
		size += 2 + len(entries[i].Path) + entryFixedSize
	}
	buf := make([]byte, 0, size)
	for i := range entries {
		buf = AppendEntry(buf, entries[i])
	}
	return buf
}

// ValidateEntries checks per-entry invariants against the payload region
// size: paths must be valid and unique, payload ranges must lie inside
// the region.
func ValidateEntries(entries []packtype.Entry, payloadSize uint64) error {
	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		if !fs.ValidPath(e.Path) {
			return fmt.Errorf("%w: invalid entry path %q", packtype.ErrFormat, e.Path)
		}
		if _, dup := seen[e.Path]; dup {
			return fmt.Errorf("%w: duplicate entry path %q", packtype.ErrFormat, e.Path)
		}
		seen[e.Path] = struct{}{}

		end := e.Offset + e.StoredSize
		if end < e.Offset || end > payloadSize {
			return fmt.Errorf("%w: entry %q payload [%d, %d) past data region (%d)",
				packtype.ErrFormat, e.Path, e.Offset, end, payloadSize)
		}
	}
	return nil
}
