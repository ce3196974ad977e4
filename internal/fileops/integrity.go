package fileops

import (
	"fmt"
	"hash/crc32"
)

// Checksum computes the CRC-32 (IEEE) of data. It is recorded per entry
// over the original decoded bytes.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// VerifyChecksum checks decoded content against an entry's recorded CRC.
func VerifyChecksum(e *Entry, data []byte) error {
	if got := crc32.ChecksumIEEE(data); got != e.CRC {
		return fmt.Errorf("%w: crc %08x, want %08x", ErrChecksum, got, e.CRC)
	}
	return nil
}
