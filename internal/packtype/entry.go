// Package packtype holds the shared archive types used across the itpack
// internal packages. Keeping them here avoids import cycles between the
// codec, pipeline, and batch packages.
package packtype

// SaltSize is the length in bytes of the per-entry key derivation salt.
const SaltSize = 16

// Method identifies how an entry's payload bytes are stored.
//
// The four variants make the decode pipeline's branch set exhaustive:
// compression and encryption are not independent booleans on the wire.
type Method uint8

const (
	MethodStored Method = iota
	MethodCompressed
	MethodEncrypted
	MethodCompressedEncrypted
)

// Compressed reports whether the payload is zlib-compressed.
func (m Method) Compressed() bool {
	return m == MethodCompressed || m == MethodCompressedEncrypted
}

// Encrypted reports whether the payload is enciphered.
func (m Method) Encrypted() bool {
	return m == MethodEncrypted || m == MethodCompressedEncrypted
}

// Valid reports whether m is one of the defined variants.
func (m Method) Valid() bool {
	return m <= MethodCompressedEncrypted
}

func (m Method) String() string {
	switch m {
	case MethodStored:
		return "stored"
	case MethodCompressed:
		return "compressed"
	case MethodEncrypted:
		return "encrypted"
	case MethodCompressedEncrypted:
		return "compressed+encrypted"
	default:
		return "unknown"
	}
}

// Entry describes one file stored in an archive.
//
// Entries are immutable once an archive is opened; pack construction is
// the only place they are mutated.
type Entry struct {
	// Path is the file path relative to the archive root, forward slashes,
	// valid per io/fs.ValidPath.
	Path string

	// Method records how the payload bytes are stored.
	Method Method

	// Salt is the per-entry salt mixed into key derivation.
	Salt [SaltSize]byte

	// Offset is the byte offset of the payload within the data region.
	Offset uint64

	// StoredSize is the payload length as stored, after compression and
	// encryption.
	StoredSize uint64

	// OriginalSize is the decompressed length.
	OriginalSize uint64

	// CRC is the CRC-32 (IEEE) of the original decoded bytes.
	CRC uint32
}
