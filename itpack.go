// Package itpack reads and writes ".it" game-asset pack archives: a
// single-file container bundling many files, each entry individually
// zlib-compressed, CRC-checksummed, and optionally encrypted with a key
// derived from a user passphrase and per-archive/per-entry salts.
package itpack

import (
	"io"

	"github.com/tirnanog/itpack/internal/packtype"
)

// Sentinel errors re-exported from the internal packages.
var (
	// ErrFormat is returned when the header or entry table is structurally
	// invalid. It is fatal: no entry is touched.
	ErrFormat = packtype.ErrFormat

	// ErrCipher is returned when an entry's ciphertext length is invalid.
	ErrCipher = packtype.ErrCipher

	// ErrUnpad is returned when block padding is invalid after decryption,
	// the primary signal of a wrong passphrase.
	ErrUnpad = packtype.ErrUnpad

	// ErrDecompression is returned when an entry's payload cannot be inflated.
	ErrDecompression = packtype.ErrDecompression

	// ErrLengthMismatch is returned when decoded content does not match the
	// entry's recorded original size.
	ErrLengthMismatch = packtype.ErrLengthMismatch

	// ErrChecksum is returned when decoded content fails CRC verification.
	ErrChecksum = packtype.ErrChecksum

	// ErrSaltFile is returned when a salt file cannot be loaded.
	ErrSaltFile = packtype.ErrSaltFile

	// ErrNoKey is returned when an encrypted entry is decoded without a
	// passphrase.
	ErrNoKey = packtype.ErrNoKey

	// ErrSymlink is returned when packing encounters a symlink.
	ErrSymlink = packtype.ErrSymlink

	// ErrTooManyFiles is returned when an entry count exceeds the format's
	// sane bound.
	ErrTooManyFiles = packtype.ErrTooManyFiles
)

// Method identifies how an entry's payload bytes are stored.
type Method = packtype.Method

// Storage method constants.
const (
	MethodStored              = packtype.MethodStored
	MethodCompressed          = packtype.MethodCompressed
	MethodEncrypted           = packtype.MethodEncrypted
	MethodCompressedEncrypted = packtype.MethodCompressedEncrypted
)

// Entry describes one file stored in an archive.
type Entry = packtype.Entry

// EntryError records a recoverable per-entry failure during extraction
// or verification.
type EntryError = packtype.EntryError

// ByteSource provides random access to archive bytes.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// SaltStore resolves a per-archive salt from an archive filename.
// A miss means the archive uses no additional salt.
type SaltStore interface {
	Lookup(name string) (string, bool)
}
