package packtype

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the itpack packages. The root package
// re-exports these for callers.
var (
	// ErrFormat is returned when the archive header or entry table is
	// structurally invalid. It is always fatal for the operation.
	ErrFormat = errors.New("itpack: invalid archive format")

	// ErrCipher is returned when ciphertext is structurally invalid,
	// for example when its length is not a multiple of the block size.
	ErrCipher = errors.New("itpack: invalid ciphertext")

	// ErrUnpad is returned when block padding is invalid after decryption.
	// This is the primary signal of a wrong passphrase.
	ErrUnpad = errors.New("itpack: invalid padding")

	// ErrDecompression is returned when a compressed payload cannot be
	// inflated.
	ErrDecompression = errors.New("itpack: decompression failed")

	// ErrLengthMismatch is returned when a decompressed payload does not
	// match the entry's recorded original size.
	ErrLengthMismatch = errors.New("itpack: decompressed length mismatch")

	// ErrChecksum is returned when decoded content fails CRC verification.
	ErrChecksum = errors.New("itpack: checksum mismatch")

	// ErrSaltFile is returned when a salt file cannot be loaded.
	ErrSaltFile = errors.New("itpack: malformed salt file")

	// ErrNoKey is returned when an encrypted entry is decoded without a
	// passphrase.
	ErrNoKey = errors.New("itpack: encrypted entry requires a key")

	// ErrSymlink is returned when a symlink is encountered during packing.
	ErrSymlink = errors.New("itpack: symlink")

	// ErrTooManyFiles is returned when the entry count exceeds the sane
	// bound for the format.
	ErrTooManyFiles = errors.New("itpack: too many files")
)

// EntryError records a recoverable per-entry failure. Extraction and
// verification collect these and continue with the remaining entries.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
