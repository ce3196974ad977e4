// Package fileops implements the per-entry payload pipeline: zlib
// compression, cipher wrapping, and CRC integrity, in both the pack and
// extract directions.
package fileops

import "github.com/tirnanog/itpack/internal/packtype"

// Re-export types from packtype to keep call sites short.
type (
	Entry  = packtype.Entry
	Method = packtype.Method
)

// Re-export method constants.
const (
	MethodStored              = packtype.MethodStored
	MethodCompressed          = packtype.MethodCompressed
	MethodEncrypted           = packtype.MethodEncrypted
	MethodCompressedEncrypted = packtype.MethodCompressedEncrypted
)

// Re-export sentinel errors.
var (
	ErrCipher         = packtype.ErrCipher
	ErrUnpad          = packtype.ErrUnpad
	ErrDecompression  = packtype.ErrDecompression
	ErrLengthMismatch = packtype.ErrLengthMismatch
	ErrChecksum       = packtype.ErrChecksum
	ErrNoKey          = packtype.ErrNoKey
)
