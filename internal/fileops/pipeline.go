package fileops

import (
	"crypto/rand"
	"fmt"

	"github.com/tirnanog/itpack/internal/crypt"
	"github.com/tirnanog/itpack/internal/packtype"
)

// Codec runs the payload pipeline for one archive: it carries the
// passphrase and archive salt used for key derivation and a shared
// inflater pool. A Codec is safe for concurrent use.
type Codec struct {
	passphrase  string
	archiveSalt string
	pool        *InflaterPool
}

// NewCodec creates a payload codec. An empty passphrase disables
// encryption on encode and rejects encrypted entries on decode.
func NewCodec(passphrase, archiveSalt string) *Codec {
	return &Codec{
		passphrase:  passphrase,
		archiveSalt: archiveSalt,
		pool:        NewInflaterPool(),
	}
}

// Keyed reports whether a passphrase is configured.
func (c *Codec) Keyed() bool {
	return c.passphrase != ""
}

// Decode reconstructs an entry's original bytes from its stored payload:
// decrypt if flagged, inflate if flagged, then verify the CRC.
//
// Every failure mode maps to one of the sentinel errors, so callers can
// tell a wrong passphrase (ErrUnpad, ErrCipher) from corruption
// (ErrDecompression, ErrLengthMismatch, ErrChecksum).
func (c *Codec) Decode(e *Entry, stored []byte) ([]byte, error) {
	data := stored

	if e.Method.Encrypted() {
		if c.passphrase == "" {
			return nil, ErrNoKey
		}
		key, iv := crypt.Derive(c.passphrase, c.archiveSalt, e.Path, e.Salt[:])
		plain, err := crypt.Decrypt(data, key, iv)
		if err != nil {
			return nil, err
		}
		data = plain
	}

	if e.Method.Compressed() {
		inflated, err := c.pool.Decompress(data, e.OriginalSize)
		if err != nil {
			return nil, err
		}
		data = inflated
	} else if uint64(len(data)) != e.OriginalSize {
		return nil, fmt.Errorf("%w: stored %d bytes, want %d", ErrLengthMismatch, len(data), e.OriginalSize)
	}

	if err := VerifyChecksum(e, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Encode produces an entry's stored payload from its original bytes and
// fills the entry's method, salt, sizes and CRC. Offset assignment is
// left to the caller, which runs after all entries are sized.
//
// When compress is true the deflated form is kept only if strictly
// smaller, so both directions round-trip exactly.
func (c *Codec) Encode(e *Entry, original []byte, compress bool) ([]byte, error) {
	e.OriginalSize = uint64(len(original))
	e.CRC = Checksum(original)

	data := original
	compressed := false
	if compress && len(original) > 0 {
		if deflated := Compress(original); len(deflated) < len(original) {
			data = deflated
			compressed = true
		}
	}

	encrypted := c.passphrase != ""
	if encrypted {
		if _, err := rand.Read(e.Salt[:]); err != nil {
			return nil, fmt.Errorf("generate entry salt: %w", err)
		}
		key, iv := crypt.Derive(c.passphrase, c.archiveSalt, e.Path, e.Salt[:])
		data = crypt.Encrypt(data, key, iv)
	} else {
		e.Salt = [packtype.SaltSize]byte{}
	}

	switch {
	case compressed && encrypted:
		e.Method = MethodCompressedEncrypted
	case compressed:
		e.Method = MethodCompressed
	case encrypted:
		e.Method = MethodEncrypted
	default:
		e.Method = MethodStored
	}
	e.StoredSize = uint64(len(data))
	return data, nil
}
