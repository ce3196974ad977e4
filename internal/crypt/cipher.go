package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/tirnanog/itpack/internal/packtype"
)

// Encrypt enciphers plaintext with AES-128-CBC and PKCS#7 padding.
// The output length is always a multiple of the block size and at
// least one block longer than len(plaintext) rounded down.
func Encrypt(plaintext []byte, key, iv [KeySize]byte) []byte {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		// KeySize is a valid AES key length.
		panic("crypt: " + err.Error())
	}

	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	out := make([]byte, len(plaintext)+pad)
	copy(out, plaintext)
	for i := len(plaintext); i < len(out); i++ {
		out[i] = byte(pad)
	}

	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(out, out)
	return out
}

// Decrypt deciphers AES-128-CBC ciphertext and strips PKCS#7 padding.
//
// A ciphertext whose length is not a positive multiple of the block size
// fails with ErrCipher; structurally invalid padding fails with ErrUnpad.
// Both indicate a wrong passphrase or corrupted payload, and are distinct
// from I/O failures by construction.
func Decrypt(ciphertext []byte, key, iv [KeySize]byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: length %d not a block multiple", packtype.ErrCipher, len(ciphertext))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		panic("crypt: " + err.Error())
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(out, ciphertext)

	return unpad(out)
}

// unpad validates and removes PKCS#7 padding.
func unpad(data []byte) ([]byte, error) {
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, fmt.Errorf("%w: pad byte %d", packtype.ErrUnpad, pad)
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("%w: inconsistent pad bytes", packtype.ErrUnpad)
		}
	}
	return data[:len(data)-pad], nil
}
