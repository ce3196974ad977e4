package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"testing"

	"github.com/tirnanog/itpack/internal/packtype"
)

func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()

	salt := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	k1, iv1 := Derive("pass", "archsalt", "data/a.txt", salt)
	k2, iv2 := Derive("pass", "archsalt", "data/a.txt", salt)

	if k1 != k2 || iv1 != iv2 {
		t.Fatal("identical inputs produced different key material")
	}
	if k1 == iv1 {
		t.Fatal("key and iv must differ")
	}
}

func TestDeriveInputSensitivity(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{0xab}, 16)
	base, _ := Derive("pass", "salt", "a.txt", salt)

	tests := []struct {
		name       string
		passphrase string
		archSalt   string
		path       string
		entrySalt  []byte
	}{
		{"passphrase", "other", "salt", "a.txt", salt},
		{"archive salt", "pass", "other", "a.txt", salt},
		{"path", "pass", "salt", "b.txt", salt},
		{"entry salt", "pass", "salt", "a.txt", bytes.Repeat([]byte{0xcd}, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			k, _ := Derive(tt.passphrase, tt.archSalt, tt.path, tt.entrySalt)
			if k == base {
				t.Fatalf("changing %s did not change the key", tt.name)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	key, iv := Derive("pass", "salt", "a.txt", bytes.Repeat([]byte{7}, 16))

	tests := []struct {
		name  string
		plain []byte
	}{
		{"empty", nil},
		{"short", []byte("hi")},
		{"block aligned", bytes.Repeat([]byte{0x55}, 32)},
		{"one under block", bytes.Repeat([]byte{0x55}, 15)},
		{"large", bytes.Repeat([]byte("lorem ipsum "), 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc := Encrypt(tt.plain, key, iv)
			if len(enc)%aes.BlockSize != 0 {
				t.Fatalf("ciphertext length %d not block aligned", len(enc))
			}
			if len(enc) <= len(tt.plain) {
				t.Fatalf("ciphertext length %d must exceed plaintext %d", len(enc), len(tt.plain))
			}

			dec, err := Decrypt(enc, key, iv)
			if err != nil {
				t.Fatalf("decrypt: %v", err)
			}
			if !bytes.Equal(dec, tt.plain) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}

func TestDecryptBadLength(t *testing.T) {
	t.Parallel()

	key, iv := Derive("pass", "salt", "a.txt", bytes.Repeat([]byte{7}, 16))

	for _, n := range []int{1, 15, 17, 31} {
		if _, err := Decrypt(make([]byte, n), key, iv); !errors.Is(err, packtype.ErrCipher) {
			t.Fatalf("length %d: got %v, want ErrCipher", n, err)
		}
	}
	if _, err := Decrypt(nil, key, iv); !errors.Is(err, packtype.ErrCipher) {
		t.Fatalf("empty: got %v, want ErrCipher", err)
	}
}

func TestDecryptBadPadding(t *testing.T) {
	t.Parallel()

	key, iv := Derive("pass", "salt", "a.txt", bytes.Repeat([]byte{7}, 16))

	// Build a raw CBC ciphertext whose plaintext ends in a zero byte,
	// which can never be valid PKCS#7 padding.
	block, err := aes.NewCipher(key[:])
	if err != nil {
		t.Fatal(err)
	}
	plain := make([]byte, aes.BlockSize) // all zero, pad byte 0
	raw := make([]byte, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(raw, plain)

	if _, err := Decrypt(raw, key, iv); !errors.Is(err, packtype.ErrUnpad) {
		t.Fatalf("got %v, want ErrUnpad", err)
	}

	// Inconsistent pad bytes: plaintext ends ... 0x01 0x02.
	plain[aes.BlockSize-1] = 2
	plain[aes.BlockSize-2] = 1
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(raw, plain)
	if _, err := Decrypt(raw, key, iv); !errors.Is(err, packtype.ErrUnpad) {
		t.Fatalf("got %v, want ErrUnpad", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	t.Parallel()

	key, iv := Derive("pass", "salt", "a.txt", bytes.Repeat([]byte{7}, 16))
	wrong, wrongIV := Derive("other", "salt", "a.txt", bytes.Repeat([]byte{7}, 16))

	plain := bytes.Repeat([]byte("secret payload "), 64)
	enc := Encrypt(plain, key, iv)

	dec, err := Decrypt(enc, wrong, wrongIV)
	if err == nil && bytes.Equal(dec, plain) {
		t.Fatal("wrong key must not recover the plaintext")
	}
}
