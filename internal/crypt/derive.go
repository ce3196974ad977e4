// Package crypt implements the per-entry key schedule and cipher
// pipeline: MD5-based key derivation and AES-128-CBC with PKCS#7
// padding. The derivation transform is a compatibility contract with
// existing archives; do not change it.
package crypt

import "crypto/md5" //nolint:gosec // format-mandated key derivation, not collision-sensitive

// KeySize is the AES-128 key length produced by Derive.
const KeySize = 16

// Derive produces the cipher key and IV for one entry.
//
// key = MD5(passphrase || archiveSalt || path || entrySalt)
// iv  = MD5(key || entrySalt)
//
// Deterministic: identical inputs always yield identical key material,
// which is what lets an archive packed earlier be extracted with the
// same passphrase. Binding the path and per-entry salt into the key
// keeps one entry's material from decrypting another.
func Derive(passphrase, archiveSalt, path string, entrySalt []byte) (key, iv [KeySize]byte) {
	h := md5.New() //nolint:gosec // see package comment
	h.Write([]byte(passphrase))
	h.Write([]byte(archiveSalt))
	h.Write([]byte(path))
	h.Write(entrySalt)
	h.Sum(key[:0])

	h.Reset()
	h.Write(key[:])
	h.Write(entrySalt)
	h.Sum(iv[:0])
	return key, iv
}
