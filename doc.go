// Package itpack reads and writes ".it" game-asset pack archives.
//
// A pack is one binary file bundling many entries. Each entry is
// individually zlib-compressed (best-effort), CRC-32 checksummed, and
// optionally enciphered with AES-128-CBC under a key derived from a
// user passphrase ("SaltKey"), a per-archive salt, and a per-entry
// salt. The on-disk layout is a fixed compatibility contract with the
// existing ecosystem of tools that read this format.
//
// # Quick start
//
// Pack a directory:
//
//	stats, err := itpack.Create(ctx, "./assets", "data.it",
//	    itpack.CreateWithKey("SaltKey"),
//	)
//
// List and extract:
//
//	a, err := itpack.Open("data.it", itpack.OpenWithKey("SaltKey"))
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	for e := range a.Entries() {
//	    fmt.Println(e.Path)
//	}
//	stats, err := a.ExtractTo(ctx, "./out")
//
// Extraction is best-effort: a corrupted or wrongly keyed entry is
// skipped and reported in the returned stats, and the remaining entries
// still extract. Header and table corruption is fatal and surfaces as
// [ErrFormat] before any entry is touched.
//
// # Salts
//
// Key derivation binds the per-archive salt resolved from the archive's
// ORIGINAL filename. Renaming an archive therefore breaks salt lookup;
// pass the original name with [OpenWithName] when reading a renamed
// copy. Salt files ("name=salt" lines) are loaded with [LoadSalts].
package itpack
