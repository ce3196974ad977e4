package packtype

import (
	"errors"
	"testing"
)

func TestMethodProperties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method     Method
		compressed bool
		encrypted  bool
		str        string
	}{
		{MethodStored, false, false, "stored"},
		{MethodCompressed, true, false, "compressed"},
		{MethodEncrypted, false, true, "encrypted"},
		{MethodCompressedEncrypted, true, true, "compressed+encrypted"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			t.Parallel()
			if tt.method.Compressed() != tt.compressed {
				t.Fatalf("Compressed() = %v", tt.method.Compressed())
			}
			if tt.method.Encrypted() != tt.encrypted {
				t.Fatalf("Encrypted() = %v", tt.method.Encrypted())
			}
			if !tt.method.Valid() {
				t.Fatal("defined method must be valid")
			}
			if tt.method.String() != tt.str {
				t.Fatalf("String() = %q", tt.method.String())
			}
		})
	}

	if Method(4).Valid() {
		t.Fatal("method 4 must be invalid")
	}
	if Method(4).String() != "unknown" {
		t.Fatalf("String() = %q", Method(4).String())
	}
}

func TestEntryError(t *testing.T) {
	t.Parallel()

	err := &EntryError{Path: "data/a.txt", Err: ErrChecksum}
	if !errors.Is(err, ErrChecksum) {
		t.Fatal("EntryError must unwrap to its cause")
	}
	if msg := err.Error(); msg == "" {
		t.Fatal("empty error message")
	}
}
