package saltfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tirnanog/itpack/internal/packtype"
)

func writeSaltFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salts.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		wantLen     int
		wantSkipped int
		lookups     map[string]string
	}{
		{
			name:    "basic",
			content: "world.it=abc123\nchar.it=def456\n",
			wantLen: 2,
			lookups: map[string]string{"world.it": "abc123", "char.it": "def456"},
		},
		{
			name:    "comments and blanks",
			content: "# header comment\n\nworld.it=abc\n\n# trailing\n",
			wantLen: 1,
			lookups: map[string]string{"world.it": "abc"},
		},
		{
			name:    "whitespace trimmed",
			content: "  world.it = abc  \n",
			wantLen: 1,
			lookups: map[string]string{"world.it": "abc"},
		},
		{
			name:        "malformed line skipped",
			content:     "world.it=abc\nnodelimiter\n=nosalt\n",
			wantLen:     1,
			wantSkipped: 2,
			lookups:     map[string]string{"world.it": "abc"},
		},
		{
			name:    "empty salt value allowed",
			content: "plain.it=\n",
			wantLen: 1,
			lookups: map[string]string{"plain.it": ""},
		},
		{
			name:    "last record wins on duplicate",
			content: "world.it=old\nworld.it=new\n",
			wantLen: 1,
			lookups: map[string]string{"world.it": "new"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st, err := Load(writeSaltFile(t, tt.content), nil)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if st.Len() != tt.wantLen {
				t.Fatalf("len %d, want %d", st.Len(), tt.wantLen)
			}
			if st.Skipped() != tt.wantSkipped {
				t.Fatalf("skipped %d, want %d", st.Skipped(), tt.wantSkipped)
			}
			for name, want := range tt.lookups {
				got, ok := st.Lookup(name)
				if !ok || got != want {
					t.Fatalf("lookup %q = %q, %v; want %q, true", name, got, ok, want)
				}
			}
		})
	}
}

func TestLoadAllMalformed(t *testing.T) {
	t.Parallel()

	_, err := Load(writeSaltFile(t, "garbage\nmore garbage\n"), nil)
	if !errors.Is(err, packtype.ErrSaltFile) {
		t.Fatalf("got %v, want ErrSaltFile", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent.txt")

	if _, err := Load(missing, nil); !os.IsNotExist(err) {
		t.Fatalf("Load: got %v, want not-exist", err)
	}

	st, err := LoadOrEmpty(missing, nil)
	if err != nil {
		t.Fatalf("LoadOrEmpty: %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("empty store expected, got %d records", st.Len())
	}
	if _, ok := st.Lookup("anything"); ok {
		t.Fatal("empty store must miss every name")
	}
}

func TestZeroStore(t *testing.T) {
	t.Parallel()

	var st Store
	if _, ok := st.Lookup("world.it"); ok {
		t.Fatal("zero store must miss")
	}
	if st.Len() != 0 {
		t.Fatal("zero store has no records")
	}
}
