package itpack

import (
	"testing"
)

func TestFilterSetMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		exprs []string
		path  string
		want  bool
	}{
		{"nil set matches all", nil, "anything/at/all", true},
		{"empty set matches all", []string{}, "x.txt", true},
		{"suffix match", []string{`\.xml$`}, "data/world.xml", true},
		{"suffix miss", []string{`\.xml$`}, "data/world.txt", false},
		{"or semantics first", []string{`\.xml$`, `^texture/`}, "data/world.xml", true},
		{"or semantics second", []string{`\.xml$`, `^texture/`}, "texture/grass.dds", true},
		{"or semantics miss", []string{`\.xml$`, `^texture/`}, "sound/bgm.raw", false},
		{"substring match", []string{`world`}, "data/world_map.bin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs, err := CompileFilters(tt.exprs)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := fs.Match(tt.path); got != tt.want {
				t.Fatalf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilterSetNilMatchesAll(t *testing.T) {
	t.Parallel()

	var fs *FilterSet
	if !fs.Match("whatever") {
		t.Fatal("nil filter set must match everything")
	}
}

func TestCompileFiltersInvalid(t *testing.T) {
	t.Parallel()

	if _, err := CompileFilters([]string{`valid`, `(`}); err == nil {
		t.Fatal("invalid expression must fail compilation")
	}
}
