package itpack

import (
	"fmt"
	"regexp"
)

// FilterSet selects entries by path. Patterns are regular expressions
// combined with OR semantics; an empty set matches everything.
//
// A FilterSet is stateless after construction and safe for concurrent
// use.
type FilterSet struct {
	patterns []*regexp.Regexp
}

// CompileFilters compiles pattern expressions into a FilterSet.
// An invalid expression fails the whole compilation.
func CompileFilters(exprs []string) (*FilterSet, error) {
	fs := &FilterSet{patterns: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("itpack: invalid filter %q: %w", expr, err)
		}
		fs.patterns = append(fs.patterns, re)
	}
	return fs, nil
}

// Match reports whether path is selected by the set.
func (f *FilterSet) Match(path string) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
