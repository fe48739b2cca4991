// Package ignore compiles glob patterns into a read-only rule set used both
// to exclude paths from the directory walk and to exclude dependency names
// from reports. A leading '!' negates a pattern (re-includes what an earlier
// pattern excluded); the last matching pattern wins.
//
// The rule set is built once before any worker starts and is safe for
// concurrent use.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rule is one compiled pattern. Patterns use doublestar syntax, so '**'
// spans path separators.
type rule struct {
	pattern string
	negate  bool
}

// RuleSet is a compiled, immutable matcher over paths and dependency names.
type RuleSet struct {
	rules []rule
}

// Compile builds a RuleSet from glob patterns. A malformed pattern fails the
// whole compilation with the offending pattern in the error; this is a setup
// failure and must abort the check before traversal starts.
func Compile(patterns []string) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]rule, 0, len(patterns))}
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		if negate {
			p = p[1:]
		}
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("malformed ignore pattern %q", p)
		}
		rs.rules = append(rs.rules, rule{pattern: p, negate: negate})
	}
	return rs, nil
}

// MatchPath reports whether a root-relative, slash-separated path is
// excluded. A pattern matches the full relative path, the base name, or, as
// a directory prefix, everything beneath it.
func (rs *RuleSet) MatchPath(rel string) bool {
	matched := false
	for _, r := range rs.rules {
		if matchOne(r.pattern, rel) {
			matched = !r.negate
		}
	}
	return matched
}

// MatchName reports whether a dependency name is excluded from reports.
func (rs *RuleSet) MatchName(name string) bool {
	matched := false
	for _, r := range rs.rules {
		if ok, _ := doublestar.Match(r.pattern, name); ok {
			matched = !r.negate
		}
	}
	return matched
}

// matchOne matches a single validated pattern against a relative path.
func matchOne(pattern, rel string) bool {
	if ok, _ := doublestar.Match(pattern, rel); ok {
		return true
	}
	if ok, _ := doublestar.Match(pattern, path.Base(rel)); ok {
		return true
	}
	// Directory pattern: "build" also excludes "build/main.js".
	if ok, _ := doublestar.Match(pattern+"/**", rel); ok {
		return true
	}
	return false
}

// LoadFile reads patterns from a VCS-style ignore file: one pattern per
// line, '#' comments and blank lines skipped. A missing file yields no
// patterns and no error.
func LoadFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ignore file %s: %w", filename, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", filename, err)
	}
	return patterns, nil
}
