package secretscanner

import (
	"fmt"
	"strings"

	regexp "github.com/wasilibs/go-re2"
)

// SkipRules decides which files are left out of the results by base name.
// It is built once per run and not modified afterwards.
type SkipRules struct {
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

// NewSkipRules compiles the exact names and regular expressions.
func NewSkipRules(names []string, patterns []string) (*SkipRules, error) {
	rules := &SkipRules{
		exact:    make(map[string]struct{}, len(names)),
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			rules.exact[n] = struct{}{}
		}
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern %q: %w", p, err)
		}
		rules.patterns = append(rules.patterns, re)
	}
	return rules, nil
}

// Match reports whether the base name of path is skipped and which rule
// matched it.
func (s *SkipRules) Match(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	base := baseName(path)
	if base == "" {
		return "", false
	}
	if _, ok := s.exact[base]; ok {
		return base, true
	}
	for _, re := range s.patterns {
		if re.MatchString(base) {
			return re.String(), true
		}
	}
	return "", false
}

// Len is the number of rules.
func (s *SkipRules) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exact) + len(s.patterns)
}

// baseName handles both separators since gitleaks reports host paths.
func baseName(p string) string {
	p = strings.TrimRight(strings.ReplaceAll(p, `\`, "/"), "/")
	return p[strings.LastIndex(p, "/")+1:]
}
