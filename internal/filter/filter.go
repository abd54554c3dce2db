package filter

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Filter classifies comment text as effective (worth analyzing) or noise.
// The pattern list is data: any single match rejects the text.
type Filter struct {
	patterns []*regexp.Regexp
}

func New(patterns []string) (*Filter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		compiled = append(compiled, re)
	}
	return &Filter{patterns: compiled}, nil
}

// Effective reports whether text survives the invalidity chain. Empty or
// whitespace-only text never does. Evaluation short-circuits on the first
// matching pattern.
func (f *Filter) Effective(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(text) {
			return false
		}
	}
	return true
}
