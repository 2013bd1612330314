package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// Separator marks the elided middle of a truncated filename
const Separator = "..."

var (
	// ErrNotPattern is returned for entries without a separator
	ErrNotPattern = errors.New("entry is not a truncated pattern")
	// ErrMalformedPattern is returned for entries with several separators
	// or an empty prefix or suffix
	ErrMalformedPattern = errors.New("malformed truncated pattern")
)

// Pattern is a truncated filename of the form PREFIX...SUFFIX
type Pattern struct {
	Prefix string
	Suffix string
}

// ParsePattern splits raw around its only separator.
// More than one separator is rejected rather than guessing which one
// was the elision.
func ParsePattern(raw string) (Pattern, error) {
	switch n := strings.Count(raw, Separator); {
	case n == 0:
		return Pattern{}, ErrNotPattern
	case n > 1:
		return Pattern{}, fmt.Errorf("%w: %d separators in %q", ErrMalformedPattern, n, raw)
	}

	prefix, suffix, _ := strings.Cut(raw, Separator)
	if prefix == "" || suffix == "" {
		return Pattern{}, fmt.Errorf("%w: empty prefix or suffix in %q", ErrMalformedPattern, raw)
	}

	return Pattern{Prefix: prefix, Suffix: suffix}, nil
}

// Matches reports whether name starts with Prefix and ends with Suffix.
// Prefix and suffix may not overlap inside name.
func (p Pattern) Matches(name string) bool {
	if len(name) < len(p.Prefix)+len(p.Suffix) {
		return false
	}
	return strings.HasPrefix(name, p.Prefix) && strings.HasSuffix(name, p.Suffix)
}

func (p Pattern) String() string {
	return p.Prefix + Separator + p.Suffix
}
