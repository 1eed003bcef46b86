package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Mode selects how a pattern is applied to directory names.
type Mode int

const (
	// ModeFixed matches a case-insensitive substring.
	ModeFixed Mode = iota
	// ModeWildcard matches a shell glob against the whole name.
	ModeWildcard
	// ModeRegex runs a case-insensitive, unanchored regular expression.
	ModeRegex
)

// ErrInvalidPattern is returned by Start when the pattern cannot be
// compiled for the selected mode.
var ErrInvalidPattern = errors.New("invalid search pattern")

type matcher interface {
	matches(name string) bool
}

type fixedMatcher struct {
	needle string
}

func (m fixedMatcher) matches(name string) bool {
	return strings.Contains(strings.ToLower(name), m.needle)
}

type wildcardMatcher struct {
	pattern string
}

func (m wildcardMatcher) matches(name string) bool {
	ok, err := doublestar.Match(m.pattern, strings.ToLower(name))
	return err == nil && ok
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) matches(name string) bool {
	return m.re.MatchString(name)
}

// newMatcher compiles the pattern for the mode, failing fast on malformed
// input so a bad pattern never reaches the worker pool.
func newMatcher(pattern string, mode Mode) (matcher, error) {
	switch mode {
	case ModeFixed:
		return fixedMatcher{needle: strings.ToLower(pattern)}, nil
	case ModeWildcard:
		lowered := strings.ToLower(pattern)
		if !doublestar.ValidatePattern(lowered) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
		return wildcardMatcher{pattern: lowered}, nil
	case ModeRegex:
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		return regexMatcher{re: re}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidPattern, mode)
	}
}
