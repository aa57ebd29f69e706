// Package extract provides pattern-based text extraction for scraping
// adapters: apply a compiled pattern to a text, pick capture groups out of
// the result. Non-matching input yields absent values, never an error.
package extract

import "regexp"

// Pattern wraps a compiled regular expression used for group capture.
// Patterns spanning script blocks should be compiled with the `(?s)` flag so
// `.` matches newlines.
type Pattern struct {
	re *regexp.Regexp
}

// From builds a Pattern from an already compiled expression.
func From(re *regexp.Regexp) Pattern {
	return Pattern{re: re}
}

// MustCompile compiles expr and panics if it is invalid. Adapters declare
// their patterns at package level, so a bad expression fails at startup
// rather than during an update pass.
func MustCompile(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

// On applies the pattern to text. The returned Match is valid even when the
// pattern did not match; its accessors then report absence.
func (p Pattern) On(text string) Match {
	return Match{groups: p.re.FindStringSubmatch(text)}
}

// Match holds the capture groups of one pattern application.
type Match struct {
	groups []string
}

// Group returns the i-th capture group (group 0 is the whole match).
// The second return value is false when the pattern did not match or the
// group does not exist.
func (m Match) Group(i int) (string, bool) {
	if i < 0 || i >= len(m.groups) {
		return "", false
	}
	return m.groups[i], true
}

// Groups returns all capture groups in order, excluding the whole-match
// group. It returns false when the pattern did not match.
func (m Match) Groups() ([]string, bool) {
	if len(m.groups) < 2 {
		return nil, false
	}
	return m.groups[1:], true
}
