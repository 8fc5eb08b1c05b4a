// Package directive extracts explicit rebuild requests from a free-text
// change description, usually the head commit message.
package directive

import "strings"

// Directive tokens are literal bracketed forms embedded anywhere in the
// description, e.g. "fix bug [rebuild freesurfer]". Matching is exact
// substring containment of the whole token; there is no word-boundary
// anchoring beyond the brackets themselves. This mirrors how the tokens
// have always been written in commit messages, so it must not be tightened
// into a regex.
const (
	tokenPrefix     = "[rebuild "
	baseTokenPrefix = "[rebuild base-"
	tokenSuffix     = "]"
)

// Requested reports whether description contains "[rebuild <stage>]".
// Absence of a match is not an error, it simply yields no directive.
func Requested(description, stage string) bool {
	if stage == "" {
		return false
	}
	return strings.Contains(description, tokenPrefix+stage+tokenSuffix)
}

// RequestedBase reports whether description requests a phase-three base
// rebuild: either the plain "[rebuild <stage>]" form or the alias
// "[rebuild base-<stage>]".
func RequestedBase(description, stage string) bool {
	if stage == "" {
		return false
	}
	return Requested(description, stage) ||
		strings.Contains(description, baseTokenPrefix+stage+tokenSuffix)
}
