package versions

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// BumpLevel selects which semver segment Bump increments.
type BumpLevel string

const (
	BumpPatch BumpLevel = "patch"
	BumpMinor BumpLevel = "minor"
	BumpMajor BumpLevel = "major"
)

// ParseBumpLevel validates a user-supplied level string.
func ParseBumpLevel(s string) (BumpLevel, error) {
	switch BumpLevel(s) {
	case BumpPatch, BumpMinor, BumpMajor:
		return BumpLevel(s), nil
	}
	return "", fmt.Errorf("unknown bump level %q (want patch, minor or major)", s)
}

// Bump increments the given segment of a semver-like version string.
// A leading "v" is preserved. Pre-release and build metadata are dropped by
// the increment, matching semver semantics.
func Bump(version string, level BumpLevel) (string, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}

	var next semver.Version
	switch level {
	case BumpMajor:
		next = v.IncMajor()
	case BumpMinor:
		next = v.IncMinor()
	case BumpPatch:
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("unknown bump level %q", level)
	}

	out := next.String()
	if len(version) > 0 && version[0] == 'v' {
		out = "v" + out
	}
	return out, nil
}
