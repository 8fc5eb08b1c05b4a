// Package versionbump detects the project version string in tracked text
// files and rewrites every occurrence with the bumped value.
package versionbump

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/0xa1bed0/restage/internal/fsops"
	"github.com/0xa1bed0/restage/internal/versions"
)

// versionRegex matches semantic version strings, optionally v-prefixed.
var versionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// Bumper edits version strings across a fixed set of files.
type Bumper struct {
	ops fsops.Ops
}

func NewBumper() *Bumper {
	return &Bumper{ops: fsops.DefaultOps()}
}

// NewBumperWithOps allows injecting filesystem dependencies for testing.
func NewBumperWithOps(ops fsops.Ops) *Bumper {
	return &Bumper{ops: ops}
}

// Result describes one completed bump.
type Result struct {
	Old     string
	New     string
	Touched []string // files that actually changed
}

// DetectVersion returns the numerically largest version string found in the
// file. Version files often carry older versions too (changelog lines,
// pinned dependencies), and the current one is the highest.
func (b *Bumper) DetectVersion(path string) (string, error) {
	data, err := b.ops.OS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	matches := versionRegex.FindAllString(string(data), -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("no version string found in %s", path)
	}

	// Compare on the numeric core; the winner keeps its original form
	// (v-prefix, pre-release suffix) so rewrites match the file verbatim.
	cores := make([]string, len(matches))
	for i, m := range matches {
		cores[i] = numericCore(m)
	}
	best, err := versions.MaxVersion(cores)
	if err != nil {
		return "", fmt.Errorf("version strings in %s: %w", path, err)
	}
	for i, c := range cores {
		if c == best {
			return matches[i], nil
		}
	}
	return "", fmt.Errorf("no version string found in %s", path)
}

// numericCore strips the optional v-prefix and pre-release suffix, leaving
// the dot-separated digits MaxVersion understands.
func numericCore(v string) string {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	return v
}

// Bump reads the current version from the first file, increments the given
// segment, and rewrites every occurrence of the old version in all files.
// Files that do not contain the old version are left untouched.
func (b *Bumper) Bump(files []string, level versions.BumpLevel) (*Result, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to bump")
	}

	current, err := b.DetectVersion(files[0])
	if err != nil {
		return nil, err
	}

	next, err := versions.Bump(current, level)
	if err != nil {
		return nil, err
	}

	res := &Result{Old: current, New: next}
	for _, path := range files {
		changed, err := b.rewrite(path, current, next)
		if err != nil {
			return nil, err
		}
		if changed {
			res.Touched = append(res.Touched, path)
		}
	}

	return res, nil
}

func (b *Bumper) rewrite(path, old, next string) (bool, error) {
	data, err := b.ops.OS.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	content := string(data)
	if !strings.Contains(content, old) {
		return false, nil
	}

	updated := strings.ReplaceAll(content, old, next)

	fi, err := b.ops.OS.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := b.ops.OS.WriteFile(path, []byte(updated), fi.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
