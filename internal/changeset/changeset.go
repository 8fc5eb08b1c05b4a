// Package changeset holds the set of file paths that changed since the
// last built revision and answers stage-membership queries against it.
package changeset

import "strings"

// ChangeSet is an unordered, deduplicated set of changed file paths.
// Stage membership is tokenized: a stage name matches only when it equals a
// whole path token, never when it is a mere substring of a longer one, so
// stage "py" does not match ".github/Dockerfiles/python.Dockerfile".
type ChangeSet struct {
	paths  []string
	tokens map[string]struct{}
}

// New builds a ChangeSet from raw paths. Empty entries are dropped and
// duplicates collapse into one.
func New(paths []string) ChangeSet {
	cs := ChangeSet{tokens: make(map[string]struct{})}

	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		cs.paths = append(cs.paths, p)

		for _, tok := range pathTokens(p) {
			cs.tokens[tok] = struct{}{}
		}
	}

	return cs
}

// Paths returns the deduplicated paths in first-seen order.
func (cs ChangeSet) Paths() []string {
	return cs.paths
}

func (cs ChangeSet) Len() int {
	return len(cs.paths)
}

func (cs ChangeSet) Empty() bool {
	return len(cs.paths) == 0
}

// ContainsStage reports whether the stage name appears as a whole token of
// any changed path.
func (cs ChangeSet) ContainsStage(name string) bool {
	if name == "" {
		return false
	}
	_, ok := cs.tokens[name]
	return ok
}

// pathTokens splits a path into maximal runs between '/' and '.'
// separators. ".github/Dockerfiles/ubuntu.Dockerfile" yields
// github, Dockerfiles, ubuntu, Dockerfile. Hyphens and underscores stay
// inside a token so names like "ABCD-HCP" survive intact.
func pathTokens(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '.'
	})
}
