// Package manifests reads the flat stage manifests that declare the build
// graph: one catalog per phase plus one requirement list per base stage.
package manifests

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/0xa1bed0/restage/internal/fsops"
	"github.com/0xa1bed0/restage/internal/stages"
)

// ErrMissingManifest is the sentinel you can check with errors.Is. Any
// unreadable phase or base manifest aborts the whole resolution: an
// incomplete dependency graph cannot be trusted to under-approximate what
// must rebuild.
var ErrMissingManifest = errors.New("missing manifest")

// Loader reads stage manifests from a single directory. Manifests are
// newline-delimited stage names; blank lines and '#' comments are skipped,
// everything else is taken verbatim in declaration order.
type Loader struct {
	dir string
	ops fsops.Ops
}

// NewLoader builds a Loader rooted at dir using the default OS implementations.
func NewLoader(dir string) (*Loader, error) {
	return NewLoaderWithOps(dir, fsops.DefaultOps())
}

// NewLoaderWithOps is the internal constructor that allows injecting
// filesystem dependencies for testing.
func NewLoaderWithOps(dir string, ops fsops.Ops) (*Loader, error) {
	if dir == "" {
		return nil, errors.New("manifest directory should not be empty")
	}
	if ops.Path == nil || ops.OS == nil {
		return nil, errors.New("loader dependencies cannot be nil")
	}

	abs, err := ops.Path.Abs(dir)
	if err != nil {
		return nil, err
	}

	fi, err := ops.OS.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest directory %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("manifest path %s is not a directory", abs)
	}

	return &Loader{dir: abs, ops: ops}, nil
}

// PhaseCatalog returns the ordered stage list declared for the phase.
func (l *Loader) PhaseCatalog(p stages.Phase) (stages.Catalog, error) {
	name := p.ManifestName()
	if name == "" {
		return stages.Catalog{}, fmt.Errorf("unknown phase %d", int(p))
	}

	names, err := l.read(name)
	if err != nil {
		return stages.Catalog{}, err
	}
	return stages.Catalog{Phase: p, Stages: names}, nil
}

// Catalogs loads all three phase catalogs.
func (l *Loader) Catalogs() (stages.Catalogs, error) {
	var out stages.Catalogs
	var err error

	if out.One, err = l.PhaseCatalog(stages.PhaseOne); err != nil {
		return stages.Catalogs{}, err
	}
	if out.Two, err = l.PhaseCatalog(stages.PhaseTwo); err != nil {
		return stages.Catalogs{}, err
	}
	if out.Three, err = l.PhaseCatalog(stages.PhaseThree); err != nil {
		return stages.Catalogs{}, err
	}
	return out, nil
}

// BaseRequirements returns the stage names a base depends on. Any phase-1
// or phase-2 rebuild of a listed stage forces the base to rebuild.
func (l *Loader) BaseRequirements(base string) ([]string, error) {
	if base == "" {
		return nil, errors.New("base name should not be empty")
	}
	return l.read(base)
}

func (l *Loader) read(name string) ([]string, error) {
	path := l.ops.Path.Join(l.dir, name)

	data, err := l.ops.OS.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingManifest, name)
		}
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}
