// Package stages declares the build-stage identifiers shared by the
// resolver, the manifests loader and the image builder.
package stages

// Phase is one of the three ordered groupings of build stages. Phase one
// and two hold the OS and tool images; phase three holds the base images
// assembled on top of them.
type Phase int

const (
	PhaseOne Phase = iota + 1
	PhaseTwo
	PhaseThree
)

// Phases lists all phases in build order.
var Phases = []Phase{PhaseOne, PhaseTwo, PhaseThree}

// ManifestName is the flat-file manifest a phase catalog is read from.
func (p Phase) ManifestName() string {
	switch p {
	case PhaseOne:
		return "phase_one"
	case PhaseTwo:
		return "phase_two"
	case PhaseThree:
		return "phase_three"
	}
	return ""
}

func (p Phase) String() string {
	return p.ManifestName()
}

// StandardBase is the implicit base stage. It participates in phase-three
// rebuild propagation even when the phase_three manifest does not list it.
const StandardBase = "standard"

// Catalog is the declared stage list of one phase, in manifest order.
// Duplicate names are preserved verbatim; membership tests deduplicate by
// identity.
type Catalog struct {
	Phase  Phase
	Stages []string
}

// Contains reports whether name is declared in the catalog.
func (c Catalog) Contains(name string) bool {
	for _, s := range c.Stages {
		if s == name {
			return true
		}
	}
	return false
}

// Catalogs groups the three phase catalogs of one resolution run. It is
// loaded once per run and never mutated afterwards.
type Catalogs struct {
	One   Catalog
	Two   Catalog
	Three Catalog
}

// ByPhase returns the catalog declared for p.
func (c Catalogs) ByPhase(p Phase) Catalog {
	switch p {
	case PhaseOne:
		return c.One
	case PhaseTwo:
		return c.Two
	case PhaseThree:
		return c.Three
	}
	return Catalog{Phase: p}
}

// Bases returns the phase-three stages plus the implicit standard base,
// preserving catalog order. The standard base is appended last when the
// catalog does not already declare it.
func (c Catalogs) Bases() []string {
	bases := make([]string, 0, len(c.Three.Stages)+1)
	bases = append(bases, c.Three.Stages...)
	if !c.Three.Contains(StandardBase) {
		bases = append(bases, StandardBase)
	}
	return bases
}
