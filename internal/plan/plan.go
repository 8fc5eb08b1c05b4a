// Package plan holds the resolver's output: which stages each phase
// declares and which of them must be rebuilt for the current change.
package plan

import "github.com/0xa1bed0/restage/internal/stages"

// RebuildPlan is the result of one resolution run. All six lists preserve
// insertion order: catalogs keep manifest order, rebuild lists keep the
// order stages were discovered as needing rebuild. Rebuild lists never
// contain duplicates and are always subsets of their catalogs.
type RebuildPlan struct {
	PhaseOne   []string
	PhaseTwo   []string
	PhaseThree []string

	RebuildPhaseOne   []string
	RebuildPhaseTwo   []string
	RebuildPhaseThree []string
}

// AllStages returns the full declared catalog for the phase.
func (p *RebuildPlan) AllStages(ph stages.Phase) []string {
	switch ph {
	case stages.PhaseOne:
		return p.PhaseOne
	case stages.PhaseTwo:
		return p.PhaseTwo
	case stages.PhaseThree:
		return p.PhaseThree
	}
	return nil
}

// ToRebuild returns the rebuild subset for the phase.
func (p *RebuildPlan) ToRebuild(ph stages.Phase) []string {
	switch ph {
	case stages.PhaseOne:
		return p.RebuildPhaseOne
	case stages.PhaseTwo:
		return p.RebuildPhaseTwo
	case stages.PhaseThree:
		return p.RebuildPhaseThree
	}
	return nil
}

// Empty reports whether nothing needs rebuilding in any phase.
func (p *RebuildPlan) Empty() bool {
	return len(p.RebuildPhaseOne) == 0 &&
		len(p.RebuildPhaseTwo) == 0 &&
		len(p.RebuildPhaseThree) == 0
}
