// Package resolve computes which build stages must be rebuilt for a change:
// direct triggers from the change set and rebuild directives, plus
// single-level propagation into the phase-three bases.
package resolve

import (
	"fmt"

	"github.com/0xa1bed0/restage/internal/changeset"
	"github.com/0xa1bed0/restage/internal/directive"
	"github.com/0xa1bed0/restage/internal/manifests"
	"github.com/0xa1bed0/restage/internal/plan"
	"github.com/0xa1bed0/restage/internal/stages"
)

// Engine loads the build graph through a manifests.Loader and resolves
// rebuild plans against it. Each Resolve call loads the graph fresh; the
// engine holds no state between runs.
type Engine struct {
	loader *manifests.Loader
}

func NewEngine(loader *manifests.Loader) *Engine {
	return &Engine{loader: loader}
}

// Resolve loads the phase catalogs and every base requirement manifest,
// then computes the rebuild plan. Any missing manifest aborts the run with
// no partial plan.
func (e *Engine) Resolve(description string, changes changeset.ChangeSet) (*plan.RebuildPlan, error) {
	cats, err := e.loader.Catalogs()
	if err != nil {
		return nil, err
	}

	baseReqs := make(map[string][]string)
	for _, base := range cats.Bases() {
		reqs, err := e.loader.BaseRequirements(base)
		if err != nil {
			return nil, fmt.Errorf("base %s: %w", base, err)
		}
		baseReqs[base] = reqs
	}

	return Rebuilds(cats, baseReqs, description, changes), nil
}

// Rebuilds is the pure closure computation over fully loaded inputs. It is
// deterministic: identical inputs always produce an identical plan.
//
// Propagation is single-level on purpose: a base rebuilds when its own
// requirement list intersects the phase-1/phase-2 rebuild sets. Newly added
// phase-three stages do not trigger further passes and phase-three stages
// never trigger each other.
func Rebuilds(cats stages.Catalogs, baseReqs map[string][]string, description string, changes changeset.ChangeSet) *plan.RebuildPlan {
	p := &plan.RebuildPlan{
		PhaseOne:   cats.One.Stages,
		PhaseTwo:   cats.Two.Stages,
		PhaseThree: cats.Three.Stages,
	}

	// Step 1: direct triggers, per phase in catalog order.
	p.RebuildPhaseOne = directTriggers(cats.One, description, changes, directive.Requested)
	p.RebuildPhaseTwo = directTriggers(cats.Two, description, changes, directive.Requested)
	p.RebuildPhaseThree = directTriggers(cats.Three, description, changes, directive.RequestedBase)

	// Step 2: the implicit standard base gets the same direct-trigger
	// evaluation even when the phase_three manifest does not list it.
	if !cats.Three.Contains(stages.StandardBase) &&
		triggered(stages.StandardBase, description, changes, directive.RequestedBase) {
		p.RebuildPhaseThree = appendUnique(p.RebuildPhaseThree, stages.StandardBase)
	}

	// Step 3: propagate phase-1/phase-2 rebuilds into the bases.
	rebuilt := make(map[string]struct{}, len(p.RebuildPhaseOne)+len(p.RebuildPhaseTwo))
	for _, s := range p.RebuildPhaseOne {
		rebuilt[s] = struct{}{}
	}
	for _, s := range p.RebuildPhaseTwo {
		rebuilt[s] = struct{}{}
	}

	for _, base := range cats.Bases() {
		if intersects(baseReqs[base], rebuilt) {
			p.RebuildPhaseThree = appendUnique(p.RebuildPhaseThree, base)
		}
	}

	return p
}

// match is the directive form a phase recognizes: plain for phases 1-2,
// base-aliased for phase 3.
type match func(description, stage string) bool

func directTriggers(cat stages.Catalog, description string, changes changeset.ChangeSet, requested match) []string {
	var out []string
	for _, name := range cat.Stages {
		if triggered(name, description, changes, requested) {
			out = append(out, name)
		}
	}
	return dedupe(out)
}

func triggered(name, description string, changes changeset.ChangeSet, requested match) bool {
	return requested(description, name) || changes.ContainsStage(name)
}

func intersects(names []string, set map[string]struct{}) bool {
	for _, n := range names {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}

func appendUnique(list []string, name string) []string {
	for _, s := range list {
		if s == name {
			return list
		}
	}
	return append(list, name)
}

func dedupe(list []string) []string {
	if len(list) < 2 {
		return list
	}
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, s := range list {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
