package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/0xa1bed0/restage/internal/changeset"
	"github.com/0xa1bed0/restage/internal/manifests"
	"github.com/0xa1bed0/restage/internal/stages"
)

func catalogs(one, two, three []string) stages.Catalogs {
	return stages.Catalogs{
		One:   stages.Catalog{Phase: stages.PhaseOne, Stages: one},
		Two:   stages.Catalog{Phase: stages.PhaseTwo, Stages: two},
		Three: stages.Catalog{Phase: stages.PhaseThree, Stages: three},
	}
}

// noReqs returns an empty requirement list for every base in the catalogs.
func noReqs(cats stages.Catalogs) map[string][]string {
	reqs := make(map[string][]string)
	for _, base := range cats.Bases() {
		reqs[base] = nil
	}
	return reqs
}

func TestChangedDockerfileTriggersStage(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu", "python"}, nil, nil)
	changes := changeset.New([]string{".github/Dockerfiles/ubuntu.Dockerfile"})

	p := Rebuilds(cats, noReqs(cats), "", changes)

	if !reflect.DeepEqual(p.RebuildPhaseOne, []string{"ubuntu"}) {
		t.Fatalf("RebuildPhaseOne = %v, want [ubuntu]", p.RebuildPhaseOne)
	}
	if len(p.RebuildPhaseTwo) != 0 || len(p.RebuildPhaseThree) != 0 {
		t.Fatalf("unexpected rebuilds: phase2=%v phase3=%v", p.RebuildPhaseTwo, p.RebuildPhaseThree)
	}
}

func TestBasePropagationFromPhaseOne(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu", "python"}, nil, []string{"standard"})
	reqs := map[string][]string{"standard": {"ubuntu"}}
	changes := changeset.New([]string{".github/Dockerfiles/ubuntu.Dockerfile"})

	p := Rebuilds(cats, reqs, "", changes)

	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"standard"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [standard] via propagation", p.RebuildPhaseThree)
	}
}

func TestDirectiveTriggersOnlyItsPhase(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu"}, []string{"afni", "freesurfer"}, []string{"standard"})
	reqs := map[string][]string{"standard": {"ubuntu"}}

	p := Rebuilds(cats, reqs, "fix bug [rebuild freesurfer]", changeset.New(nil))

	if len(p.RebuildPhaseOne) != 0 {
		t.Fatalf("RebuildPhaseOne = %v, want empty", p.RebuildPhaseOne)
	}
	if !reflect.DeepEqual(p.RebuildPhaseTwo, []string{"freesurfer"}) {
		t.Fatalf("RebuildPhaseTwo = %v, want [freesurfer]", p.RebuildPhaseTwo)
	}
	if len(p.RebuildPhaseThree) != 0 {
		t.Fatalf("RebuildPhaseThree = %v, want empty", p.RebuildPhaseThree)
	}
}

func TestEmptyChangeProducesEmptyPlan(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu", "python"}, []string{"freesurfer"}, []string{"standard", "lite"})

	p := Rebuilds(cats, noReqs(cats), "", changeset.New(nil))

	if !p.Empty() {
		t.Fatalf("plan should be empty: %+v", p)
	}
	if !reflect.DeepEqual(p.PhaseOne, []string{"ubuntu", "python"}) ||
		!reflect.DeepEqual(p.PhaseTwo, []string{"freesurfer"}) ||
		!reflect.DeepEqual(p.PhaseThree, []string{"standard", "lite"}) {
		t.Fatalf("catalogs must pass through unchanged: %+v", p)
	}
}

func TestBaseDirectiveAlias(t *testing.T) {
	t.Parallel()

	cats := catalogs(nil, nil, []string{"standard", "lite"})

	p := Rebuilds(cats, noReqs(cats), "[rebuild base-lite]", changeset.New(nil))

	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"lite"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [lite]", p.RebuildPhaseThree)
	}
}

func TestImplicitStandardBaseDirectTrigger(t *testing.T) {
	t.Parallel()

	// standard is not declared in phase_three but still honors directives.
	cats := catalogs(nil, nil, []string{"lite"})
	reqs := map[string][]string{"lite": nil, "standard": nil}

	p := Rebuilds(cats, reqs, "[rebuild base-standard]", changeset.New(nil))

	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"standard"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [standard]", p.RebuildPhaseThree)
	}
}

func TestImplicitStandardBasePropagation(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu"}, nil, []string{"lite"})
	reqs := map[string][]string{"lite": nil, "standard": {"ubuntu"}}
	changes := changeset.New([]string{".github/Dockerfiles/ubuntu.Dockerfile"})

	p := Rebuilds(cats, reqs, "", changes)

	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"standard"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [standard]", p.RebuildPhaseThree)
	}
}

func TestPropagationIsSingleLevel(t *testing.T) {
	t.Parallel()

	// lite depends on standard (a phase-three stage). standard rebuilds via
	// a direct trigger, but phase-3 -> phase-3 edges do not propagate and no
	// second pass runs.
	cats := catalogs([]string{"ubuntu"}, nil, []string{"standard", "lite"})
	reqs := map[string][]string{
		"standard": {"ubuntu"},
		"lite":     {"standard"},
	}
	changes := changeset.New([]string{".github/Dockerfiles/ubuntu.Dockerfile"})

	p := Rebuilds(cats, reqs, "", changes)

	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"standard"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [standard] only (single-level closure)", p.RebuildPhaseThree)
	}
}

func TestNoDuplicateAppends(t *testing.T) {
	t.Parallel()

	// standard triggers directly AND via propagation; it must appear once.
	cats := catalogs([]string{"ubuntu"}, nil, []string{"standard"})
	reqs := map[string][]string{"standard": {"ubuntu"}}
	changes := changeset.New([]string{
		".github/Dockerfiles/ubuntu.Dockerfile",
		".github/Dockerfiles/standard.Dockerfile",
	})

	p := Rebuilds(cats, reqs, "", changes)

	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"standard"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [standard] exactly once", p.RebuildPhaseThree)
	}
}

func TestCatalogOrderPreserved(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu", "python", "alpine"}, nil, nil)
	changes := changeset.New([]string{
		".github/Dockerfiles/alpine.Dockerfile",
		".github/Dockerfiles/ubuntu.Dockerfile",
	})

	p := Rebuilds(cats, noReqs(cats), "", changes)

	// Catalog order, not change-set order.
	if !reflect.DeepEqual(p.RebuildPhaseOne, []string{"ubuntu", "alpine"}) {
		t.Fatalf("RebuildPhaseOne = %v, want [ubuntu alpine]", p.RebuildPhaseOne)
	}
}

func TestSubsetAndDeterminism(t *testing.T) {
	t.Parallel()

	cats := catalogs([]string{"ubuntu", "python"}, []string{"afni", "freesurfer"}, []string{"standard", "lite"})
	reqs := map[string][]string{
		"standard": {"ubuntu", "afni"},
		"lite":     {"python"},
	}
	changes := changeset.New([]string{
		".github/Dockerfiles/python.Dockerfile",
		".github/Dockerfiles/afni.Dockerfile",
	})
	desc := "[rebuild ubuntu]"

	first := Rebuilds(cats, reqs, desc, changes)
	second := Rebuilds(cats, reqs, desc, changes)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolution is not deterministic: %+v vs %+v", first, second)
	}

	for _, ph := range stages.Phases {
		all := make(map[string]struct{})
		for _, s := range first.AllStages(ph) {
			all[s] = struct{}{}
		}
		seen := make(map[string]struct{})
		for _, s := range first.ToRebuild(ph) {
			if _, ok := all[s]; !ok {
				t.Fatalf("phase %v: %q in ToRebuild but not in catalog", ph, s)
			}
			if _, dup := seen[s]; dup {
				t.Fatalf("phase %v: %q duplicated in ToRebuild", ph, s)
			}
			seen[s] = struct{}{}
		}
	}
}

func writeManifests(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write manifest %s: %v", name, err)
		}
	}
	return dir
}

func TestEngineResolve(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"phase_one":   "ubuntu\npython\n",
		"phase_two":   "freesurfer\n",
		"phase_three": "standard\n",
		"standard":    "ubuntu\n",
	})

	loader, err := manifests.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	engine := NewEngine(loader)
	changes := changeset.New([]string{".github/Dockerfiles/ubuntu.Dockerfile"})

	p, err := engine.Resolve("", changes)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if !reflect.DeepEqual(p.RebuildPhaseOne, []string{"ubuntu"}) {
		t.Fatalf("RebuildPhaseOne = %v, want [ubuntu]", p.RebuildPhaseOne)
	}
	if !reflect.DeepEqual(p.RebuildPhaseThree, []string{"standard"}) {
		t.Fatalf("RebuildPhaseThree = %v, want [standard]", p.RebuildPhaseThree)
	}
}

func TestEngineResolveMissingBaseManifestIsFatal(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"phase_one":   "ubuntu\n",
		"phase_two":   "",
		"phase_three": "standard\n",
		// no "standard" requirement manifest
	})

	loader, err := manifests.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	_, err = NewEngine(loader).Resolve("", changeset.New(nil))
	if !errors.Is(err, manifests.ErrMissingManifest) {
		t.Fatalf("Resolve error = %v, want ErrMissingManifest", err)
	}
}
