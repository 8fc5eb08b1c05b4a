package stages

import (
	"reflect"
	"testing"
)

func TestManifestName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		phase Phase
		want  string
	}{
		{PhaseOne, "phase_one"},
		{PhaseTwo, "phase_two"},
		{PhaseThree, "phase_three"},
		{Phase(0), ""},
	}

	for _, tc := range cases {
		if got := tc.phase.ManifestName(); got != tc.want {
			t.Errorf("ManifestName(%d) = %q, want %q", tc.phase, got, tc.want)
		}
	}
}

func TestCatalogContains(t *testing.T) {
	t.Parallel()

	cat := Catalog{Phase: PhaseOne, Stages: []string{"ubuntu", "python"}}

	if !cat.Contains("ubuntu") {
		t.Error("Contains(ubuntu) = false, want true")
	}
	if cat.Contains("freesurfer") {
		t.Error("Contains(freesurfer) = true, want false")
	}
}

func TestBasesAppendsImplicitStandard(t *testing.T) {
	t.Parallel()

	cats := Catalogs{Three: Catalog{Phase: PhaseThree, Stages: []string{"abcd", "hcp"}}}

	got := cats.Bases()
	want := []string{"abcd", "hcp", StandardBase}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Bases() = %v, want %v", got, want)
	}
}

func TestBasesKeepsDeclaredStandardInPlace(t *testing.T) {
	t.Parallel()

	cats := Catalogs{Three: Catalog{Phase: PhaseThree, Stages: []string{"abcd", StandardBase, "hcp"}}}

	got := cats.Bases()
	want := []string{"abcd", StandardBase, "hcp"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Bases() = %v, want %v", got, want)
	}
}
