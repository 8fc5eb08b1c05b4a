package changeset

import (
	"reflect"
	"testing"
)

func TestNewDeduplicatesAndTrims(t *testing.T) {
	t.Parallel()

	cs := New([]string{
		".github/Dockerfiles/ubuntu.Dockerfile",
		"  .github/Dockerfiles/ubuntu.Dockerfile",
		"",
		"version",
	})

	want := []string{".github/Dockerfiles/ubuntu.Dockerfile", "version"}
	if !reflect.DeepEqual(cs.Paths(), want) {
		t.Fatalf("Paths = %v, want %v", cs.Paths(), want)
	}
	if cs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cs.Len())
	}
}

func TestContainsStageTokenized(t *testing.T) {
	t.Parallel()

	cs := New([]string{
		".github/Dockerfiles/ubuntu.Dockerfile",
		".github/Dockerfiles/ABCD-HCP.Dockerfile",
		".github/Dockerfiles/python.Dockerfile",
	})

	cases := []struct {
		stage string
		want  bool
	}{
		{"ubuntu", true},
		{"python", true},
		{"ABCD-HCP", true},
		// substring of a longer token must not match
		{"py", false},
		{"ubun", false},
		{"HCP", false},
		{"freesurfer", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := cs.ContainsStage(tc.stage); got != tc.want {
			t.Fatalf("ContainsStage(%q) = %v, want %v", tc.stage, got, tc.want)
		}
	}
}

func TestEmptyChangeSet(t *testing.T) {
	t.Parallel()

	cs := New(nil)
	if !cs.Empty() {
		t.Fatal("ChangeSet from nil paths should be empty")
	}
	if cs.ContainsStage("ubuntu") {
		t.Fatal("empty ChangeSet must not contain any stage")
	}
}
