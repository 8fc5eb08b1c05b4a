package directive

import "testing"

func TestRequested(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		description string
		stage       string
		want        bool
	}{
		{"plain token", "fix bug [rebuild freesurfer]", "freesurfer", true},
		{"token mid-sentence", "update deps [rebuild ubuntu] and docs", "ubuntu", true},
		{"no token", "fix bug", "freesurfer", false},
		{"different stage", "[rebuild ubuntu]", "python", false},
		{"unclosed bracket ignored", "[rebuild ubuntu", "ubuntu", false},
		{"missing brackets ignored", "rebuild ubuntu", "ubuntu", false},
		{"empty stage", "[rebuild ]", "", false},
		{"empty description", "", "ubuntu", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Requested(tc.description, tc.stage); got != tc.want {
				t.Fatalf("Requested(%q, %q) = %v, want %v", tc.description, tc.stage, got, tc.want)
			}
		})
	}
}

func TestRequestedBase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		description string
		stage       string
		want        bool
	}{
		{"base alias", "[rebuild base-standard]", "standard", true},
		{"plain form also accepted", "[rebuild standard]", "standard", true},
		{"wrong base", "[rebuild base-lite]", "standard", false},
		{"base-prefixed name matches plain form", "[rebuild base-standard]", "base-standard", true},
		{"no token", "routine update", "standard", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := RequestedBase(tc.description, tc.stage); got != tc.want {
				t.Fatalf("RequestedBase(%q, %q) = %v, want %v", tc.description, tc.stage, got, tc.want)
			}
		})
	}
}
