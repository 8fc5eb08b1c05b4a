package versions

import "testing"

func TestBump(t *testing.T) {
	t.Parallel()

	cases := []struct {
		version string
		level   BumpLevel
		want    string
	}{
		{"1.8.4", BumpPatch, "1.8.5"},
		{"1.8.4", BumpMinor, "1.9.0"},
		{"1.8.4", BumpMajor, "2.0.0"},
		{"v1.8.4", BumpPatch, "v1.8.5"},
		{"1.8.5-rc.1", BumpPatch, "1.8.5"},
	}

	for _, tc := range cases {
		got, err := Bump(tc.version, tc.level)
		if err != nil {
			t.Fatalf("Bump(%q, %s) returned error: %v", tc.version, tc.level, err)
		}
		if got != tc.want {
			t.Fatalf("Bump(%q, %s) = %q, want %q", tc.version, tc.level, got, tc.want)
		}
	}
}

func TestBumpInvalidVersion(t *testing.T) {
	t.Parallel()

	if _, err := Bump("not-a-version", BumpPatch); err == nil {
		t.Fatal("expected error for invalid version")
	}
}

func TestParseBumpLevel(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"patch", "minor", "major"} {
		if _, err := ParseBumpLevel(ok); err != nil {
			t.Fatalf("ParseBumpLevel(%q) returned error: %v", ok, err)
		}
	}
	if _, err := ParseBumpLevel("huge"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
