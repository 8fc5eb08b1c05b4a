// Tests in this file exercise version comparison helpers.
package versions

import "testing"

func TestMaxVersion(t *testing.T) {
	t.Parallel()

	input := []string{"1.2.3", "1.10.0", "2.0.1", "2.0.0", "0.9.9"}
	got, err := MaxVersion(input)
	if err != nil {
		t.Fatalf("MaxVersion returned error: %v", err)
	}
	if got != "2.0.1" {
		t.Fatalf("MaxVersion = %q, want %q", got, "2.0.1")
	}
}

func TestMaxVersionManySegments(t *testing.T) {
	t.Parallel()

	input := []string{"2.5.6", "2.5.6.1", "0.0.9"}
	got, err := MaxVersion(input)
	if err != nil {
		t.Fatalf("MaxVersion returned error: %v", err)
	}
	if got != "2.5.6.1" {
		t.Fatalf("MaxVersion = %q, want %q", got, "2.5.6.1")
	}
}

func TestMaxVersionInvalid(t *testing.T) {
	t.Parallel()

	if _, err := MaxVersion([]string{"1.2.beta"}); err == nil {
		t.Fatal("expected error for invalid version token")
	}
}

func TestMaxVersionEmpty(t *testing.T) {
	t.Parallel()

	if _, err := MaxVersion(nil); err == nil {
		t.Fatal("expected error when no versions provided")
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"1.10", "1.2", 1},
		{"1.2", "1.2.0", 0},
		{"0.9", "1.0", -1},
		{"2.0.0", "2.0.0", 0},
	}
	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
