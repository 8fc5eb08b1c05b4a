package versionbump

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/0xa1bed0/restage/internal/versions"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDetectVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "version", "release: 1.8.4\n")

	got, err := NewBumper().DetectVersion(path)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if got != "1.8.4" {
		t.Fatalf("DetectVersion = %q, want %q", got, "1.8.4")
	}
}

func TestDetectVersionPicksLargest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "CHANGELOG.md",
		"## 1.9.0\ncurrent release\n\n## 1.8.4\nolder notes\n\n## 1.10.0-rc1\nupcoming\n")

	got, err := NewBumper().DetectVersion(path)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if got != "1.10.0-rc1" {
		t.Fatalf("DetectVersion = %q, want the numerically largest %q", got, "1.10.0-rc1")
	}
}

func TestDetectVersionKeepsPrefixForm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "version", "previous v1.2.3, current v2.0.0\n")

	got, err := NewBumper().DetectVersion(path)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if got != "v2.0.0" {
		t.Fatalf("DetectVersion = %q, want %q with its v-prefix intact", got, "v2.0.0")
	}
}

func TestDetectVersionMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "no versions here\n")

	if _, err := NewBumper().DetectVersion(path); err == nil {
		t.Fatal("expected error when no version string present")
	}
}

func TestBumpRewritesAllOccurrences(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	versionFile := writeFile(t, dir, "version", "1.8.4\n")
	dockerfile := writeFile(t, dir, "standard.Dockerfile",
		"FROM ghcr.io/org/app:1.8.4\nLABEL version=1.8.4\n")
	unrelated := writeFile(t, dir, "README.md", "nothing versioned\n")

	res, err := NewBumper().Bump([]string{versionFile, dockerfile, unrelated}, versions.BumpMinor)
	if err != nil {
		t.Fatalf("Bump failed: %v", err)
	}

	if res.Old != "1.8.4" || res.New != "1.9.0" {
		t.Fatalf("Bump result = %s -> %s, want 1.8.4 -> 1.9.0", res.Old, res.New)
	}
	if !reflect.DeepEqual(res.Touched, []string{versionFile, dockerfile}) {
		t.Fatalf("Touched = %v, want version file and dockerfile only", res.Touched)
	}

	data, err := os.ReadFile(dockerfile)
	if err != nil {
		t.Fatalf("read dockerfile: %v", err)
	}
	if strings.Contains(string(data), "1.8.4") {
		t.Fatalf("old version still present:\n%s", data)
	}
	if strings.Count(string(data), "1.9.0") != 2 {
		t.Fatalf("expected two rewritten occurrences:\n%s", data)
	}
}

func TestBumpNoFiles(t *testing.T) {
	t.Parallel()

	if _, err := NewBumper().Bump(nil, versions.BumpPatch); err == nil {
		t.Fatal("expected error for empty file list")
	}
}
