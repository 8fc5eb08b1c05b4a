package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

// newTestRepo creates a git repository with two commits: the first adds
// base.txt, the second adds watched/ubuntu.Dockerfile.
func newTestRepo(t *testing.T) *Git {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git := New(dir)
	ctx := context.Background()

	mustRun := func(args ...string) {
		t.Helper()
		if _, err := git.run(ctx, args...); err != nil {
			t.Fatalf("git %v failed: %v", args, err)
		}
	}

	mustRun("init", "-b", "main")
	mustRun("config", "user.email", "test@example.com")
	mustRun("config", "user.name", "test")

	writeFile(t, filepath.Join(dir, "base.txt"), "v1.0.0\n")
	mustRun("add", ".")
	mustRun("commit", "-m", "initial commit")

	writeFile(t, filepath.Join(dir, "watched", "ubuntu.Dockerfile"), "FROM ubuntu:24.04\n")
	mustRun("add", ".")
	mustRun("commit", "-m", "add ubuntu stage [rebuild python]")

	return git
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHeadQueries(t *testing.T) {
	t.Parallel()

	git := newTestRepo(t)
	ctx := context.Background()

	sha, err := git.HeadSHA(ctx)
	if err != nil {
		t.Fatalf("HeadSHA failed: %v", err)
	}
	if len(sha) != 40 {
		t.Fatalf("HeadSHA = %q, want a 40-char hash", sha)
	}

	msg, err := git.HeadMessage(ctx)
	if err != nil {
		t.Fatalf("HeadMessage failed: %v", err)
	}
	if msg != "add ubuntu stage [rebuild python]" {
		t.Fatalf("HeadMessage = %q", msg)
	}

	branch, err := git.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "main" {
		t.Fatalf("CurrentBranch = %q, want main", branch)
	}
}

func TestDiffNamesRestrictedToWatched(t *testing.T) {
	t.Parallel()

	git := newTestRepo(t)
	ctx := context.Background()

	got, err := git.DiffNames(ctx, "HEAD~1", "watched")
	if err != nil {
		t.Fatalf("DiffNames failed: %v", err)
	}
	want := []string{"watched/ubuntu.Dockerfile"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DiffNames = %v, want %v", got, want)
	}

	// Nothing changed under a tree the diff doesn't touch.
	got, err = git.DiffNames(ctx, "HEAD~1", "elsewhere")
	if err != nil {
		t.Fatalf("DiffNames failed: %v", err)
	}
	if got != nil {
		t.Fatalf("DiffNames = %v, want nil", got)
	}
}

func TestCommitAddsAndCommits(t *testing.T) {
	t.Parallel()

	git := newTestRepo(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(git.repo, "base.txt"), "v1.1.0\n")

	if err := git.Commit(ctx, "Bump version to v1.1.0", "base.txt"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	msg, err := git.HeadMessage(ctx)
	if err != nil {
		t.Fatalf("HeadMessage failed: %v", err)
	}
	if msg != "Bump version to v1.1.0" {
		t.Fatalf("HeadMessage = %q", msg)
	}
}

func TestRunWrapsStderr(t *testing.T) {
	t.Parallel()

	git := newTestRepo(t)

	_, err := git.run(context.Background(), "rev-parse", "not-a-ref")
	if err == nil {
		t.Fatal("expected error for unknown ref")
	}
}
