// Package gitops shells out to git for the handful of repository queries
// and mutations the pipeline needs. The resolver itself never touches git;
// it only consumes what this package fetched.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git runs git commands against a single repository checkout.
type Git struct {
	repo string
}

func New(repo string) *Git {
	return &Git{repo: repo}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", g.repo}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// HeadSHA returns the full commit hash of HEAD.
func (g *Git) HeadSHA(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "HEAD")
}

// HeadMessage returns the full commit message of HEAD. This is the change
// description scanned for rebuild directives.
func (g *Git) HeadMessage(ctx context.Context) (string, error) {
	return g.run(ctx, "log", "-1", "--format=%B")
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// DiffNames returns the paths that differ between since and HEAD,
// restricted to the watched tree when watched is non-empty.
func (g *Git) DiffNames(ctx context.Context, since, watched string) ([]string, error) {
	args := []string{"diff", "--name-only", since, "HEAD"}
	if watched != "" {
		args = append(args, "--", watched)
	}

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Commit stages the given paths and commits them with the message.
func (g *Git) Commit(ctx context.Context, message string, paths ...string) error {
	if len(paths) > 0 {
		if _, err := g.run(ctx, append([]string{"add", "--"}, paths...)...); err != nil {
			return err
		}
	}
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}

// Push pushes the current branch to origin.
func (g *Git) Push(ctx context.Context) error {
	_, err := g.run(ctx, "push", "origin", "HEAD")
	return err
}
