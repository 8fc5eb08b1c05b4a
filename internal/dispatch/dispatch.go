// Package dispatch triggers the downstream build-and-test workflow with a
// resolved rebuild plan as its inputs.
package dispatch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/0xa1bed0/restage/internal/plan"
	"github.com/0xa1bed0/restage/internal/state"
)

const (
	// DefaultAPIBase is the GitHub API root.
	DefaultAPIBase = "https://api.github.com"

	// RequestTimeout is the timeout for the dispatch request.
	RequestTimeout = 10 * time.Second

	// TokenEnv is the environment variable holding the API token.
	TokenEnv = "GITHUB_TOKEN"
)

// Client posts workflow-dispatch events for one repository.
type Client struct {
	apiBase string
	repo    string // "owner/name"
	token   string
	http    *http.Client
}

// NewClient builds a Client for the repository, reading the token from the
// environment.
func NewClient(repo string) (*Client, error) {
	return NewClientWithBase(repo, DefaultAPIBase)
}

// NewClientWithBase allows overriding the API root for testing.
func NewClientWithBase(repo, apiBase string) (*Client, error) {
	if repo == "" {
		return nil, errors.New("repository is required (owner/name)")
	}

	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%s is not set", TokenEnv)
	}

	return &Client{
		apiBase: apiBase,
		repo:    repo,
		token:   token,
		http:    &http.Client{Timeout: RequestTimeout},
	}, nil
}

// dispatchRequest is the GitHub workflow-dispatch request body. Inputs must
// all be strings, so list values are sent as JSON-array strings.
type dispatchRequest struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs"`
}

// TriggerBuild fires the workflow on ref with the plan's six fields as
// inputs. GitHub answers 204 on success.
func (c *Client) TriggerBuild(ctx context.Context, workflow, ref string, p *plan.RebuildPlan) error {
	inputs, err := p.Inputs()
	if err != nil {
		return err
	}

	body, err := json.Marshal(dispatchRequest{Ref: ref, Inputs: inputs})
	if err != nil {
		return fmt.Errorf("encode dispatch request: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/actions/workflows/%s/dispatches", c.apiBase, c.repo, workflow)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", workflow, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("dispatch %s: github API returned status %d", workflow, resp.StatusCode)
	}
	return nil
}

// PlanDigest is a stable fingerprint of a plan, recorded in the state store
// so repeated runs on an unchanged head don't re-dispatch.
func PlanDigest(p *plan.RebuildPlan) (string, error) {
	var buf bytes.Buffer
	if err := p.WriteOutputs(&buf); err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// Record stores the digest of the last dispatched plan for the branch.
func Record(ctx context.Context, kv *state.KVStore, branch, digest string) error {
	if kv == nil {
		return nil
	}
	return kv.Upsert(ctx, state.DispatchKey(branch), digest)
}

// AlreadyDispatched reports whether the digest matches the last recorded
// dispatch for the branch.
func AlreadyDispatched(ctx context.Context, kv *state.KVStore, branch, digest string) (bool, error) {
	if kv == nil {
		return false, nil
	}
	entry, found, err := kv.Get(ctx, state.DispatchKey(branch))
	if err != nil {
		return false, err
	}
	return found && entry.Value == digest, nil
}
