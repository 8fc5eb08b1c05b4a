package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xa1bed0/restage/internal/plan"
)

func TestTriggerBuild(t *testing.T) {
	t.Setenv(TokenEnv, "test-token")

	var gotPath, gotAuth string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewClientWithBase("org/app", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithBase failed: %v", err)
	}

	p := &plan.RebuildPlan{
		PhaseOne:        []string{"ubuntu"},
		RebuildPhaseOne: []string{"ubuntu"},
	}

	if err := client.TriggerBuild(context.Background(), "build.yml", "main", p); err != nil {
		t.Fatalf("TriggerBuild failed: %v", err)
	}

	if gotPath != "/repos/org/app/actions/workflows/build.yml/dispatches" {
		t.Fatalf("dispatch path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("authorization header = %q", gotAuth)
	}

	var req dispatchRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if req.Ref != "main" {
		t.Fatalf("ref = %q, want main", req.Ref)
	}
	if req.Inputs["rebuild_phase_one"] != `["ubuntu"]` {
		t.Fatalf("rebuild_phase_one input = %q", req.Inputs["rebuild_phase_one"])
	}
	if req.Inputs["rebuild_phase_three"] != `[]` {
		t.Fatalf("rebuild_phase_three input = %q, want empty array", req.Inputs["rebuild_phase_three"])
	}
}

func TestTriggerBuildNon204(t *testing.T) {
	t.Setenv(TokenEnv, "test-token")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client, err := NewClientWithBase("org/app", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithBase failed: %v", err)
	}

	if err := client.TriggerBuild(context.Background(), "build.yml", "main", &plan.RebuildPlan{}); err == nil {
		t.Fatal("expected error for non-204 response")
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv(TokenEnv, "")

	if _, err := NewClient("org/app"); err == nil {
		t.Fatal("expected error when token env is empty")
	}
}

func TestPlanDigestStable(t *testing.T) {
	t.Parallel()

	p := &plan.RebuildPlan{PhaseOne: []string{"ubuntu"}, RebuildPhaseOne: []string{"ubuntu"}}

	a, err := PlanDigest(p)
	if err != nil {
		t.Fatalf("PlanDigest failed: %v", err)
	}
	b, err := PlanDigest(p)
	if err != nil {
		t.Fatalf("PlanDigest failed: %v", err)
	}
	if a != b {
		t.Fatal("PlanDigest must be stable for identical plans")
	}

	other, err := PlanDigest(&plan.RebuildPlan{PhaseOne: []string{"ubuntu"}})
	if err != nil {
		t.Fatalf("PlanDigest failed: %v", err)
	}
	if a == other {
		t.Fatal("PlanDigest must differ for different plans")
	}
}
