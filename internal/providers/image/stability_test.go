package image

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studio/internal/domain"
)

func TestStabilityGenerateSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody stabilityRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"artifacts": []map[string]string{{"base64": "aW1hZ2U="}},
		})
	}))
	defer server.Close()

	g := NewStabilityGenerator(StabilityOptions{APIKey: "key-1", APIHost: server.URL})
	ref, err := g.Generate(context.Background(), "a prompt")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if ref.URL != "data:image/png;base64,aW1hZ2U=" {
		t.Fatalf("Generate() url = %q", ref.URL)
	}
	if ref.Provider != "stability" {
		t.Fatalf("Generate() provider = %q", ref.Provider)
	}
	if !strings.HasSuffix(gotPath, "/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image") {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotAuth != "Bearer key-1" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if len(gotBody.TextPrompts) != 1 || gotBody.TextPrompts[0].Text != "a prompt" {
		t.Fatalf("request prompts = %+v", gotBody.TextPrompts)
	}
	if gotBody.Width != 1024 || gotBody.Height != 1024 || gotBody.Steps != 30 || gotBody.CfgScale != 7 || gotBody.Samples != 1 {
		t.Fatalf("request parameters = %+v", gotBody)
	}
}

func TestStabilityGenerateMissingKey(t *testing.T) {
	g := NewStabilityGenerator(StabilityOptions{})
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("Generate() error = %v, want ErrMissingCredential", err)
	}
}

func TestStabilityGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewStabilityGenerator(StabilityOptions{APIKey: "key-1", APIHost: server.URL})
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("Generate() error = %v, want ErrProviderFailure", err)
	}
}

func TestStabilityGenerateNoArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"artifacts": []any{}})
	}))
	defer server.Close()

	g := NewStabilityGenerator(StabilityOptions{APIKey: "key-1", APIHost: server.URL})
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("Generate() error = %v, want ErrProviderFailure", err)
	}
}
