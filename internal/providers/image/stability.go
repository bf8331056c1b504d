package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studio/internal/domain"
)

const stabilityEngineID = "stable-diffusion-xl-1024-v1-0"

// StabilityOptions configures the Stability AI text-to-image adapter.
type StabilityOptions struct {
	APIKey     string
	APIHost    string
	HTTPClient *http.Client
}

// StabilityGenerator calls the Stability AI v1 generation endpoint and returns
// the first artifact as an inline PNG data URL.
type StabilityGenerator struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	CfgScale    int                   `json:"cfg_scale"`
	Height      int                   `json:"height"`
	Width       int                   `json:"width"`
	Steps       int                   `json:"steps"`
	Samples     int                   `json:"samples"`
}

type stabilityTextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

func NewStabilityGenerator(opts StabilityOptions) *StabilityGenerator {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}
	host := strings.TrimSpace(opts.APIHost)
	if host == "" {
		host = "api.stability.ai"
	}
	// Tests point APIHost at an httptest server, so an explicit scheme wins.
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return &StabilityGenerator{
		apiKey:   strings.TrimSpace(opts.APIKey),
		endpoint: fmt.Sprintf("%s/v1/generation/%s/text-to-image", strings.TrimRight(host, "/"), stabilityEngineID),
		client:   client,
	}
}

func (g *StabilityGenerator) Generate(ctx context.Context, prompt string) (Ref, error) {
	if g.apiKey == "" {
		return Ref{}, fmt.Errorf("stability: %w", domain.ErrMissingCredential)
	}

	payload := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: prompt, Weight: 1}},
		CfgScale:    7,
		Height:      1024,
		Width:       1024,
		Steps:       30,
		Samples:     1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Ref{}, fmt.Errorf("stability: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Ref{}, fmt.Errorf("stability: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Ref{}, fmt.Errorf("stability: %w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Ref{}, fmt.Errorf("stability: %w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Ref{}, fmt.Errorf("stability: %w: decode response: %v", domain.ErrProviderFailure, err)
	}
	if len(out.Artifacts) == 0 || out.Artifacts[0].Base64 == "" {
		return Ref{}, fmt.Errorf("stability: %w: no image artifact in response", domain.ErrProviderFailure)
	}

	return Ref{
		URL:      "data:image/png;base64," + out.Artifacts[0].Base64,
		Provider: "stability",
	}, nil
}

var _ Generator = (*StabilityGenerator)(nil)
