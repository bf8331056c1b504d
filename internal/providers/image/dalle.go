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

// DallEOptions configures the OpenAI image-generation adapter.
type DallEOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// DallEGenerator calls the OpenAI images endpoint and returns the hosted URL
// of the generated image.
type DallEGenerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type dallERequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type dallEResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func NewDallEGenerator(opts DallEOptions) *DallEGenerator {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &DallEGenerator{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: baseURL,
		client:  client,
	}
}

func (g *DallEGenerator) Generate(ctx context.Context, prompt string) (Ref, error) {
	if g.apiKey == "" {
		return Ref{}, fmt.Errorf("dall-e: %w", domain.ErrMissingCredential)
	}

	payload := dallERequest{
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "url",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Ref{}, fmt.Errorf("dall-e: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return Ref{}, fmt.Errorf("dall-e: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Ref{}, fmt.Errorf("dall-e: %w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Ref{}, fmt.Errorf("dall-e: %w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out dallEResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Ref{}, fmt.Errorf("dall-e: %w: decode response: %v", domain.ErrProviderFailure, err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return Ref{}, fmt.Errorf("dall-e: %w: no image url in response", domain.ErrProviderFailure)
	}

	return Ref{URL: out.Data[0].URL, Provider: "dall-e"}, nil
}

var _ Generator = (*DallEGenerator)(nil)
