package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"studio/internal/domain"
	"studio/internal/styles"
)

const captionSystemPrompt = "You are an expert marketing copywriter. Generate a short, punchy ad caption " +
	"(max 15 words) for a creative marketing variation. Be creative but professional. " +
	"Focus on benefits and engagement. Only provide the caption text, nothing else."

// OpenAIOptions configures the chat-completions captioner.
type OpenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAICaptioner generates captions through the OpenAI chat completions API.
type OpenAICaptioner struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAICaptioner(opts OpenAIOptions) *OpenAICaptioner {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAICaptioner{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

func (o *OpenAICaptioner) Caption(ctx context.Context, style styles.Style, index int) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("caption: %w", domain.ErrMissingCredential)
	}

	payload := chatRequest{
		Model:       o.model,
		Temperature: 0.8,
		Messages: []chatMessage{
			{Role: "system", Content: captionSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Current style: %s. Variation: %d.", style, index)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("caption: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("caption: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption: %w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("caption: %w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("caption: %w: decode response: %v", domain.ErrProviderFailure, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("caption: %w: %v", domain.ErrProviderFailure, errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("caption: %w: %v", domain.ErrProviderFailure, errors.New("empty caption"))
	}
	return text, nil
}

var _ Captioner = (*OpenAICaptioner)(nil)
