package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OllamaSummarizer calls an Ollama-compatible generate API.
type OllamaSummarizer struct {
	client *resty.Client
	model  string
}

// NewOllamaSummarizer creates a summarizer against the given base URL.
func NewOllamaSummarizer(baseURL, model string) *OllamaSummarizer {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)

	return &OllamaSummarizer{client: c, model: model}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

// Summarize produces a one-paragraph cafe summary for the given review
// digest.
func (o *OllamaSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	reqBody := generateRequest{
		Model:  o.model,
		Prompt: "Summarize this cafe for a visitor in one short paragraph:\n" + text,
		Stream: false,
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("summarizer request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("summarizer status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", fmt.Errorf("decode summarizer response: %w", err)
	}
	return strings.TrimSpace(gr.Response), nil
}

// HealthPing verifies the generate endpoint is reachable.
func (o *OllamaSummarizer) HealthPing(ctx context.Context) error {
	resp, err := o.client.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("summarizer status %d", resp.StatusCode())
	}
	return nil
}
