// Package ollama adapts github.com/ollama/ollama's API client into a
// pkg/autofocus/client.VisionClient, the same wiring an
// pkg/ollama package does for its own detector.
package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sko/frameconform/pkg/autofocus/types"
)

// Client wraps the Ollama API client for subject-detection chat calls.
type Client struct {
	client *api.Client
}

// NewClient builds a Client against ollamaURL, stripping any path
// component so requests land on the server's chat endpoint directly.
func NewClient(ollamaURL string) (*Client, error) {
	parsed, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("autofocus/ollama: invalid URL: %w", err)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Client{client: api.NewClient(base, http.DefaultClient)}, nil
}

// SimpleQuery sends prompt and imgB64 to model and returns the raw text
// response, without requiring JSON back.
func (c *Client) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return "", fmt.Errorf("autofocus/ollama: failed to decode image: %w", err)
	}

	stream := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt, Images: []api.ImageData{api.ImageData(imgBytes)}},
		},
		Stream: &stream,
	}

	var content string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("autofocus/ollama: chat failed: %w", err)
	}
	return content, nil
}

// AnalyzeImage asks model to locate the primary subject in imgB64 and
// parses the response into a types.DetectionResult.
func (c *Client) AnalyzeImage(ctx context.Context, model, prompt, imgB64 string) (*types.DetectionResult, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return nil, fmt.Errorf("autofocus/ollama: failed to decode image: %w", err)
	}

	stream := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt, Images: []api.ImageData{api.ImageData(imgBytes)}},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": 0.2, "top_p": 0.8},
	}

	var content string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content = resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("autofocus/ollama: chat failed: %w", err)
	}
	if content == "" {
		return nil, fmt.Errorf("autofocus/ollama: empty response")
	}

	return parseDetectionResult(content)
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 120*time.Second)
}

// parseDetectionResult parses a vision model's JSON reply, falling back
// to a centered, low-confidence result when the model didn't return
// parseable JSON rather than failing the whole request — a bad detection
// should never block conformance, only leave the caller's focus at its
// configured default.
func parseDetectionResult(raw string) (*types.DetectionResult, error) {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return centeredFallback("non-json response"), nil
	}

	var result types.DetectionResult
	if err := json.Unmarshal([]byte(raw), &result); err == nil {
		return &result, nil
	}

	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err == nil {
			return &result, nil
		}
	}
	return centeredFallback("unparseable response"), nil
}

func centeredFallback(reason string) *types.DetectionResult {
	return &types.DetectionResult{
		Subject: types.Subject{
			Label:      "none",
			Confidence: 0,
			Box:        types.Box{X: 0.25, Y: 0.25, W: 0.5, H: 0.5},
			Cx:         0.5,
			Cy:         0.5,
		},
		Description: reason,
		Tags:        []string{"fallback"},
	}
}

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\n?|```")
var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// sanitizeModelJSON strips code fences and trailing commas vision models
// commonly add around an otherwise-valid JSON object.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = fenceRe.ReplaceAllString(raw, "")
	raw = trailingCommaRe.ReplaceAllString(raw, "$1")
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
