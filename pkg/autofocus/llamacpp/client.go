// Package llamacpp is an OpenAI-compatible chat-completions client for a
// local llama.cpp server. It
// satisfies pkg/autofocus/client.VisionClient the same way the ollama
// backend does.
package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sko/frameconform/pkg/autofocus/types"
)

// Client talks to a llama.cpp server's /v1/chat/completions endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// NewClient builds a Client against serverURL, defaulting to the
// conventional local llama.cpp port when serverURL is empty.
func NewClient(serverURL string) *Client {
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	return &Client{
		baseURL:    strings.TrimSuffix(serverURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func buildContent(prompt, imgB64 string) []contentPart {
	parts := []contentPart{{Type: "text", Text: prompt}}
	if imgB64 != "" {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imgB64},
		})
	}
	return parts
}

// SimpleQuery sends prompt and imgB64 and returns the raw text response.
func (c *Client) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	req := chatRequest{
		Model:       model,
		Messages:    []message{{Role: "user", Content: buildContent(prompt, imgB64)}},
		Temperature: 0.2,
		MaxTokens:   1024,
		TopP:        0.9,
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

// AnalyzeImage asks model to locate the primary subject in imgB64 and
// parses the response into a types.DetectionResult.
func (c *Client) AnalyzeImage(ctx context.Context, model, prompt, imgB64 string) (*types.DetectionResult, error) {
	req := chatRequest{
		Model:       model,
		Messages:    []message{{Role: "user", Content: buildContent(prompt, imgB64)}},
		Temperature: 0.2,
		MaxTokens:   2048,
		TopP:        0.8,
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}
	return parseDetectionResult(text)
}

func (c *Client) send(ctx context.Context, payload chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("autofocus/llamacpp: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("autofocus/llamacpp: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("autofocus/llamacpp: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("autofocus/llamacpp: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("autofocus/llamacpp: server returned status %d: %s", resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("autofocus/llamacpp: failed to parse response: %w", err)
	}
	return &parsed, nil
}

func extractText(resp *chatResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("autofocus/llamacpp: no choices in response")
	}
	switch content := resp.Choices[0].Message.Content.(type) {
	case string:
		return content, nil
	case []any:
		for _, item := range content {
			if m, ok := item.(map[string]any); ok {
				if text, ok := m["text"].(string); ok && text != "" {
					return text, nil
				}
			}
		}
	}
	return "", fmt.Errorf("autofocus/llamacpp: no text content in response")
}

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

func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
