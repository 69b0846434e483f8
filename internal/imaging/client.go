// ABOUTME: Client for the external skin-analysis API
// ABOUTME: Submits base64 images and parses condition assessments

package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Analysis is the parsed outcome of a skin image assessment.
type Analysis struct {
	PredictedCondition string   `json:"predicted_condition"`
	Confidence         float64  `json:"confidence"`
	RiskLevel          string   `json:"risk_level"`
	Recommendations    []string `json:"recommendations"`
}

// Client calls the skin-analysis API using the shared lifecycle HTTP
// client.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

// NewClient builds an imaging client over the given HTTP client.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		HTTP:    httpClient,
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

type analyzeRequest struct {
	Image string `json:"image"`
}

// Analyze submits a base64-encoded image for assessment. The encoding is
// checked locally before any network call so malformed input fails fast.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) (*Analysis, error) {
	trimmed := strings.TrimSpace(imageBase64)
	if trimmed == "" {
		return nil, fmt.Errorf("image data is empty")
	}
	if _, err := base64.StdEncoding.DecodeString(trimmed); err != nil {
		return nil, fmt.Errorf("image data is not valid base64: %w", err)
	}

	body, err := json.Marshal(analyzeRequest{Image: trimmed})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling skin analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("skin analysis returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var analysis Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decoding skin analysis response: %w", err)
	}
	return &analysis, nil
}
