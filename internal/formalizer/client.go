package formalizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	formalizertypes "github.com/frahmantamala/mediscript/internal/core/datamodel/formalizer"
)

var (
	ErrNotConfigured = errors.New("formalizer is not configured")
	ErrEmptyResponse = errors.New("formalizer returned no text")
)

// APIError is a non-2xx answer from the model endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("formalizer API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("formalizer API returned status %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to a generateContent style language model endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		model:      config.Model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.baseURL != "" && c.model != ""
}

// Formalize turns free-text clinical notes into a structured HTML report.
func (c *Client) Formalize(ctx context.Context, notes string) (string, error) {
	prompt := fmt.Sprintf("Transform the following medical notes into a professional, structured medical report in HTML format. Use standard medical terminology.\nNotes: %q\nReturn ONLY the HTML content.", notes)
	return c.generate(ctx, prompt)
}

// SuggestDiagnosis asks for differential diagnoses and follow-up tests.
func (c *Client) SuggestDiagnosis(ctx context.Context, symptoms string) (string, error) {
	prompt := fmt.Sprintf("Based on these symptoms: %q, suggest 3 potential differential diagnoses and 2 recommended next tests. Return as a short professional summary in HTML.", symptoms)
	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	req := &formalizertypes.GenerateContentRequest{
		Contents: []formalizertypes.Content{
			{Role: "user", Parts: []formalizertypes.Part{{Text: prompt}}},
		},
	}
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("validation error: %w", err)
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("formalizer request failed", "model", c.model, "error", err)
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp formalizertypes.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.Error.Message
		}
		c.logger.Warn("formalizer API error", "model", c.model, "status", resp.StatusCode, "message", apiErr.Message)
		return "", apiErr
	}

	var genResp formalizertypes.GenerateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := StripCodeFence(genResp.Text())
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Info("formalizer response received",
		"model", c.model,
		"duration_ms", time.Since(started).Milliseconds(),
		"length", len(text))

	return text, nil
}

// StripCodeFence removes a surrounding markdown fence such as ```html ... ```.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	} else {
		trimmed = ""
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
