package seedream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"covergen/internal/domain"
	"covergen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("seedream: api key is required")

// Options configures the asynchronous image job client.
type Options struct {
	APIKey             string
	BaseURL            string
	Model              string
	DefaultSize        string
	Watermark          bool
	PlaceholderMarkers []string
	HTTPClient         *http.Client
	Logger             *infra.Logger
	RequestTimeout     time.Duration
	// Sleep waits between status queries. Tests replace it to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client submits generation jobs to an OpenAI-style task router and polls them.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	defaultSize string
	watermark   bool
	matcher     URLMatcher
	httpClient  *http.Client
	logger      *infra.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// SubmitRequest captures the inputs of one generation job.
type SubmitRequest struct {
	Prompt     string
	Size       string
	StyleHints []string
}

// TaskSnapshot is one observation of a remote job.
type TaskSnapshot struct {
	domain.GenerationTask
	RawStatus string
	Body      []byte
	Attempts  int
}

type submitPayload struct {
	Model              string   `json:"model"`
	Prompt             string   `json:"prompt"`
	Size               string   `json:"size"`
	Watermark          bool     `json:"watermark"`
	ResponseModalities []string `json:"response_modalities"`
}

type submitResponse struct {
	Data struct {
		RequestID string `json:"request_id"`
	} `json:"data"`
	Message string `json:"message"`
}

// NewClient constructs a client with defaults matching the hosted router.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://router.shengsuanyun.com/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "bytedance/doubao-seedream-4.0"
	}
	size := strings.TrimSpace(opts.DefaultSize)
	if size == "" {
		size = "1024x1024"
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		model:       model,
		defaultSize: size,
		watermark:   opts.Watermark,
		matcher:     NewURLMatcher(opts.PlaceholderMarkers),
		httpClient:  httpClient,
		logger:      logger,
		sleep:       sleep,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Submit creates a generation job and returns its request id.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if !c.HasCredentials() {
		return "", fmt.Errorf("%w: %w", domain.ErrSubmission, ErrMissingAPIKey)
	}
	prompt := buildPrompt(req.Prompt, req.StyleHints)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrSubmission)
	}
	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = c.defaultSize
	}
	body, err := json.Marshal(submitPayload{
		Model:              c.model,
		Prompt:             prompt,
		Size:               size,
		Watermark:          c.watermark,
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", domain.ErrSubmission, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrSubmission, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, status, err := c.do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSubmission, err)
	}
	if status >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrSubmission, status, truncate(raw, 200))
	}
	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrSubmission, err)
	}
	requestID := strings.TrimSpace(decoded.Data.RequestID)
	if requestID == "" {
		if decoded.Message != "" {
			return "", fmt.Errorf("%w: missing request id: %s", domain.ErrSubmission, decoded.Message)
		}
		return "", fmt.Errorf("%w: missing request id", domain.ErrSubmission)
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("request_id", requestID).
		Msg("seedream: task submitted")
	return requestID, nil
}

// Status queries the job once.
func (c *Client) Status(ctx context.Context, requestID string) (*TaskSnapshot, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, errors.New("seedream: request id is required")
	}
	endpoint := c.baseURL + "/tasks/generations/" + url.PathEscape(requestID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("seedream: build status request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, status, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("seedream: status query %d: %s", status, truncate(raw, 200))
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("seedream: status response is not valid json")
	}
	rawStatus := gjson.GetBytes(raw, "data.status").String()
	return &TaskSnapshot{
		GenerationTask: domain.GenerationTask{
			RequestID: requestID,
			Status:    domain.ParseTaskStatus(rawStatus),
		},
		RawStatus: rawStatus,
		Body:      raw,
	}, nil
}

// Poll queries the job every interval, at most maxAttempts times. It returns
// the snapshot as soon as the job succeeds, domain.ErrTaskFailed as soon as it
// fails or is cancelled, and domain.ErrPollTimeout once the budget is spent.
// A failed status query ends polling with that error.
func (c *Client) Poll(ctx context.Context, requestID string, maxAttempts int, interval time.Duration) (*TaskSnapshot, error) {
	var last *TaskSnapshot
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.sleep(ctx, interval); err != nil {
			return last, err
		}
		snap, err := c.Status(ctx, requestID)
		if err != nil {
			return last, err
		}
		snap.Attempts = attempt
		c.logger.Debug().
			Str("request_id", requestID).
			Int("attempt", attempt).
			Str("status", snap.RawStatus).
			Msg("seedream: polled task")
		switch {
		case snap.Status.Succeeded():
			return snap, nil
		case snap.Status.Failed():
			return snap, fmt.Errorf("%w: %s ended as %s", domain.ErrTaskFailed, requestID, snap.RawStatus)
		}
		last = snap
	}
	return last, fmt.Errorf("%w: %s not finished after %d attempts", domain.ErrPollTimeout, requestID, maxAttempts)
}

// ExtractAssetURL returns the first usable asset URL in a status body.
func (c *Client) ExtractAssetURL(body []byte) (string, bool) {
	return c.matcher.Extract(body)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func buildPrompt(prompt string, hints []string) string {
	prompt = strings.TrimSpace(prompt)
	var kept []string
	for _, h := range hints {
		if h = strings.TrimSpace(h); h != "" {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 || prompt == "" {
		return prompt
	}
	return prompt + " 风格：" + strings.Join(kept, "，") + "。"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(raw []byte, n int) string {
	s := strings.TrimSpace(string(raw))
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
