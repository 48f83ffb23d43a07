package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahayak-labs/sahayak/core/protocol"
	"github.com/sahayak-labs/sahayak/core/response"
)

// maxResponseSize bounds response bodies to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// apiKeyEnv names the environment variable carrying the API key.
const apiKeyEnv = "OPENAI_API_KEY"

// Option configures an HTTP agent.
type Option func(*httpAgent)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *httpAgent) { a.httpClient = c }
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(a *httpAgent) { a.retry = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *httpAgent) { a.logger = logger }
}

type httpAgent struct {
	cfg        Config
	retry      RetryConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func newHTTPAgent(cfg *Config, opts ...Option) (*httpAgent, error) {
	merged := DefaultConfig()
	merged.Merge(cfg)

	a := &httpAgent{
		cfg:   merged,
		retry: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: time.Duration(merged.TimeoutSeconds) * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func (a *httpAgent) Tools(ctx context.Context, messages []protocol.Message, tools []protocol.Tool) (*response.ToolsResponse, error) {
	body, err := buildToolsBody(a.cfg.Model, a.cfg.MaxTokens, messages, tools)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	respBody, err := a.doWithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		return a.postJSON(ctx, a.endpoint("/chat/completions"), body)
	})
	if err != nil {
		return nil, err
	}

	return response.ParseTools(respBody)
}

func (a *httpAgent) Transcribe(ctx context.Context, audioPath string) (*response.AudioResponse, error) {
	respBody, err := a.doWithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		return a.postAudio(ctx, a.endpoint("/audio/transcriptions"), audioPath)
	})
	if err != nil {
		return nil, err
	}

	return response.ParseAudio(respBody)
}

// doWithRetry runs one request function with retry on transient errors.
func (a *httpAgent) doWithRetry(ctx context.Context, do func(context.Context) ([]byte, error)) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= a.retry.MaxAttempts; attempt++ {
		body, err := do(ctx)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if IsFatal(err) {
			return nil, err
		}

		if attempt < a.retry.MaxAttempts {
			backoff := a.retry.backoff(attempt)
			a.logger.Debug("request failed, retrying",
				"attempt", attempt,
				"max_attempts", a.retry.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, lastErr
}

func (a *httpAgent) endpoint(path string) string {
	return strings.TrimSuffix(a.cfg.BaseURL, "/") + path
}

func (a *httpAgent) postJSON(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	a.setAuth(req)

	return a.execute(req)
}

func (a *httpAgent) postAudio(ctx context.Context, url, audioPath string) ([]byte, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("open audio file: %w", err))
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, NewFatalError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, NewFatalError(fmt.Errorf("read audio file: %w", err))
	}
	if err := form.WriteField("model", a.cfg.AudioModel); err != nil {
		return nil, NewFatalError(err)
	}
	if err := form.WriteField("response_format", "json"); err != nil {
		return nil, NewFatalError(err)
	}
	if err := form.Close(); err != nil {
		return nil, NewFatalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	a.setAuth(req)

	return a.execute(req)
}

func (a *httpAgent) setAuth(req *http.Request) {
	if key := os.Getenv(apiKeyEnv); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}

func (a *httpAgent) execute(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		// Network errors are transient.
		return nil, NewTransientError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(resp.StatusCode, body)
	}

	return body, nil
}

// classifyHTTPError decides whether an HTTP error is worth retrying.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden,
		statusCode == http.StatusBadRequest:
		return NewFatalError(err)
	default:
		return NewFatalError(err)
	}
}
