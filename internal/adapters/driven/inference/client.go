package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// Default configuration values.
const (
	DefaultBaseURL           = "http://localhost:8765"
	DefaultTimeout           = 2 * time.Minute
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 4
	DefaultMaxInFlight       = 4
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4 << 10

// Config holds configuration for the model server client.
type Config struct {
	// BaseURL is the model server base URL (default: http://localhost:8765).
	BaseURL string

	// Timeout bounds a single request (default: 2m).
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the token bucket (default: 10/4).
	RequestsPerSecond float64
	Burst             int

	// MaxInFlight bounds concurrent requests (default: 4). The extraction
	// controller is sequential, so requests only overlap during parallel view
	// preparation (labels super-resolution) or concurrent MCP tool calls.
	MaxInFlight int64

	// RecogniserModel selects the recognition variant (default: Canonical).
	RecogniserModel domain.RecogniserModel
}

// ConfigFromSettings derives the client configuration from settings.
func ConfigFromSettings(s domain.InferenceSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		MaxInFlight:       int64(s.MaxInFlight),
		RecogniserModel:   s.RecogniserModel,
	}
}

// Client is a throttled JSON client for the model server.
type Client struct {
	http     *http.Client
	baseURL  string
	limiter  *rate.Limiter
	inFlight *semaphore.Weighted
	cfg      Config
}

// NewClient creates a model server client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst < 1 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxInFlight < 1 {
		cfg.MaxInFlight = DefaultMaxInFlight
	}
	if cfg.RecogniserModel == "" {
		cfg.RecogniserModel = domain.RecogniserCanonical
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		inFlight: semaphore.NewWeighted(cfg.MaxInFlight),
		cfg:      cfg,
	}
}

// BaseURL returns the model server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// post sends in as JSON to path and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

// do sends a throttled request. Every failure wraps domain.ErrInference.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit: %w", domain.ErrInference, err)
	}
	if err := c.inFlight.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: acquire slot: %w", domain.ErrInference, err)
	}
	defer c.inFlight.Release(1)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", domain.ErrInference, err)
	}
	if body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %w", domain.ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return fmt.Errorf("%w: %s %s: status %d (failed to read body)", domain.ErrInference, method, path, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s %s: status %d: %s", domain.ErrInference, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrInference, err)
	}
	return nil
}

// ping checks that the named model is loaded.
func (c *Client) ping(ctx context.Context, model string) error {
	if err := c.do(ctx, http.MethodGet, "/v1/models/"+url.PathEscape(model), http.NoBody, nil); err != nil {
		return fmt.Errorf("ping %s: %w", model, err)
	}
	return nil
}

// encodeImage encodes img as base64 PNG.
func encodeImage(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("%w: nil image", domain.ErrInvalidInput)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeImage decodes a base64 PNG.
func decodeImage(s string) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: image payload: %w", domain.ErrInference, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: image payload: %w", domain.ErrInference, err)
	}
	return img, nil
}
