// Package classifier talks to the remote emotion-classification service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/emoreflect/internal/emotion"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEndpoint is the hosted classification service.
const DefaultEndpoint = "https://emo-reflect-2.onrender.com/analyze"

// Analyzer classifies a reflection.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (emotion.Result, error)
}

// Client is an HTTP client for the /analyze endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero means no timeout. It is applied to
// a copy of the HTTP client, so a client passed to WithHTTPClient is never
// modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the diagnostic logger. Failures are logged at error level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the given endpoint.
// An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type request struct {
	Text string `json:"text"`
}

// Analyze posts text to the service and decodes the result.
// The text is sent as typed; it only has to be non-blank.
func (c *Client) Analyze(ctx context.Context, text string) (emotion.Result, error) {
	if strings.TrimSpace(text) == "" {
		return emotion.Result{}, ErrEmptyReflection
	}

	log := c.logger.With(
		zap.String("submission_id", uuid.NewString()),
		zap.String("endpoint", c.endpoint),
	)
	start := time.Now()

	result, err := c.do(ctx, text)
	if err != nil {
		log.Error("analysis failed",
			zap.Error(err),
			zap.Int("text_len", len(text)),
			zap.Duration("duration", time.Since(start)),
		)
		return emotion.Result{}, err
	}

	log.Debug("analysis succeeded",
		zap.String("emotion", string(result.Emotion)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (c *Client) do(ctx context.Context, text string) (emotion.Result, error) {
	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return emotion.Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return emotion.Result{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return emotion.Result{}, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return emotion.Result{}, &ServiceError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return emotion.Result{}, &TransportError{Op: "read", Err: err}
	}

	result, err := emotion.Decode(respBody)
	if err != nil {
		return emotion.Result{}, &TransportError{Op: "decode", Err: err}
	}
	return result, nil
}

// statusText extracts the reason phrase, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
