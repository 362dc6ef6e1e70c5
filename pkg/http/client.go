package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// ContentTypeXML is the content type the XML API expects on every request.
const ContentTypeXML = "text/xml;charset=utf-8"

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

type RequestOptions struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Context context.Context
	// MaxRetries is the number of extra attempts made after a network error
	// or a 5xx status. Zero means a single attempt.
	MaxRetries      int
	MaxElapsed      time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func NewClient() *Client {
	logger, _ := zap.NewProduction()
	return NewClientWithLogger(logger)
}

// NewClientWithLogger creates a new HTTP client with a custom logger
func NewClientWithLogger(logger *zap.Logger) *Client {
	return NewClientWithTimeout(logger, DefaultTimeout)
}

// NewClientWithTimeout creates a new HTTP client whose round trips are
// bounded by timeout. A non-positive timeout falls back to DefaultTimeout.
func NewClientWithTimeout(logger *zap.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) Do(opts RequestOptions) (*Response, error) {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.MaxElapsed == 0 {
		opts.MaxElapsed = 5 * time.Minute
	}
	if opts.InitialInterval == 0 {
		opts.InitialInterval = 100 * time.Millisecond
	}
	if opts.MaxInterval == 0 {
		opts.MaxInterval = 30 * time.Second
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = opts.InitialInterval
	expBackoff.MaxInterval = opts.MaxInterval
	expBackoff.Reset()

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logURL := RedactSession(opts.URL)

	operation := func() (*Response, error) {
		req, err := c.buildRequest(ctx, opts)
		if err != nil {
			c.logger.Error("Failed to build request", zap.Error(err), zap.String("method", opts.Method), zap.String("url", logURL))
			return nil, backoff.Permanent(err)
		}

		c.logger.Debug("Making HTTP request",
			zap.String("method", opts.Method),
			zap.String("url", logURL))

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("HTTP request failed",
				zap.Error(err),
				zap.String("method", opts.Method),
				zap.String("url", logURL))
			return nil, err
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			c.logger.Error("Failed to read response body", zap.Error(err))
			return nil, backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		if httpResp.StatusCode >= 500 {
			c.logger.Warn("Server error",
				zap.Int("status_code", httpResp.StatusCode),
				zap.String("method", opts.Method),
				zap.String("url", logURL))
			return nil, fmt.Errorf("server error: %d - %s", httpResp.StatusCode, string(body))
		}

		if httpResp.StatusCode >= 400 {
			c.logger.Error("Client error, not retryable",
				zap.Int("status_code", httpResp.StatusCode),
				zap.String("method", opts.Method),
				zap.String("url", logURL),
				zap.String("response", string(body)))
			return nil, backoff.Permanent(fmt.Errorf("client error: %d - %s", httpResp.StatusCode, string(body)))
		}

		return &Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       body,
		}, nil
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(opts.MaxElapsed),
		backoff.WithMaxTries(uint(opts.MaxRetries) + 1),
	}

	resp, err := backoff.Retry(ctx, operation, retryOpts...)
	if err != nil {
		c.logger.Error("HTTP request failed",
			zap.Error(err),
			zap.Int("max_retries", opts.MaxRetries),
			zap.String("method", opts.Method),
			zap.String("url", logURL))
		return nil, err
	}

	c.logger.Debug("HTTP request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.String("method", opts.Method),
		zap.String("url", logURL))

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	var bodyReader io.Reader
	if opts.Body != nil {
		bodyReader = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// PostXML sends body to url with the XML content type.
func (c *Client) PostXML(ctx context.Context, url string, body []byte, maxRetries int) (*Response, error) {
	return c.Do(RequestOptions{
		Method: http.MethodPost,
		URL:    url,
		Headers: map[string]string{
			"Content-Type": ContentTypeXML,
		},
		Body:       body,
		Context:    ctx,
		MaxRetries: maxRetries,
	})
}
