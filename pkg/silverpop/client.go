// Package silverpop provides a client for the Silverpop (IBM Watson Campaign
// Automation) XML API.
//
// Every call is an XML envelope POSTed to a single endpoint. The API always
// answers with HTTP 200 and reports failures inside the response body, either
// through RESULT.SUCCESS or a Fault element. Requests other than Login carry
// the session id as a ;jsessionid= path parameter on the endpoint URL.
//
// The client logs in at construction unless a session id is supplied, and
// transparently logs in again once when a call fails because the session has
// expired. A Client is not safe for concurrent use; callers sharing one must
// serialize access.
package silverpop

import (
	"context"
	"fmt"
	"sync"

	httpclient "github.com/natserract/silverpop/pkg/http"
	"go.uber.org/zap"
)

// Client is the main client for interacting with the Silverpop XML API
type Client struct {
	config     *Config
	httpClient *httpclient.Client
	session    *session
	logger     *zap.Logger
}

// session holds the jsessionid granted by Login
type session struct {
	mu sync.RWMutex
	id string
}

// NewClient creates a new client with default production logger
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewClientWithLogger(ctx, cfg, logger)
}

// NewClientWithLogger creates a new client with a custom logger. When
// cfg.SessionID is empty it logs in before returning and fails with
// ErrAuthentication if no session could be established.
func NewClientWithLogger(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, preconditionf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		config:     cfg,
		httpClient: httpclient.NewClientWithTimeout(logger, cfg.Timeout),
		session:    &session{id: cfg.SessionID},
		logger:     logger,
	}

	if cfg.SessionID != "" {
		logger.Debug("Using supplied session id", zap.String("session_id", maskSessionID(cfg.SessionID)))
		return c, nil
	}

	if _, err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// SessionID returns the current session id, or "" when logged out.
func (c *Client) SessionID() string {
	c.session.mu.RLock()
	defer c.session.mu.RUnlock()
	return c.session.id
}

func (c *Client) setSessionID(id string) {
	c.session.mu.Lock()
	c.session.id = id
	c.session.mu.Unlock()
}

// SecureURL returns the endpoint qualified with the current session id.
func (c *Client) SecureURL() (string, error) {
	return httpclient.SessionURL(c.config.URL, c.SessionID())
}

func maskSessionID(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	return "****" + id[len(id)-4:]
}
