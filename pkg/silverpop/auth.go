package silverpop

import (
	"context"
	"errors"
	"fmt"

	"github.com/natserract/silverpop/pkg/codec"
	"go.uber.org/zap"
)

// Login authenticates with the configured credentials, stores the granted
// session id on the client and returns it. Failures to obtain a session id
// are reported as ErrAuthentication and are never retried.
func (c *Client) Login(ctx context.Context) (string, error) {
	c.logger.Info("Logging in to Silverpop", zap.String("url", c.config.URL), zap.String("username", c.config.Username))

	envelope := NewEnvelope("Login", codec.Fields{
		{Name: "USERNAME", Value: c.config.Username},
		{Name: "PASSWORD", Value: c.config.Password},
	})

	result, ok, err := c.SubmitRequest(ctx, envelope, false, true)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			c.logger.Error("Authentication failed", zap.Error(err))
			return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		c.logger.Error("Login request failed", zap.Error(err))
		return "", fmt.Errorf("login request failed: %w", err)
	}

	var sessionID string
	if ok {
		sessionID = result.Get(keySessionID)
	}
	if sessionID == "" {
		c.logger.Error("Authentication failed", zap.Bool("success", ok))
		return "", fmt.Errorf("%w: no session id in login response", ErrAuthentication)
	}

	c.setSessionID(sessionID)
	c.logger.Info("New Silverpop session id acquired", zap.String("session_id", maskSessionID(sessionID)))

	return sessionID, nil
}

// Logout ends the current session and clears the stored session id.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	if c.SessionID() == "" {
		return false, preconditionf("no active session")
	}

	c.logger.Info("Logging out of Silverpop")
	_, ok, err := c.SubmitRequest(ctx, NewEnvelope("Logout", nil), false, false)
	if err != nil {
		c.logger.Error("Logout failed", zap.Error(err))
		return false, err
	}

	c.setSessionID("")
	c.logger.Info("Successfully logged out")
	return ok, nil
}
