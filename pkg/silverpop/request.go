package silverpop

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/natserract/silverpop/pkg/codec"
	httpclient "github.com/natserract/silverpop/pkg/http"
	"go.uber.org/zap"
)

// SubmitRequest sends envelope and interprets the response.
//
// With auth set the request goes to the bare endpoint, otherwise to the
// session-qualified one. On success it returns RESULT with columns
// normalized and true. When the API answers with ErrorIDNotAuthenticated
// and retry is set, it logs in again and resubmits envelope exactly once
// with retry cleared. Other failures return an *APICallError, except when
// auth is set: then the failure is swallowed and (RESULT or nil, false) is
// returned so Login can decide. Transport and XML errors are returned as-is.
func (c *Client) SubmitRequest(ctx context.Context, envelope codec.Fields, retry, auth bool) (Result, bool, error) {
	operation := envelopeOperation(envelope)
	if operation == "" {
		return nil, false, preconditionf("envelope must wrap an operation in Envelope.Body")
	}

	log := c.logger.With(
		zap.String("operation", operation),
		zap.String("request_id", uuid.NewString()),
		zap.Bool("retry", retry),
		zap.Bool("auth", auth))

	payload, err := codec.Encode(envelope)
	if err != nil {
		log.Error("Failed to encode request", zap.Error(err))
		return nil, false, fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	target := c.config.URL
	if !auth {
		target, err = httpclient.SessionURL(c.config.URL, c.SessionID())
		if err != nil {
			log.Error("Failed to build session URL", zap.Error(err))
			return nil, false, fmt.Errorf("failed to build session URL: %w", err)
		}
	}

	log.Debug("Submitting request", zap.String("url", c.config.URL))
	resp, err := c.httpClient.PostXML(ctx, target, payload, c.config.MaxRetries)
	if err != nil {
		log.Error("Request failed", zap.Error(err))
		return nil, false, fmt.Errorf("%s request failed: %w", operation, err)
	}

	doc, err := codec.Decode(resp.Body)
	if err != nil {
		log.Error("Failed to parse response", zap.Error(err), zap.String("response", string(resp.Body)))
		return nil, false, fmt.Errorf("failed to parse %s response: %w", operation, err)
	}

	body, ok := codec.LookupMap(doc, keyEnvelope, keyBody)
	if !ok {
		log.Error("Response has no Envelope.Body", zap.String("response", string(resp.Body)))
		return nil, false, fmt.Errorf("%w: %s response has no Envelope.Body", ErrMalformedResponse, operation)
	}

	var result Result
	if raw, ok := body[keyResult].(map[string]any); ok {
		result = Result(raw)
	}

	if result.Success() {
		log.Debug("Request succeeded")
		return Result(FromColumns(result)), true, nil
	}

	fault, _ := body[keyFault].(map[string]any)
	errorID := Fault(fault).ErrorID()

	if errorID == ErrorIDNotAuthenticated && retry {
		log.Warn("Session not authenticated, logging in again")
		if _, err := c.Login(ctx); err != nil {
			return nil, false, err
		}
		return c.SubmitRequest(ctx, envelope, false, auth)
	}

	if auth {
		log.Debug("Authentication request failed", zap.String("error_id", errorID))
		return result, false, nil
	}

	apiErr := &APICallError{Operation: operation, Fault: Fault(fault)}
	log.Error("API call failed",
		zap.String("error_id", errorID),
		zap.String("fault", apiErr.Fault.FaultString()))
	return nil, false, apiErr
}
