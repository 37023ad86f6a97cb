// Package ozon talks to the Ozon seller API: typed endpoint calls with
// version fallback, envelope normalization, cursor pagination, and the
// enrichment and placement fetch logic built on top of them. Every call is
// handed to the exchange archive before it returns.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sellerdesk/backend/internal/domain/exchange"
	"github.com/sellerdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize caps how much of a platform response is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Credential is the opaque identity/key pair issued by the credential
// collaborator. Identity doubles as the store identity scoping local rows.
type Credential struct {
	Identity          string
	APIKey            string
	CachedDisplayName string
}

// APIError is a non-2xx platform response.
type APIError struct {
	Status       int
	Endpoint     string
	RequestBody  []byte
	ResponseBody []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("ozon: %s returned HTTP %d", e.Endpoint, e.Status)
}

// IsNotFound reports whether err is a platform 404, the one signal that
// triggers a legacy-path retry.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Recorder archives raw exchanges. The archive implements it; tests stub it.
type Recorder interface {
	Record(ctx context.Context, ex exchange.Exchange) error
}

// Client issues JSON calls to the seller API.
type Client struct {
	baseURL    string
	cred       Credential
	httpClient *http.Client
	recorder   Recorder
	log        *zap.Logger
}

// NewClient creates a Client for one credential pair.
func NewClient(cfg *config.OzonConfig, cred Credential, recorder Recorder, log *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		cred:       cred,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		recorder:   recorder,
		log:        log.Named("ozon"),
	}
}

// StoreIdentity returns the identity scoping this client's data.
func (c *Client) StoreIdentity() string {
	return c.cred.Identity
}

// Call performs one API call. The exchange is archived whether the call
// succeeds or fails; non-2xx responses come back as *APIError.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any) (*Envelope, error) {
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ozon: failed to encode request for %s: %w", endpoint, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("ozon: failed to create request for %s: %w", endpoint, err)
	}
	req.Header.Set("Client-Id", c.cred.Identity)
	req.Header.Set("Api-Key", c.cred.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, exchange.Exchange{
			StoreIdentity: c.cred.Identity,
			Method:        method,
			Endpoint:      endpoint,
			RequestBody:   reqBody,
			Success:       false,
			ErrorMessage:  err.Error(),
			FetchedAt:     time.Now(),
		})
		return nil, fmt.Errorf("ozon: request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("ozon: failed to read response from %s: %w", endpoint, err)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	ex := exchange.Exchange{
		StoreIdentity: c.cred.Identity,
		Method:        method,
		Endpoint:      endpoint,
		RequestBody:   reqBody,
		ResponseBody:  respBody,
		HTTPStatus:    resp.StatusCode,
		Success:       success,
		FetchedAt:     time.Now(),
	}
	if !success {
		ex.ErrorMessage = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	c.record(ctx, ex)

	if !success {
		return nil, &APIError{
			Status:       resp.StatusCode,
			Endpoint:     endpoint,
			RequestBody:  reqBody,
			ResponseBody: respBody,
		}
	}

	return ParseEnvelope(respBody), nil
}

// CallWithFallback calls the primary path and retries the legacy path only
// when the primary fails with HTTP 404. Any other error propagates.
func (c *Client) CallWithFallback(ctx context.Context, method, primary, legacy string, body any) (*Envelope, error) {
	env, err := c.Call(ctx, method, primary, body)
	if err != nil && IsNotFound(err) {
		c.log.Debug("endpoint not found, retrying legacy path",
			zap.String("primary", primary),
			zap.String("legacy", legacy))
		return c.Call(ctx, method, legacy, body)
	}
	return env, err
}

func (c *Client) record(ctx context.Context, ex exchange.Exchange) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, ex); err != nil {
		c.log.Warn("failed to archive exchange",
			zap.String("endpoint", ex.Endpoint),
			zap.Error(err))
	}
}
