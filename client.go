package wise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	productionBaseURL = "https://api.transferwise.com"
	sandboxBaseURL    = "https://api.sandbox.transferwise.tech"
)

// Client talks to the Wise API. It is stateless between invocations and
// safe for concurrent use; the bearer token and base endpoint are assembled
// once per client lifetime and attached to every call.
type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	clock      func() time.Time
}

// NewClient builds a Client for the given API token. The sandbox endpoint
// is used unless [WithBaseURL] or [NewClientFromConfig] selects otherwise.
func NewClient(apiToken string, opts ...Option) (*Client, error) {
	if apiToken == "" {
		return nil, NewValidationError("an API token is required")
	}
	cfg := clientConfig{
		baseURL:    sandboxBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Client{
		apiToken:   apiToken,
		baseURL:    cfg.baseURL,
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		clock:      cfg.clock,
	}, nil
}

// apiResponse is the raw result of a single remote call: status code,
// response headers, and body. Most operations only need the decoded body;
// funding classification inspects all three.
type apiResponse struct {
	status int
	header http.Header
	body   []byte
}

// invoke performs one synchronous API call. Transport-level failures come
// back as a remote-call error; HTTP error statuses are left to the caller,
// because some operations (funding) classify them rather than fail.
func (c *Client) invoke(ctx context.Context, method, path string, payload any, extra http.Header) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, newTransportError(fmt.Errorf("marshal request body: %w", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	for key, values := range extra {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("read response body: %w", err))
	}

	c.logger.Debug("wise api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return &apiResponse{
		status: resp.StatusCode,
		header: resp.Header,
		body:   raw,
	}, nil
}

// invokeJSON performs a call, maps error statuses to remote-call errors,
// and decodes the 2xx body into out when out is non-nil.
func (c *Client) invokeJSON(ctx context.Context, method, path string, payload, out any) error {
	resp, err := c.invoke(ctx, method, path, payload, nil)
	if err != nil {
		return err
	}
	if resp.status >= http.StatusBadRequest {
		return newRemoteError(resp.status, resp.body)
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{
			Type:    ErrorTypeMalformedResponse,
			Message: fmt.Sprintf("cannot decode %s %s response: %v", method, path, err),
			cause:   err,
		}
	}
	return nil
}
