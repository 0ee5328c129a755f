package wise

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	clock      func() time.Time
}

// Option customizes client behavior.
type Option func(*clientConfig)

// WithBaseURL overrides the API endpoint, e.g. to point at a local stub.
func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) {
		cfg.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client. Timeouts and retries
// at the transport level are the supplied client's responsibility; the Wise
// client itself never retries.
func WithHTTPClient(httpClient *http.Client) Option {
	if httpClient == nil {
		panic("wise: http client must not be nil")
	}
	return func(cfg *clientConfig) {
		cfg.httpClient = httpClient
	}
}

// WithLogger enables structured request tracing. The default logger is a no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *clientConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// withClock provides deterministic time in tests.
func withClock(fn func() time.Time) Option {
	return func(cfg *clientConfig) {
		cfg.clock = fn
	}
}
