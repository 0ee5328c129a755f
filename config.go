package wise

import (
	"github.com/caarlos0/env/v6"
)

// Config carries the process-level settings needed to construct a [Client].
// It is an explicit struct rather than ambient process state so the client
// stays testable with injected values.
type Config struct {
	APIToken string `env:"WISE_API_TOKEN,required"`
	Sandbox  bool   `env:"WISE_IS_SANDBOX" envDefault:"true"`
}

// BaseURL selects the endpoint matching the sandbox flag.
func (c Config) BaseURL() string {
	if c.Sandbox {
		return sandboxBaseURL
	}
	return productionBaseURL
}

// NewClientFromConfig builds a client from an explicit configuration.
// Options are applied after the configuration, so they win on conflict.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return NewClient(cfg.APIToken, append([]Option{WithBaseURL(cfg.BaseURL())}, opts...)...)
}

// NewClientFromEnv parses [Config] from the environment
// (WISE_API_TOKEN, WISE_IS_SANDBOX) and builds a client from it.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, NewValidationError("parse environment: %v", err)
	}
	return NewClientFromConfig(cfg, opts...)
}
