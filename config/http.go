package config

import "time"

// HTTPClientConfig contains outbound HTTP client configuration.
type HTTPClientConfig struct {
	// Timeout is the per-request timeout for BFF calls.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// MaxErrorBodyBytes bounds how much of an error response body is read
	// for auth-error classification.
	MaxErrorBodyBytes int64 `env:"MAX_ERROR_BODY_BYTES" envDefault:"65536"`
}

// Sanitize applies guardrails to HTTP client configuration values.
func (h *HTTPClientConfig) Sanitize() {
	if h.Timeout <= 0 {
		h.Timeout = 30 * time.Second
	}
	if h.MaxErrorBodyBytes <= 0 {
		h.MaxErrorBodyBytes = 64 * 1024
	}
}
