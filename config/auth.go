package config

// AuthConfig contains the BFF auth client configuration.
type AuthConfig struct {
	// BaseURL is the BFF base URL (e.g. "https://bff.example.com").
	// When unset, auth operations fail gracefully with a configuration
	// error instead of reaching the network.
	BaseURL string `env:"BASE_URL"`

	// ClientID identifies this application to the centralized login flow.
	ClientID string `env:"CLIENT_ID"`

	// TokenClientID is the client ID sent to the token endpoint so tokens
	// are issued for the backend resource server. Defaults to ClientID.
	TokenClientID string `env:"TOKEN_CLIENT_ID"`

	// AppOrigin is this application's own origin. Login return URLs are
	// resolved against it; cross-origin return URLs are rejected.
	AppOrigin string `env:"APP_ORIGIN" envDefault:"http://localhost:3000"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.TokenClientID == "" {
		a.TokenClientID = a.ClientID
	}
}

// IsConfigured reports whether the base URL and client ID are both set.
// When false, auth operations fail gracefully rather than redirect.
func (a *AuthConfig) IsConfigured() bool {
	return a.BaseURL != "" && a.ClientID != ""
}
