package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/session.

import (
	"context"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
)

// BFFClient issues the HTTP operations the session coordinator consumes
// from the Backend-for-Frontend.
type BFFClient interface {
	// CheckSession calls the session-info endpoint. An HTTP 401 maps to
	// an unauthenticated result, not an error. Fails with a configuration
	// error before any network call when the client is unconfigured.
	CheckSession(ctx context.Context) (*domainauth.SessionCheck, error)

	// IssueToken calls the token-issuance endpoint. An HTTP 401 maps to
	// (nil, nil): session expired, not an error. Same configuration guard
	// as CheckSession.
	IssueToken(ctx context.Context) (*domainauth.TokenResponse, error)

	// SubmitCredentials posts credentials to the login endpoint. All
	// non-2xx responses propagate untouched; the login form interprets
	// status codes itself.
	SubmitCredentials(ctx context.Context, email, password string) error

	// RevokeSession ends the BFF session. A structured error body is
	// returned as a classified *domainauth.Error; otherwise the transport
	// error propagates unmodified.
	RevokeSession(ctx context.Context) error

	// BeginLogin navigates to the centralized login surface. The return
	// URL is normalized to the application origin before the redirect is
	// constructed (open-redirect prevention).
	BeginLogin(opts domainauth.LoginOptions) error

	// IsConfigured reports whether the base URL and client identifier are
	// both set. When false, auth operations fail gracefully rather than
	// redirect.
	IsConfigured() bool
}

// Navigator performs a full-page navigation. The browser host wires this
// to location assignment; tests and headless hosts record the URL.
type Navigator interface {
	Navigate(url string)
}
