package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
	"github.com/turnkeystaffing/bff-auth-go/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.BFFClient = (*ScriptedBFFClient)(nil)
	_ ports.Navigator = (*RecordingNavigator)(nil)
)

// ScriptedBFFClient simulates a BFF for tests with per-method funcs and
// call counters. The zero value is a configured client whose session
// check reports not-authenticated.
type ScriptedBFFClient struct {
	mu sync.Mutex

	CheckSessionFunc      func(ctx context.Context) (*domainauth.SessionCheck, error)
	IssueTokenFunc        func(ctx context.Context) (*domainauth.TokenResponse, error)
	SubmitCredentialsFunc func(ctx context.Context, email, password string) error
	RevokeSessionFunc     func(ctx context.Context) error
	BeginLoginFunc        func(opts domainauth.LoginOptions) error

	// Unconfigured makes IsConfigured report false.
	Unconfigured bool

	checkSessionCalls int
	issueTokenCalls   int
	revokeCalls       int
	loginCalls        []domainauth.LoginOptions
}

// CheckSession implements ports.BFFClient.
func (c *ScriptedBFFClient) CheckSession(ctx context.Context) (*domainauth.SessionCheck, error) {
	c.mu.Lock()
	c.checkSessionCalls++
	fn := c.CheckSessionFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return &domainauth.SessionCheck{Authenticated: false}, nil
}

// IssueToken implements ports.BFFClient.
func (c *ScriptedBFFClient) IssueToken(ctx context.Context) (*domainauth.TokenResponse, error) {
	c.mu.Lock()
	c.issueTokenCalls++
	fn := c.IssueTokenFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

// SubmitCredentials implements ports.BFFClient.
func (c *ScriptedBFFClient) SubmitCredentials(ctx context.Context, email, password string) error {
	c.mu.Lock()
	fn := c.SubmitCredentialsFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, email, password)
	}
	return nil
}

// RevokeSession implements ports.BFFClient.
func (c *ScriptedBFFClient) RevokeSession(ctx context.Context) error {
	c.mu.Lock()
	c.revokeCalls++
	fn := c.RevokeSessionFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

// BeginLogin implements ports.BFFClient and records the options it was
// called with.
func (c *ScriptedBFFClient) BeginLogin(opts domainauth.LoginOptions) error {
	c.mu.Lock()
	c.loginCalls = append(c.loginCalls, opts)
	fn := c.BeginLoginFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(opts)
	}
	return nil
}

// IsConfigured implements ports.BFFClient.
func (c *ScriptedBFFClient) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.Unconfigured
}

// CheckSessionCalls returns how many times CheckSession was invoked.
func (c *ScriptedBFFClient) CheckSessionCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkSessionCalls
}

// IssueTokenCalls returns how many times IssueToken was invoked.
func (c *ScriptedBFFClient) IssueTokenCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueTokenCalls
}

// RevokeCalls returns how many times RevokeSession was invoked.
func (c *ScriptedBFFClient) RevokeCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revokeCalls
}

// LoginCalls returns the recorded BeginLogin options, in order.
func (c *ScriptedBFFClient) LoginCalls() []domainauth.LoginOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domainauth.LoginOptions, len(c.loginCalls))
	copy(out, c.loginCalls)
	return out
}

// RecordingNavigator captures navigation targets instead of performing
// full-page redirects.
type RecordingNavigator struct {
	mu   sync.Mutex
	urls []string
}

// Navigate implements ports.Navigator.
func (n *RecordingNavigator) Navigate(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, url)
}

// URLs returns the recorded navigation targets, in order.
func (n *RecordingNavigator) URLs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.urls))
	copy(out, n.urls)
	return out
}

// LastURL returns the most recent navigation target, or "".
func (n *RecordingNavigator) LastURL() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.urls) == 0 {
		return ""
	}
	return n.urls[len(n.urls)-1]
}
