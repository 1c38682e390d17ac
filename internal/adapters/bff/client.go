package bff

// Package bff provides the HTTP client adapter for the Backend-for-Frontend
// auth endpoints. It owns wire-shape mapping, the configuration guard that
// keeps a misconfigured client off the network, and the open-redirect
// normalization for login redirects.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
	apperrors "github.com/turnkeystaffing/bff-auth-go/internal/errors"
	"github.com/turnkeystaffing/bff-auth-go/internal/ports"
)

const (
	// notConfiguredMessage is surfaced whenever an operation is attempted
	// without a base URL and client ID. It must be user-presentable since
	// it ends up in ServiceUnavailable error state.
	notConfiguredMessage = "Authentication service is not configured. Please contact your administrator."

	defaultTimeout           = 30 * time.Second
	defaultMaxErrorBodyBytes = 64 * 1024
)

// Config holds configuration for the BFF client.
type Config struct {
	// BaseURL is the BFF base URL. Operations fail with a configuration
	// error (before any network call) when unset.
	BaseURL string
	// ClientID identifies this application to the login surface.
	ClientID string
	// TokenClientID is the client ID presented to the token endpoint so
	// tokens are issued for the resource server. Defaults to ClientID.
	TokenClientID string
	// AppOrigin is the application's own origin (e.g. http://localhost:3000).
	// Login return URLs are resolved against it and cross-origin targets
	// are rejected.
	AppOrigin string

	HTTPClient *http.Client // optional, defaults to a cookie-jar client
	// Timeout is the per-request timeout when the default client is
	// built. Ignored when HTTPClient is supplied.
	Timeout   time.Duration
	Navigator ports.Navigator
	// CurrentURL returns the current page location. Defaults to the app
	// origin root. Used when no return URL is supplied and as the
	// malformed-URL fallback.
	CurrentURL func() string
	Logger     *slog.Logger
	// MaxErrorBodyBytes bounds how much of an error response body is read
	// for classification.
	MaxErrorBodyBytes int64
}

// Client implements ports.BFFClient over HTTP with session-cookie
// credentials attached.
type Client struct {
	baseURL       string
	clientID      string
	tokenClientID string
	origin        *url.URL

	httpClient   *http.Client
	navigator    ports.Navigator
	currentURL   func() string
	logger       *slog.Logger
	maxErrorBody int64
}

var _ ports.BFFClient = (*Client)(nil)

// NewClient creates a BFF client. Missing base URL or client ID is not a
// constructor error: the configuration guard fires at call time so the
// failure is observable as auth state instead of a boot crash.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		// Cookie jar gives the withCredentials behavior: the bff_session
		// cookie set at login rides along on every call.
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	tokenClientID := cfg.TokenClientID
	if tokenClientID == "" {
		tokenClientID = cfg.ClientID
	}

	maxErrorBody := cfg.MaxErrorBodyBytes
	if maxErrorBody <= 0 {
		maxErrorBody = defaultMaxErrorBodyBytes
	}

	origin, err := url.Parse(cfg.AppOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		origin = nil
	}

	c := &Client{
		baseURL:       cfg.BaseURL,
		clientID:      cfg.ClientID,
		tokenClientID: tokenClientID,
		origin:        origin,
		httpClient:    httpClient,
		navigator:     cfg.Navigator,
		currentURL:    cfg.CurrentURL,
		logger:        cfg.Logger,
		maxErrorBody:  maxErrorBody,
	}
	if c.currentURL == nil {
		c.currentURL = func() string {
			if c.origin == nil {
				return ""
			}
			return c.origin.JoinPath("/").String()
		}
	}
	return c
}

// IsConfigured reports whether the base URL and client ID are both set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.clientID != ""
}

func (c *Client) configurationGuard() error {
	if c.IsConfigured() {
		return nil
	}
	return apperrors.Configuration(notConfiguredMessage)
}

// CheckSession calls GET {base}/bff/userinfo. A 401 is the expected
// not-authenticated case, not an error.
func (c *Client) CheckSession(ctx context.Context) (*domainauth.SessionCheck, error) {
	if err := c.configurationGuard(); err != nil {
		return nil, err
	}

	var user domainauth.UserInfo
	status, err := c.doJSON(ctx, http.MethodGet, "/bff/userinfo", nil, &user)
	if err != nil {
		if status == http.StatusUnauthorized {
			return &domainauth.SessionCheck{Authenticated: false}, nil
		}
		return nil, err
	}

	return &domainauth.SessionCheck{Authenticated: true, User: &user}, nil
}

// backendTokenResponse is the snake_case wire shape of the token endpoint.
type backendTokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   float64 `json:"expires_in"`
	Scope       string  `json:"scope"`
}

// IssueToken calls POST {base}/bff/token. A 401 maps to (nil, nil):
// session expired per the BFF, not an error.
func (c *Client) IssueToken(ctx context.Context) (*domainauth.TokenResponse, error) {
	if err := c.configurationGuard(); err != nil {
		return nil, err
	}

	body := map[string]string{"client_id": c.tokenClientID}
	var wire backendTokenResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/bff/token", body, &wire)
	if err != nil {
		if status == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}

	return &domainauth.TokenResponse{
		AccessToken: wire.AccessToken,
		TokenType:   wire.TokenType,
		ExpiresIn:   wire.ExpiresIn,
		Scope:       wire.Scope,
	}, nil
}

// SubmitCredentials posts credentials to the BFF login endpoint. The BFF
// sets the session cookie on success. Non-2xx responses propagate as
// *HTTPError untouched; the login form interprets status codes itself.
func (c *Client) SubmitCredentials(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/v1/oauth/login", body, nil); err != nil {
		c.logError(ctx, "submit credentials failed", err)
		return err
	}
	c.logDebug(ctx, "credentials submitted")
	return nil
}

// RevokeSession calls POST {base}/bff/logout. A structured error body is
// returned as a classified *domainauth.Error; anything else propagates
// unmodified.
func (c *Client) RevokeSession(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/bff/logout", struct{}{}, nil)
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if asHTTPError(err, &httpErr) {
		if backendErr, ok := httpErr.BackendError(); ok {
			if authErr := domainauth.Classify(backendErr); authErr != nil {
				return authErr
			}
		}
	}
	return err
}

// BeginLogin performs the SPA-facing login redirect via the configured
// navigator. The return URL (or the current location when absent) is
// resolved to an absolute URL against the app origin; a malformed target
// falls back to the current location and a cross-origin target is
// replaced with the site root. This normalization is mandatory
// open-redirect prevention.
func (c *Client) BeginLogin(opts domainauth.LoginOptions) error {
	if err := c.configurationGuard(); err != nil {
		c.logError(context.Background(), "cannot initiate login", err)
		return err
	}
	if c.origin == nil {
		err := apperrors.Configuration(notConfiguredMessage)
		c.logError(context.Background(), "cannot initiate login: app origin unset", err)
		return err
	}

	target := opts.ReturnURL
	if target == "" {
		target = c.currentURL()
	}

	resolved := c.resolveReturnURL(target)
	c.navigate(c.loginRedirectURL(resolved))
	return nil
}

// BeginCentralLogin performs the Central-Login-facing redirect. The
// return URL is passed through as given: Central Login legitimately
// redirects across origins, so the same-origin guard does not apply here.
func (c *Client) BeginCentralLogin(returnURL string) error {
	if err := c.configurationGuard(); err != nil {
		c.logError(context.Background(), "cannot initiate central login", err)
		return err
	}
	c.navigate(c.loginRedirectURL(returnURL))
	return nil
}

// resolveReturnURL applies the open-redirect normalization: absolute
// same-origin URLs pass through, relative paths resolve against the app
// origin, malformed input falls back to the current location, and any
// cross-origin result collapses to the site root.
func (c *Client) resolveReturnURL(target string) string {
	resolved, err := c.origin.Parse(target)
	if err != nil {
		c.logWarn("malformed return URL, falling back to current page", "target", target)
		resolved, err = url.Parse(c.currentURL())
		if err != nil {
			resolved = c.origin.JoinPath("/")
		}
	}

	if resolved.Scheme != c.origin.Scheme || resolved.Host != c.origin.Host {
		c.logWarn("blocked cross-origin return URL", "target", target)
		resolved = c.origin.JoinPath("/")
	}

	return resolved.String()
}

func (c *Client) loginRedirectURL(redirectURL string) string {
	params := url.Values{
		"client_id":    {c.clientID},
		"redirect_url": {redirectURL},
	}
	return c.baseURL + "/bff/login?" + params.Encode()
}

func (c *Client) navigate(loginURL string) {
	c.logDebug(context.Background(), "initiating login redirect", "url", loginURL)
	if c.navigator != nil {
		c.navigator.Navigate(loginURL)
	}
}

// doJSON issues a request with JSON codecs and session-cookie credentials.
// It returns the response status alongside any error so callers can map
// auth-shaped statuses (401) to domain results.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) (int, error) {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrCodeTransport, "%s %s", method, path)
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path.

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, c.maxErrorBody))
		return resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, apperrors.Wrapf(err, apperrors.ErrCodeInvalidResponse, "decode %s response", path)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) logDebug(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.DebugContext(ctx, msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Client) logError(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.ErrorContext(ctx, msg, "error", err)
	}
}
