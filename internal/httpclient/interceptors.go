package httpclient

// Package httpclient attaches the auth interceptor pair to an
// *http.Client designated "protected": outbound requests get a bearer
// token, inbound auth-shaped error responses flow into session state.
// Attach this only to protected clients; public clients stay untouched.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
	apperrors "github.com/turnkeystaffing/bff-auth-go/internal/errors"
)

const (
	sessionExpiredFallback   = "Your session has expired. Please sign in again."
	permissionDeniedFallback = "Permission denied"

	defaultMaxErrorBodyBytes = 64 * 1024
)

// Session is the subset of the session store the interceptors need. A
// zero-argument accessor supplies it so the HTTP layer never imports the
// store package directly.
type Session interface {
	IsAuthenticated() bool
	EnsureValidToken(ctx context.Context) (string, error)
	SetError(*domainauth.Error)
	IsConfigured() bool
}

// Options configures the interceptor pair.
type Options struct {
	Logger *slog.Logger
	// MaxErrorBodyBytes bounds how much of an error response body is
	// peeked for classification. The peeked bytes are replayed to the
	// caller.
	MaxErrorBodyBytes int64
}

// Attach wraps the client's transport with the request/response
// interceptor pair. The existing transport (or http.DefaultTransport)
// keeps doing the actual round trips.
func Attach(client *http.Client, session func() Session, opts Options) {
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	maxBody := opts.MaxErrorBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxErrorBodyBytes
	}
	client.Transport = &authTransport{
		next:    next,
		session: session,
		logger:  opts.Logger,
		maxBody: maxBody,
	}
}

type authTransport struct {
	next    http.RoundTripper
	session func() Session
	logger  *slog.Logger
	maxBody int64
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess := t.session()

	req, err := t.authorize(req, sess)
	if err != nil {
		return nil, err
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.applyAuthError(sess, resp)
	}
	// The original response always reaches the caller: the interceptor
	// owns the auth-error surface, never the failure decision.
	return resp, nil
}

// authorize attaches a bearer token for authenticated sessions. An
// unauthenticated session passes the request through unmodified. A
// configuration error fails the request before it reaches the network,
// where it would only produce a misleading 401.
func (t *authTransport) authorize(req *http.Request, sess Session) (*http.Request, error) {
	if !sess.IsAuthenticated() {
		return req, nil
	}

	tok, err := sess.EnsureValidToken(req.Context())
	if err != nil {
		if apperrors.IsConfiguration(err) {
			sess.SetError(&domainauth.Error{
				Kind:    domainauth.KindServiceUnavailable,
				Message: configurationMessage(err),
			})
			return nil, err
		}
		// Other failures: proceed without a token and let the server's
		// response drive the outcome.
		t.logError(req.Context(), "failed to get auth token", err)
		return req, nil
	}

	if tok == "" {
		return req, nil
	}

	// RoundTrippers must not mutate the caller's request.
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+tok)
	return authed, nil
}

// applyAuthError routes an error response through classification into
// session state. The response body is peeked (bounded) and replayed so
// the caller still sees the full payload.
func (t *authTransport) applyAuthError(sess Session, resp *http.Response) {
	peeked := t.peekBody(resp)

	var classified *domainauth.Error
	var backendErr domainauth.BackendError
	if len(peeked) > 0 && json.Unmarshal(peeked, &backendErr) == nil {
		classified = domainauth.Classify(backendErr)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && !sess.IsConfigured():
		// An unconfigured client cannot have a session to expire; keep
		// whatever service-unavailable state an earlier guard set.
		t.logWarn("401 received but auth is not configured, ignoring")

	case classified != nil:
		sess.SetError(classified)

	case resp.StatusCode == http.StatusUnauthorized:
		sess.SetError(&domainauth.Error{
			Kind:    domainauth.KindSessionExpired,
			Message: sessionExpiredFallback,
		})

	case resp.StatusCode == http.StatusForbidden:
		message := permissionDeniedFallback
		if backendErr.Detail != "" {
			message = backendErr.Detail
		}
		sess.SetError(&domainauth.Error{
			Kind:    domainauth.KindPermissionDenied,
			Message: message,
		})

	default:
		// Anything else, including a bare 503, is not an auth error.
	}
}

// peekBody reads up to maxBody bytes of the response body and restores
// the body so downstream readers observe the original stream.
func (t *authTransport) peekBody(resp *http.Response) []byte {
	if resp.Body == nil {
		return nil
	}
	peeked, _ := io.ReadAll(io.LimitReader(resp.Body, t.maxBody))
	resp.Body = &replayBody{
		Reader: io.MultiReader(bytes.NewReader(peeked), resp.Body),
		closer: resp.Body,
	}
	return peeked
}

type replayBody struct {
	io.Reader
	closer io.Closer
}

func (b *replayBody) Close() error { return b.closer.Close() }

func configurationMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (t *authTransport) logError(ctx context.Context, msg string, err error) {
	if t.logger != nil {
		t.logger.ErrorContext(ctx, msg, "error", err)
	}
}

func (t *authTransport) logWarn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
