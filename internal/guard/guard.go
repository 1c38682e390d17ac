package guard

// Package guard gates in-app navigation on auth readiness. A guard
// triggers one-time session initialization, waits (bounded) for the
// store to leave its loading phase, and redirects unauthenticated users
// to the login surface with the intended destination preserved.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
	apperrors "github.com/turnkeystaffing/bff-auth-go/internal/errors"
)

const (
	defaultPollInterval = 50 * time.Millisecond
	defaultMaxAttempts  = 200 // ~10s at the default interval
)

// Route is the navigation target as the host router sees it.
type Route struct {
	// FullPath is the target path including query string and fragment.
	// It becomes the return URL on a login redirect.
	FullPath string
	// Public marks a route as reachable without authentication. Absence
	// of the marker means protected: the default fails closed.
	Public bool
}

// Session is the subset of the session store the gate needs.
type Session interface {
	Initialize(ctx context.Context) error
	IsLoading() bool
	IsAuthenticated() bool
	SetError(*domainauth.Error)
}

// LoginRedirector starts the login redirect with a return URL.
type LoginRedirector interface {
	BeginLogin(opts domainauth.LoginOptions) error
}

// Options groups dependencies for a navigation guard.
type Options struct {
	Store  Session
	Client LoginRedirector
	// PollInterval and MaxAttempts bound the wait for initialization.
	// Defaults: 50ms and 200 attempts.
	PollInterval time.Duration
	MaxAttempts  int
	Logger       *slog.Logger
}

// Guard is a per-mount navigation gate. Each instance carries its own
// initialization state, so re-creating a guard (tests, multi-instance
// hosts) re-runs session initialization exactly once for that instance.
type Guard struct {
	store        Session
	client       LoginRedirector
	pollInterval time.Duration
	maxAttempts  int
	logger       *slog.Logger

	initOnce sync.Once
}

// New constructs a navigation guard.
func New(opts Options) *Guard {
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Guard{
		store:        opts.Store,
		client:       opts.Client,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		logger:       opts.Logger,
	}
}

// Check decides a single navigation attempt: true allows it, false
// cancels it (the page is redirecting to login). Public routes pass
// immediately with no session check.
func (g *Guard) Check(ctx context.Context, to Route) bool {
	if to.Public {
		return true
	}

	g.initOnce.Do(func() {
		if err := g.store.Initialize(ctx); err != nil {
			// The user is simply treated as unauthenticated; a
			// configuration failure resurfaces at the redirect below.
			g.logError(ctx, "failed to initialize auth", err)
		}
	})

	if !g.waitForReady(ctx) {
		g.logWarn("auth not ready, redirecting to login")
		return g.redirectToLogin(ctx, to)
	}

	if g.store.IsAuthenticated() {
		return true
	}
	return g.redirectToLogin(ctx, to)
}

// waitForReady polls until the store leaves its loading phase, up to the
// configured ceiling. A timeout or canceled context reports not-ready,
// which fails closed.
func (g *Guard) waitForReady(ctx context.Context) bool {
	if !g.store.IsLoading() {
		return true
	}

	for attempt := 0; attempt < g.maxAttempts && g.store.IsLoading(); attempt++ {
		timer := time.NewTimer(g.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}

	if g.store.IsLoading() {
		g.logWarn("auth initialization timed out")
		return false
	}
	return true
}

// redirectToLogin starts the login redirect with the intended destination
// preserved and cancels the navigation. A configuration error instead
// shows a service-unavailable state and allows the navigation: redirecting
// would loop straight back through the same broken guard.
func (g *Guard) redirectToLogin(ctx context.Context, to Route) bool {
	err := g.client.BeginLogin(domainauth.LoginOptions{ReturnURL: to.FullPath})
	if err == nil {
		return false
	}

	if apperrors.IsConfiguration(err) {
		g.logError(ctx, "auth configuration error", err)
		g.store.SetError(&domainauth.Error{
			Kind:    domainauth.KindServiceUnavailable,
			Message: configurationMessage(err),
		})
		return true
	}

	g.logError(ctx, "login redirect failed", err)
	return false
}

func configurationMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (g *Guard) logError(ctx context.Context, msg string, err error) {
	if g.logger != nil {
		g.logger.ErrorContext(ctx, msg, "error", err)
	}
}

func (g *Guard) logWarn(msg string) {
	if g.logger != nil {
		g.logger.Warn(msg)
	}
}
