package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
)

// defaultRetryDelay is used when a service-unavailable error carries no
// retry-after hint.
const defaultRetryDelay = 30 * time.Second

// RetryOptions groups dependencies for the retry controller.
type RetryOptions struct {
	Store *Store
	// Retry is the action to re-attempt, typically Store.Initialize.
	Retry func(ctx context.Context) error
	// DefaultDelay overrides the 30s fallback countdown, for tests.
	DefaultDelay time.Duration
	Logger       *slog.Logger
}

// RetryController drives recovery from a service-unavailable state: an
// automatic retry after the server-provided retry-after hint (or a fixed
// default), plus a manual retry action. A retry-in-progress flag keeps
// manual and automatic retries mutually exclusive.
type RetryController struct {
	store        *Store
	retry        func(ctx context.Context) error
	defaultDelay time.Duration
	logger       *slog.Logger

	mu         sync.Mutex
	inProgress bool
}

// NewRetryController constructs a retry controller.
func NewRetryController(opts RetryOptions) *RetryController {
	delay := opts.DefaultDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	retry := opts.Retry
	if retry == nil && opts.Store != nil {
		retry = opts.Store.Initialize
	}
	return &RetryController{
		store:        opts.Store,
		retry:        retry,
		defaultDelay: delay,
		logger:       opts.Logger,
	}
}

// Run retries on a countdown for as long as the store reports a
// service-unavailable error. Each failed retry restarts the countdown
// using the latest retry-after hint. Returns when the error clears, a
// different error kind takes over, or ctx is done.
func (r *RetryController) Run(ctx context.Context) {
	for {
		delay, ok := r.nextDelay()
		if !ok {
			return
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		// Re-check before firing: a manual retry or ClearError may have
		// resolved the outage during the countdown.
		if _, ok := r.nextDelay(); !ok {
			return
		}
		r.RetryNow(ctx)
	}
}

// RetryNow runs a single retry attempt unless one is already in flight.
// Returns false when the attempt was skipped because of an in-progress
// retry.
func (r *RetryController) RetryNow(ctx context.Context) bool {
	r.mu.Lock()
	if r.inProgress {
		r.mu.Unlock()
		return false
	}
	r.inProgress = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inProgress = false
		r.mu.Unlock()
	}()

	if err := r.retry(ctx); err != nil {
		if r.logger != nil {
			r.logger.WarnContext(ctx, "auth retry failed", "error", err)
		}
	}
	return true
}

// nextDelay returns the countdown for the current service-unavailable
// error, or false when there is nothing left to retry.
func (r *RetryController) nextDelay() (time.Duration, bool) {
	authErr := r.store.Err()
	if authErr == nil || authErr.Kind != domainauth.KindServiceUnavailable {
		return 0, false
	}
	if authErr.RetryAfterSeconds != nil && *authErr.RetryAfterSeconds > 0 {
		return time.Duration(*authErr.RetryAfterSeconds) * time.Second, true
	}
	return r.defaultDelay, true
}
