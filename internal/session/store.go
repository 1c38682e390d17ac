package session

// Package session owns the authentication session state machine: it
// tracks whether the user is authenticated, lazily refreshes access
// tokens with at most one refresh in flight process-wide, and applies
// classified auth errors to state. All mutation goes through Store
// methods; everything else observes snapshots.

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
	apperrors "github.com/turnkeystaffing/bff-auth-go/internal/errors"
	"github.com/turnkeystaffing/bff-auth-go/internal/ports"
	"github.com/turnkeystaffing/bff-auth-go/internal/token"
	"golang.org/x/sync/singleflight"
)

const (
	// refreshBuffer is how close to expiry a token may get before it is
	// considered stale and refreshed.
	refreshBuffer = 60 * time.Second

	// minExpiresInSeconds is the floor applied to malformed expires_in
	// values so a broken expiry cannot cause a rapid-refresh loop. There
	// is deliberately no upper clamp.
	minExpiresInSeconds = 5
)

const (
	sessionExpiredMessage = "Your session has expired. Please sign in again."
	invalidTokenMessage   = "Invalid token received. Please sign in again."
	refreshFailedMessage  = "Failed to refresh session. Please sign in again."
)

// Snapshot is a point-in-time copy of the session state. AccessToken ""
// and TokenExpiresAt zero together mean "no token"; the store never sets
// one without the other.
type Snapshot struct {
	IsAuthenticated bool
	// IsLoading is true only during the initial session check and actions
	// that fully block readiness.
	IsLoading      bool
	User           *domainauth.UserInfo
	AccessToken    string
	TokenExpiresAt time.Time
	// Error is the single most recent unresolved auth error. Overwritten
	// on every new error, cleared by ClearError or a successful retry.
	Error *domainauth.Error
}

// Options groups dependencies for the session store.
type Options struct {
	Client ports.BFFClient
	Logger *slog.Logger
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Store is the session state machine. It is safe for concurrent use.
type Store struct {
	client ports.BFFClient
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state Snapshot

	// refreshGroup holds the process-wide in-flight refresh. The group
	// clears the flight unconditionally when the call settles, so a
	// failed refresh cannot wedge later calls into waiting forever.
	refreshGroup singleflight.Group
}

// NewStore constructs a session store with all-unauthenticated defaults.
func NewStore(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		client: opts.Client,
		logger: opts.Logger,
		now:    now,
	}
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	if s.state.User != nil {
		user := *s.state.User
		snap.User = &user
	}
	if s.state.Error != nil {
		stateErr := *s.state.Error
		snap.Error = &stateErr
	}
	return snap
}

// IsAuthenticated reports whether the last session check authenticated the user.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// IsLoading reports whether a readiness-blocking action is in progress.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsLoading
}

// Err returns the current auth error, or nil.
func (s *Store) Err() *domainauth.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Error == nil {
		return nil
	}
	stateErr := *s.state.Error
	return &stateErr
}

// IsConfigured reports whether the underlying BFF client is configured.
// The response interceptor uses this to ignore 401s from an unconfigured
// client instead of overwriting a service-unavailable state.
func (s *Store) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Initialize establishes session state from the BFF-held cookie. On an
// authenticated session it pre-fetches an access token. Errors are
// absorbed into state (unauthenticated, plus a ServiceUnavailable error
// for configuration failures) and returned for callers that branch on
// them; loading is cleared on every path.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state.IsLoading = false
		s.mu.Unlock()
	}()

	check, err := s.client.CheckSession(ctx)
	if err != nil {
		s.logError(ctx, "failed to initialize auth", err)
		s.mu.Lock()
		s.state.IsAuthenticated = false
		s.state.User = nil
		s.mu.Unlock()

		// Configuration failures must be visible, not mistaken for a
		// normal signed-out state.
		if apperrors.IsConfiguration(err) {
			s.SetError(&domainauth.Error{
				Kind:    domainauth.KindServiceUnavailable,
				Message: appErrorMessage(err),
			})
		}
		return err
	}

	s.mu.Lock()
	s.state.IsAuthenticated = check.Authenticated
	s.state.User = check.User
	s.mu.Unlock()

	if check.Authenticated {
		if _, err := s.EnsureValidToken(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EnsureValidToken returns a token valid for at least the refresh buffer,
// refreshing lazily when the cached one is stale or absent. Concurrent
// callers join the same in-flight refresh and observe the same outcome.
//
// The returned error is non-nil only for configuration failures; every
// other refresh failure surfaces as error state and an empty token.
func (s *Store) EnsureValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state.AccessToken != "" && !s.tokenNeedsRefreshLocked() {
		cached := s.state.AccessToken
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	result, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.refreshToken(ctx)
	})
	if err != nil {
		return "", err
	}

	resp, _ := result.(*domainauth.TokenResponse)
	if resp == nil {
		return "", nil
	}
	return resp.AccessToken, nil
}

// tokenNeedsRefreshLocked recomputes staleness from the clock on every
// call. This must stay a method over live state, never a cached flag:
// wall-clock time is not a trackable dependency and a memoized answer
// would miss expiry after an idle period.
func (s *Store) tokenNeedsRefreshLocked() bool {
	if s.state.AccessToken == "" || s.state.TokenExpiresAt.IsZero() {
		return true
	}
	return !s.now().Before(s.state.TokenExpiresAt.Add(-refreshBuffer))
}

// refreshToken mints a token and applies the outcome to state. Only a
// configuration error is returned; all other failures become error state
// with a nil response.
func (s *Store) refreshToken(ctx context.Context) (*domainauth.TokenResponse, error) {
	resp, err := s.client.IssueToken(ctx)
	if err != nil {
		s.logError(ctx, "token refresh failed", err)
		if apperrors.IsConfiguration(err) {
			s.SetError(&domainauth.Error{
				Kind:    domainauth.KindServiceUnavailable,
				Message: appErrorMessage(err),
			})
			return nil, err
		}
		s.SetError(&domainauth.Error{
			Kind:    domainauth.KindSessionExpired,
			Message: refreshFailedMessage,
		})
		return nil, nil
	}

	if resp == nil {
		// Session expired per the BFF.
		s.SetError(&domainauth.Error{
			Kind:    domainauth.KindSessionExpired,
			Message: sessionExpiredMessage,
		})
		return nil, nil
	}

	if strings.TrimSpace(resp.AccessToken) == "" {
		// Do not persist the invalid value; AccessToken stays empty.
		s.logError(ctx, "invalid token response: empty access token", nil)
		s.SetError(&domainauth.Error{
			Kind:    domainauth.KindSessionExpired,
			Message: invalidTokenMessage,
		})
		return nil, nil
	}

	expiresIn := resp.ExpiresIn
	if math.IsNaN(expiresIn) || math.IsInf(expiresIn, 0) || expiresIn < minExpiresInSeconds {
		s.logWarn("invalid expires_in, clamping to minimum", "expires_in", resp.ExpiresIn)
		expiresIn = minExpiresInSeconds
		resp.ExpiresIn = expiresIn
	}

	s.mu.Lock()
	s.state.AccessToken = resp.AccessToken
	s.state.TokenExpiresAt = s.now().Add(time.Duration(expiresIn * float64(time.Second)))
	s.mu.Unlock()

	return resp, nil
}

// Login clears any error, marks the store loading, and delegates to the
// BFF client's login redirect. The page navigates away on success, so no
// further transition is observed; loading deliberately stays set.
func (s *Store) Login(opts domainauth.LoginOptions) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = nil
	s.mu.Unlock()

	return s.client.BeginLogin(opts)
}

// Logout revokes the BFF session best-effort, resets all session state to
// initial defaults, and redirects to the login surface. A failed revoke
// is logged and ignored: logout must never get stuck on a server call.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.client.RevokeSession(ctx); err != nil {
		s.logError(ctx, "logout failed", err)
	}

	s.mu.Lock()
	s.state = Snapshot{}
	s.mu.Unlock()

	return s.Login(domainauth.LoginOptions{})
}

// SetError overwrites the current auth error. A SessionExpired error
// atomically resets authentication, user, and token state in the same
// operation: this is the single authoritative place a session-ending
// error logs the user out locally. Other kinds leave authentication
// state untouched.
func (s *Store) SetError(authErr *domainauth.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Error = authErr
	if authErr != nil && authErr.Kind == domainauth.KindSessionExpired {
		s.state.IsAuthenticated = false
		s.state.User = nil
		s.state.AccessToken = ""
		s.state.TokenExpiresAt = time.Time{}
	}
}

// ClearError clears the current error and nothing else.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = nil
}

// Claims returns the decoded access-token claims, or nil when no valid
// token is held. Recomputed on demand; never persisted separately from
// the token.
func (s *Store) Claims() *token.Claims {
	return token.Decode(s.accessToken())
}

// HasRole reports whether the current token carries the given role.
func (s *Store) HasRole(role string) bool {
	return s.Claims().HasRole(role)
}

// UserRoles returns the roles from the current token, or nil.
func (s *Store) UserRoles() []string {
	if claims := s.Claims(); claims != nil {
		return claims.Roles
	}
	return nil
}

// UserEmail returns the email claim from the current token, or "".
func (s *Store) UserEmail() string {
	if claims := s.Claims(); claims != nil {
		return claims.Email
	}
	return ""
}

// UserID returns the user_id claim from the current token, or "".
func (s *Store) UserID() string {
	if claims := s.Claims(); claims != nil {
		return claims.UserID
	}
	return ""
}

// Username returns the username claim from the current token, or "".
func (s *Store) Username() string {
	if claims := s.Claims(); claims != nil {
		return claims.Username
	}
	return ""
}

// UserGUID returns the guid claim from the current token, or "".
func (s *Store) UserGUID() string {
	if claims := s.Claims(); claims != nil {
		return claims.GUID
	}
	return ""
}

// SessionID returns the session_id claim from the current token, or "".
func (s *Store) SessionID() string {
	if claims := s.Claims(); claims != nil {
		return claims.SessionID
	}
	return ""
}

// DisplayEmail returns whatever email claim the current token carries,
// even when the token fails strict claim validation. Display only; never
// use for authorization decisions.
func (s *Store) DisplayEmail() string {
	return token.Email(s.accessToken())
}

func (s *Store) accessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// appErrorMessage extracts the human-readable message from an AppError,
// falling back to the raw error text.
func appErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (s *Store) logError(ctx context.Context, msg string, err error) {
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, msg, "error", err)
	} else {
		s.logger.ErrorContext(ctx, msg)
	}
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
