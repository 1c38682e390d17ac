package auth

// Package auth contains domain-level types for BFF authentication sessions.
// It is pure and free of transport/adapter concerns.

// ErrorKind categorizes an auth failure surfaced to the application.
// Keep string form for easy logging and JSON serialization.
type ErrorKind string

const (
	// KindSessionExpired means the session or token is no longer valid and
	// re-authentication is required. Setting an error of this kind always
	// clears local credentials.
	KindSessionExpired ErrorKind = "session_expired"
	// KindPermissionDenied means the user is authenticated but lacks
	// authorization for a specific action. Credentials remain valid.
	KindPermissionDenied ErrorKind = "permission_denied"
	// KindServiceUnavailable means the auth backend is unreachable or the
	// client is unconfigured. Carries an optional retry-after hint.
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// Error is the single unresolved auth error surfaced to the UI layer.
// It also satisfies the error interface so classified failures can travel
// through ordinary error returns.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// RetryAfterSeconds is only meaningful for KindServiceUnavailable.
	RetryAfterSeconds *int `json:"retry_after_seconds,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// UserInfo is opaque identity/session metadata from the BFF userinfo
// endpoint. It is passed through unmodified; the session coordinator does
// not interpret these fields beyond presence or absence.
type UserInfo struct {
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
	CreatedAt    string `json:"created_at"`
	LastActivity string `json:"last_activity"`
	ExpiresAt    string `json:"expires_at"`
}

// SessionCheck is the result of a session-info call against the BFF.
type SessionCheck struct {
	Authenticated bool
	User          *UserInfo
}

// TokenResponse is the token-issuance result mapped from the BFF's
// snake_case wire shape.
type TokenResponse struct {
	AccessToken string
	TokenType   string
	ExpiresIn   float64 // seconds; callers clamp malformed values
	Scope       string
}

// BackendErrorType enumerates the error_type discriminator on structured
// BFF error bodies.
type BackendErrorType string

const (
	BackendAuthenticationError BackendErrorType = "authentication_error"
	BackendAuthorizationError  BackendErrorType = "authorization_error"
	BackendServiceUnavailable  BackendErrorType = "auth_service_unavailable"
)

// BackendError is the structured error body the BFF attaches to non-2xx
// responses. An absent ErrorType means the response carries no auth
// classification at all.
type BackendError struct {
	Detail        string           `json:"detail"`
	ErrorType     BackendErrorType `json:"error_type"`
	RequiredScope string           `json:"required_scope,omitempty"`
	RetryAfter    *int             `json:"retry_after,omitempty"`
}

// LoginOptions carries parameters for initiating a login redirect.
type LoginOptions struct {
	// ReturnURL is the URL or in-app path to return to after
	// authentication. Empty means the current location.
	ReturnURL string
}

// TwoFactorErrorCode enumerates 2FA error codes returned by the backend.
//
// Login-phase (from /api/v1/oauth/login):
//   - TwoFactorSetupRequired: user needs to complete 2FA setup
//   - TwoFactorCodeRequired: user must provide a TOTP code
//
// Setup-phase (from /api/v1/auth/2fa/setup):
//   - TwoFactorTokenExpired, TwoFactorTokenInvalid, TwoFactorTokenUsed
type TwoFactorErrorCode string

const (
	TwoFactorSetupRequired TwoFactorErrorCode = "2fa_setup_required"
	TwoFactorCodeRequired  TwoFactorErrorCode = "2fa_code_required"
	TwoFactorTokenExpired  TwoFactorErrorCode = "token_expired"
	TwoFactorTokenInvalid  TwoFactorErrorCode = "token_invalid"
	TwoFactorTokenUsed     TwoFactorErrorCode = "token_used"
)

// TwoFactorSetup is the response from the 2FA setup endpoint.
type TwoFactorSetup struct {
	UserID string `json:"user_id"`
	// QRCode is a base64 data URI (e.g. data:image/png;base64,...).
	QRCode      string `json:"qr_code"`
	Secret      string `json:"secret"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// TwoFactorVerify is the response from the 2FA verify-setup endpoint.
type TwoFactorVerify struct {
	Message     string   `json:"message"`
	BackupCodes []string `json:"backup_codes"`
	UserID      string   `json:"user_id"`
}
