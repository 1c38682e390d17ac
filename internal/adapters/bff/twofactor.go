package bff

import (
	"context"
	"net/http"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
)

// Two-factor setup endpoints. These sit next to the credential-submission
// endpoint rather than the /bff surface: they are reached with a setup
// token issued during login, not a session cookie. Non-2xx responses
// propagate as *HTTPError so forms can read the TwoFactorErrorCode from
// the detail field.

// Setup2FA starts 2FA enrollment with the setup token from the login
// response and returns the QR code and secret for the authenticator app.
func (c *Client) Setup2FA(ctx context.Context, setupToken string) (*domainauth.TwoFactorSetup, error) {
	body := map[string]string{"token": setupToken}
	var setup domainauth.TwoFactorSetup
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/2fa/setup", body, &setup); err != nil {
		c.logError(ctx, "2fa setup failed", err)
		return nil, err
	}
	return &setup, nil
}

// Verify2FA completes enrollment by verifying the first TOTP code and
// returns the one-time backup codes.
func (c *Client) Verify2FA(ctx context.Context, setupToken, code string) (*domainauth.TwoFactorVerify, error) {
	body := map[string]string{"token": setupToken, "code": code}
	var verify domainauth.TwoFactorVerify
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/2fa/verify-setup", body, &verify); err != nil {
		c.logError(ctx, "2fa verify failed", err)
		return nil, err
	}
	return &verify, nil
}

// Resend2FASetupEmail requests a fresh setup email for users whose setup
// token expired or was already used.
func (c *Client) Resend2FASetupEmail(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/2fa/resend-setup-email", body, nil); err != nil {
		c.logError(ctx, "2fa resend setup email failed", err)
		return err
	}
	return nil
}
