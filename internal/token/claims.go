package token

// Package token provides safe access-token claim extraction. Tokens are
// decoded only; signature verification is the server's job.

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims issued by the auth provider.
type Claims struct {
	Username  string
	Email     string
	Roles     []string
	GUID      string
	UserID    string
	SessionID string
	ClientID  string

	Issuer    string
	Subject   string
	Audience  []string
	ExpiresAt int64
	NotBefore int64
	IssuedAt  int64
	ID        string
}

// HasRole reports whether the claims contain the given role.
func (c *Claims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Decode extracts claims from an access token string.
//
// It returns nil on any structural decode failure, and also when a
// required claim (email, user_id, roles) is absent or mis-typed: a token
// that decodes but is missing required claims must not yield a partial
// object callers could mistake for a trustworthy one. Decode never
// returns an error; absence of claims is the only failure signal.
func Decode(tokenString string) *Claims {
	payload := decodePayload(tokenString)
	if payload == nil {
		return nil
	}

	email, ok := payload["email"].(string)
	if !ok {
		return nil
	}
	userID, ok := payload["user_id"].(string)
	if !ok {
		return nil
	}
	roles, ok := stringSlice(payload["roles"])
	if !ok {
		return nil
	}

	return &Claims{
		Username:  stringClaim(payload, "username"),
		Email:     email,
		Roles:     roles,
		GUID:      stringClaim(payload, "guid"),
		UserID:    userID,
		SessionID: stringClaim(payload, "session_id"),
		ClientID:  stringClaim(payload, "client_id"),
		Issuer:    stringClaim(payload, "iss"),
		Subject:   stringClaim(payload, "sub"),
		Audience:  audienceClaim(payload["aud"]),
		ExpiresAt: numericClaim(payload, "exp"),
		NotBefore: numericClaim(payload, "nbf"),
		IssuedAt:  numericClaim(payload, "iat"),
		ID:        stringClaim(payload, "jti"),
	}
}

// Email extracts the email claim from any decodable token. This is the
// loose display-only path: it does not require the full claim set and
// must not be used for authorization decisions. Returns "" when the token
// cannot be decoded or carries no email.
func Email(tokenString string) string {
	payload := decodePayload(tokenString)
	if payload == nil {
		return ""
	}
	email, _ := payload["email"].(string)
	return email
}

// decodePayload structurally decodes a JWT without verifying its
// signature. Returns nil for empty or malformed tokens.
func decodePayload(tokenString string) jwt.MapClaims {
	if tokenString == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

func stringClaim(payload jwt.MapClaims, key string) string {
	s, _ := payload[key].(string)
	return s
}

// numericClaim reads a JSON number claim as unix seconds. encoding/json
// decodes numbers as float64.
func numericClaim(payload jwt.MapClaims, key string) int64 {
	f, _ := payload[key].(float64)
	return int64(f)
}

// stringSlice converts a decoded JSON array into []string, preserving
// order. Any non-array value or non-string element fails the conversion.
func stringSlice(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// audienceClaim accepts both the single-string and array forms of aud.
func audienceClaim(v any) []string {
	switch aud := v.(type) {
	case string:
		return []string{aud}
	case []any:
		out, _ := stringSlice(aud)
		return out
	default:
		return nil
	}
}
