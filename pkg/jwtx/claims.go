package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. The access TTL matches the client's fixed session
// duration so a session and its token age out together; refresh tokens live
// longer for user convenience.
const (
	DefaultAccessTokenTTL  = 8 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// ErrExpired reports an access token past its expiry claim.
var ErrExpired = errors.New("jwtx: token expired")

// Claims are the access-token claims used across the reporting service.
// Changes must stay additive to keep older clients decoding.
type Claims struct {
	jwt.RegisteredClaims

	// SID ties the access token to the refresh-token row it was minted
	// with, so a logout can be traced to one session.
	SID string `json:"sid,omitempty"`

	// Username is the login name of the authenticated user.
	Username string `json:"username,omitempty"`

	// FullName is the display name.
	FullName string `json:"full_name,omitempty"`

	// Role is the authorization role ("form_user", "admin_user", legacy
	// "admin"/"supervisor").
	Role string `json:"role,omitempty"`

	// Area is the organizational label the user reports for.
	Area string `json:"area,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
func NewAccessClaims(
	subject, sid string,
	username, fullName, role, area string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID:      sid,
		Username: username,
		FullName: fullName,
		Role:     role,
		Area:     area,
	}
}

// ValidateExpiry checks only the expiry claim. Verify already enforces it;
// this exists for callers holding pre-parsed claims.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
