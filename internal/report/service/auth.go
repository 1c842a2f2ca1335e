package service

import (
	"context"
	"errors"
	"time"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/dailyops/opsreport/internal/report/store"
	"github.com/dailyops/opsreport/pkg/cryptox"
	"github.com/dailyops/opsreport/pkg/idx"
	"github.com/dailyops/opsreport/pkg/jwtx"
	"github.com/dailyops/opsreport/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrWrongPassword      = errors.New("wrong_password")
	ErrWeakPassword       = errors.New("weak_password")
)

// MinPasswordLength is the floor enforced on password changes. Seeded legacy
// accounts may carry shorter passwords until their next change.
const MinPasswordLength = 8

// AuthService implements the credential side of the reporting API: login,
// refresh-token rotation, logout and password changes.
type AuthService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies a username/password pair and mints a token pair. The
// refresh token is opaque; only its fingerprint is stored.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login rejected", "username", u.Username)
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, u, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("login succeeded", "username", u.Username, "role", u.Role)
	return u, pair, nil
}

// Refresh validates a refresh token by fingerprint lookup, then rotates it:
// the old row is revoked and a new one created in the same transaction. A
// revoked or expired token is rejected outright.
func (s *AuthService) Refresh(ctx context.Context, refreshOpaque string) (domain.User, domain.TokenPair, error) {
	now := time.Now()

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if rt.Revoked || now.After(rt.ExpiresAt) {
		return domain.User{}, domain.TokenPair{}, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	newRT := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(newOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}

	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRT)
	}); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	accessToken, err := s.signAccess(u, newRT.ID, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	return u, domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newOpaque,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Logout revokes every live refresh token the user holds. The access token
// cannot be recalled; it simply ages out.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
}

// ChangePassword verifies the current password, enforces the length floor on
// the new one, updates the hash and revokes all refresh tokens so other
// devices must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(current, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return err
	}

	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, userID, newHash); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
	})
}

// GetUserByID loads a user for the identity endpoints.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

// issueTokens mints an access token and a fresh refresh-token row.
func (s *AuthService) issueTokens(ctx context.Context, u domain.User, now time.Time) (domain.TokenPair, error) {
	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return domain.TokenPair{}, err
	}

	accessToken, err := s.signAccess(u, rt.ID, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

func (s *AuthService) signAccess(u domain.User, sid string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,
		sid,
		u.Username,
		u.FullName,
		u.Role,
		u.Area,
		s.Issuer,
		s.AccessTTL,
		now,
	)
	return s.Signer.Sign(claims)
}
