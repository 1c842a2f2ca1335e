package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, issuer string) *HS256 {
	t.Helper()
	h, err := NewHS256([]byte("test-secret-at-least-32-bytes-long"), issuer)
	require.NoError(t, err)
	return h
}

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	h := newTestSigner(t, "opsreport")
	claims := NewAccessClaims(
		"user-1", "sid-1",
		"admin.general", "Administrador General", "admin_user", "Administración General",
		"opsreport", time.Hour, time.Now(),
	)

	token, err := h.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "sid-1", got.SID)
	require.Equal(t, "admin.general", got.Username)
	require.Equal(t, "admin_user", got.Role)
	require.Equal(t, "Administración General", got.Area)
}

func TestHS256RejectsExpired(t *testing.T) {
	t.Parallel()

	h := newTestSigner(t, "opsreport")
	claims := NewAccessClaims(
		"user-1", "sid-1", "u", "U", "form_user", "area",
		"opsreport", time.Hour, time.Now().Add(-2*time.Hour),
	)

	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	a := newTestSigner(t, "opsreport")
	b, err := NewHS256([]byte("a-completely-different-shared-key"), "opsreport")
	require.NoError(t, err)

	token, err := a.Sign(NewAccessClaims(
		"user-1", "", "u", "U", "form_user", "area",
		"opsreport", time.Hour, time.Now(),
	))
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.Error(t, err)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "someone-else")
	verifier := newTestSigner(t, "opsreport")

	token, err := signer.Sign(NewAccessClaims(
		"user-1", "", "u", "U", "form_user", "area",
		"someone-else", time.Hour, time.Now(),
	))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, "opsreport")
	require.Error(t, err)
}
