package service

import (
	"context"
	"testing"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/stretchr/testify/require"
)

func TestBootstrapEnsureUsers(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Logger: discardLogger()}
	ctx := context.Background()

	require.NoError(t, svc.EnsureUsers(ctx))

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	// The provisioned admin works end to end.
	auth := newTestAuthService(t, st)
	u, _, err := auth.Login(ctx, "admin.general", "admin2024")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdminUser, u.Role)

	// A second run must not duplicate or reset anything.
	require.NoError(t, auth.ChangePassword(ctx, u.ID, "admin2024", "rotated-away"))
	require.NoError(t, svc.EnsureUsers(ctx))

	_, _, err = auth.Login(ctx, "admin.general", "rotated-away")
	require.NoError(t, err)
}
