package report_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	reporthttp "github.com/dailyops/opsreport/internal/report/http"
	"github.com/dailyops/opsreport/internal/report/service"
	"github.com/dailyops/opsreport/internal/report/store/drivers/sqlite"
	"github.com/dailyops/opsreport/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// startService boots the reporting service in-process: sqlite store with
// migrations, seeded accounts, services and router behind httptest.
func startService(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	bootstrap := &service.BootstrapService{Store: st, Logger: logger}
	require.NoError(t, bootstrap.EnsureUsers(context.Background()))

	signer, err := jwtx.NewHS256([]byte("e2e-test-secret"), "opsreport-e2e")
	require.NoError(t, err)

	router := reporthttp.NewRouter(signer, "e2e", st, logger)
	router.AuthService = &service.AuthService{
		Store:      st,
		Signer:     signer,
		Issuer:     "opsreport-e2e",
		AccessTTL:  8 * time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	router.ReportService = &service.ReportService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
