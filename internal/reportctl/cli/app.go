package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dailyops/opsreport/pkg/authclient"
)

// App wires the session core to the command surface. One invocation runs
// one command: the session survives between invocations through the
// on-disk store.
type App struct {
	cfg     Config
	api     *authclient.APIClient
	manager *authclient.Manager
	store   *authclient.SQLiteStore

	in  *bufio.Reader
	out io.Writer
}

func NewApp(cfg Config, logger *slog.Logger, out io.Writer) (*App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	store, err := authclient.OpenSQLiteStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	api := authclient.NewAPIClient(cfg.ServerURL)
	backend := authclient.NewFallbackBackend(api, authclient.NewLocalTableBackend())
	client := authclient.NewClient(backend, store, logger)

	return &App{
		cfg:     cfg,
		api:     api,
		manager: authclient.NewManager(client, logger),
		store:   store,
		in:      bufio.NewReader(os.Stdin),
		out:     out,
	}, nil
}

// Close stops the session monitor and releases the store.
func (a *App) Close() {
	a.manager.Close()
	_ = a.store.Close()
}

// Run dispatches one command. The stored session, if any, is restored
// first so every command sees the same state a long-lived client would.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("missing command")
	}

	cmd, rest := args[0], args[1:]

	if cmd == "help" {
		a.usage()
		return nil
	}

	a.manager.Restore(ctx)

	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "status":
		return a.cmdStatus()
	case "whoami":
		return a.cmdWhoami()
	case "extend":
		return a.cmdExtend(ctx)
	case "passwd":
		return a.cmdPasswd(ctx)
	case "submit":
		return a.cmdSubmit(ctx, rest)
	case "list":
		return a.cmdList(ctx, rest)
	case "summary":
		return a.cmdSummary(ctx, rest)
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, `Usage: reportctl <command> [flags]

Session:
  login [username]   authenticate and start a session
  logout             end the session
  status             show session state and time left
  whoami             show the signed-in user
  extend             extend the session another full period
  passwd             change the account password

Reports:
  submit             file a daily report (see 'submit -h')
  list               list stored reports (admin)
  summary            per-area aggregates (admin, see 'summary -h')
`)
}

// requireSession fails fast when no valid session is present.
func (a *App) requireSession() error {
	if !a.manager.IsAuthenticated() {
		return fmt.Errorf("not signed in (run 'reportctl login'): %w", authclient.ErrUnauthenticated)
	}
	return nil
}

// requireAdmin fails when the session lacks the administrative role. The
// service enforces this as well; checking here gives a clean message
// before any request is made.
func (a *App) requireAdmin() error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if !a.manager.HasAdminAccess() {
		return fmt.Errorf("this command needs an administrative account: %w", authclient.ErrRoleDenied)
	}
	return nil
}

func (a *App) accessToken() string {
	return a.manager.Client().AccessToken()
}
