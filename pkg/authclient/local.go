package authclient

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dailyops/opsreport/pkg/idx"
)

// LocalCredential is one row of the static fallback roster.
//
// Passwords are stored in cleartext and compared directly. This is inherited
// legacy behavior from the source system's bundled credential file, kept so
// that provisioned field accounts keep working byte for byte; the comparison
// is constant-time but the storage is NOT hardened. Accounts that matter
// belong on the server.
type LocalCredential struct {
	ID       string
	Username string
	Password string
	FullName string
	Role     Role
	Area     string
}

// defaultLocalCredentials is the roster shipped with the client, mirroring
// the accounts provisioned for offline field sites.
var defaultLocalCredentials = []LocalCredential{
	{
		ID:       "1",
		Username: "admin.general",
		Password: "admin2024",
		FullName: "Administrador General",
		Role:     RoleAdminUser,
		Area:     "Administración General",
	},
	{
		ID:       "2",
		Username: "reportes.barranca",
		Password: "barranca2024",
		FullName: "Coordinación Barranca",
		Role:     RoleFormUser,
		Area:     "Administrativo Barranca",
	},
	{
		ID:       "3",
		Username: "reportes.bogota",
		Password: "bogota2024",
		FullName: "Coordinación Bogotá",
		Role:     RoleFormUser,
		Area:     "Administrativo Bogotá",
	},
	{
		ID:       "4",
		Username: "reportes.cusiana",
		Password: "cusiana2024",
		FullName: "Coordinación Cusiana",
		Role:     RoleFormUser,
		Area:     "VPI Cusiana",
	},
	{
		ID:       "5",
		Username: "supervision.general",
		Password: "super2024",
		FullName: "Supervisión General",
		Role:     RoleSupervisor,
		Area:     "Gerencia Administrativa",
	},
}

// LocalTableBackend validates credentials against a static in-memory table.
// It mints sessions that work without the reporting service: no refresh
// token, verification by presence.
type LocalTableBackend struct {
	table []LocalCredential
	now   func() time.Time
}

// NewLocalTableBackend returns a backend over the default roster.
func NewLocalTableBackend() *LocalTableBackend {
	return NewLocalTableBackendWith(defaultLocalCredentials)
}

// NewLocalTableBackendWith returns a backend over a caller-supplied roster.
func NewLocalTableBackendWith(table []LocalCredential) *LocalTableBackend {
	return &LocalTableBackend{table: table, now: time.Now}
}

// Lookup returns the roster entry for username, password stripped.
func (b *LocalTableBackend) Lookup(username string) (User, bool) {
	username = normalizeUsername(username)
	for _, c := range b.table {
		if normalizeUsername(c.Username) == username {
			return c.user(), true
		}
	}
	return User{}, false
}

func (b *LocalTableBackend) Login(ctx context.Context, username, password string) (Session, error) {
	username = normalizeUsername(username)
	for _, c := range b.table {
		if normalizeUsername(c.Username) != username {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) != 1 {
			break
		}
		return Session{
			// The token only has to be a non-empty opaque handle: nothing
			// verifies it except presence checks.
			AccessToken: "local-" + idx.New().String(),
			User:        c.user(),
			IssuedAt:    b.now(),
			Local:       true,
		}, nil
	}
	return Session{}, fmt.Errorf("local table: %w", ErrInvalidCredentials)
}

// Refresh re-stamps the issue timestamp. Local sessions carry no refresh
// token, so there is nothing to rotate; success keeps legacy sessions alive.
func (b *LocalTableBackend) Refresh(ctx context.Context, cur Session) (Session, error) {
	return cur.restamp(b.now()), nil
}

// Verify degrades to "token and user both present".
func (b *LocalTableBackend) Verify(ctx context.Context, cur Session) bool {
	return cur.AccessToken != "" && cur.User.Username != ""
}

// Logout is a no-op: there is no remote party to notify.
func (b *LocalTableBackend) Logout(ctx context.Context, cur Session) error {
	return nil
}

// ChangePassword is unavailable offline; the roster is read-only.
func (b *LocalTableBackend) ChangePassword(ctx context.Context, cur Session, current, newPassword string) error {
	return fmt.Errorf("%w: password changes need the reporting service", ErrNetwork)
}

func (c LocalCredential) user() User {
	return User{
		ID:       c.ID,
		Username: c.Username,
		FullName: c.FullName,
		Role:     c.Role,
		Area:     c.Area,
	}
}
