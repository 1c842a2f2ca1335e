package authclient

import (
	"strings"
	"time"
)

// SessionDuration is the fixed client-side lifetime of a session, measured
// from the issue timestamp. Sessions end at IssuedAt+SessionDuration no
// matter what the tokens inside them claim.
const SessionDuration = 8 * time.Hour

// Role is a user's authorization level. The role is the sole source of
// authorization truth; no other flag grants elevated access.
type Role string

const (
	// RoleFormUser may submit daily reports only.
	RoleFormUser Role = "form_user"

	// RoleAdminUser may submit reports and browse the aggregated views.
	RoleAdminUser Role = "admin_user"

	// RoleAdmin and RoleSupervisor are legacy aliases kept for accounts
	// provisioned before the role rename. Both grant elevated access.
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

// AdminAccess reports whether the role grants access to the admin views.
func (r Role) AdminAccess() bool {
	switch r {
	case RoleAdminUser, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}

// User is the identity snapshot captured at login time.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`

	// Area is an organizational label (e.g. the site the user reports for).
	// It is display metadata, never an authorization input.
	Area string `json:"area"`
}

// Session is the authenticated context for one client instance.
type Session struct {
	// AccessToken is the bearer credential for authenticated requests.
	// Non-empty for the whole life of the session.
	AccessToken string `json:"access_token"`

	// RefreshToken is present only for remote-backed sessions.
	RefreshToken string `json:"refresh_token,omitempty"`

	// User is the denormalized identity captured at login.
	User User `json:"user"`

	// IssuedAt is when the session was created or last refreshed.
	IssuedAt time.Time `json:"issued_at"`

	// Local marks a session minted by the local fallback table. Local
	// sessions have no refresh token and verify without the network.
	Local bool `json:"local,omitempty"`
}

// ExpiresAt is IssuedAt plus the fixed session duration.
func (s Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(SessionDuration)
}

// Expired reports whether the session has aged out at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}

// restamp returns a copy of the session with a fresh issue timestamp,
// extending its life by the full session duration.
func (s Session) restamp(now time.Time) Session {
	s.IssuedAt = now
	return s
}

// SessionInfo is the read-only session summary handed to UI collaborators.
type SessionInfo struct {
	StartTime time.Time     `json:"start_time"`
	ExpiresAt time.Time     `json:"expires_at"`
	TimeLeft  time.Duration `json:"time_left"`
	IsExpired bool          `json:"is_expired"`
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
