package domain

import "time"

// Role strings. "admin" and "supervisor" are legacy aliases from before the
// role rename; accounts carrying them keep elevated access.
const (
	RoleFormUser   = "form_user"
	RoleAdminUser  = "admin_user"
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

// AdminRole reports whether role grants the aggregated views.
func AdminRole(role string) bool {
	switch role {
	case RoleAdminUser, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}

// User is an account of the reporting service.
type User struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string // bcrypt encoded
	Role         string
	Area         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
