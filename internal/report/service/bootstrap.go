package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/dailyops/opsreport/internal/report/store"
	"github.com/dailyops/opsreport/pkg/cryptox"
	"github.com/dailyops/opsreport/pkg/idx"
)

// seedUser is one provisioned account created on first startup.
type seedUser struct {
	Username string
	Password string
	FullName string
	Role     string
	Area     string
}

// defaultSeedUsers mirrors the account roster the offline client ships, so
// the same credentials work online and offline. Operators are expected to
// rotate the passwords after first login.
var defaultSeedUsers = []seedUser{
	{"admin.general", "admin2024", "Administrador General", domain.RoleAdminUser, "Administración General"},
	{"reportes.barranca", "barranca2024", "Coordinación Barranca", domain.RoleFormUser, "Administrativo Barranca"},
	{"reportes.bogota", "bogota2024", "Coordinación Bogotá", domain.RoleFormUser, "Administrativo Bogotá"},
	{"reportes.cusiana", "cusiana2024", "Coordinación Cusiana", domain.RoleFormUser, "VPI Cusiana"},
	{"supervision.general", "super2024", "Supervisión General", domain.RoleSupervisor, "Gerencia Administrativa"},
}

// BootstrapService seeds the provisioned accounts into an empty database.
type BootstrapService struct {
	Store  store.Store
	Logger *slog.Logger
}

// EnsureUsers creates the default accounts when the users table is empty.
// A populated table is left untouched.
func (s *BootstrapService) EnsureUsers(ctx context.Context) error {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: check users: %w", err)
	}
	if !empty {
		return nil
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, seed := range defaultSeedUsers {
			hash, err := cryptox.HashPassword(seed.Password)
			if err != nil {
				return fmt.Errorf("hash seed password for %s: %w", seed.Username, err)
			}
			u := domain.User{
				ID:           idx.New().String(),
				Username:     seed.Username,
				FullName:     seed.FullName,
				PasswordHash: hash,
				Role:         seed.Role,
				Area:         seed.Area,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return fmt.Errorf("create seed user %s: %w", seed.Username, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("seeded default users", "count", len(defaultSeedUsers))
	return nil
}
