// Package seed bootstraps a default admin account so a fresh install
// can be logged into before any other user exists.
package seed

import (
	"context"
	"errors"

	authdomain "github.com/upeonet/mtandao/internal/auth/domain"
	"github.com/upeonet/mtandao/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	AuthSvc authdomain.Service
}

func EnsureDefaultAdmin(p Params) error {
	if !p.Cfg.Bootstrap.EnsureDefaultAdmin {
		return nil
	}
	log := p.Log.Named("seed")

	_, err := p.AuthSvc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Name:     "Administrator",
		Email:    p.Cfg.Bootstrap.AdminEmail,
		Password: p.Cfg.Bootstrap.AdminPassword,
		Role:     authdomain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, authdomain.ErrUserExists) {
			return nil
		}
		// The default password may not satisfy the configured policy.
		// That is not fatal for an instance that manages users itself.
		if errors.Is(err, authdomain.ErrWeakPassword) {
			log.Warn("default admin password rejected by policy, skipping bootstrap",
				zap.String("email", p.Cfg.Bootstrap.AdminEmail))
			return nil
		}
		return err
	}

	log.Info("default admin created", zap.String("email", p.Cfg.Bootstrap.AdminEmail))
	return nil
}

var Module = fx.Module("seed",
	fx.Invoke(EnsureDefaultAdmin),
)
