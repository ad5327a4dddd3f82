package auth

import (
	"github.com/upeonet/mtandao/internal/auth/domain"
	"github.com/upeonet/mtandao/internal/auth/password"
	"github.com/upeonet/mtandao/internal/auth/repository"
	"github.com/upeonet/mtandao/internal/auth/service"
	"github.com/upeonet/mtandao/internal/auth/session"
	"github.com/upeonet/mtandao/internal/config"
	"github.com/upeonet/mtandao/internal/ratelimit"
	"go.uber.org/fx"
)

func providePolicy(cfg config.Config) *password.Policy {
	return password.NewPolicy(cfg.Password)
}

// The redis limiter is nil when redis is unconfigured; its methods are
// nil-receiver safe, so the wrapped interface still allows every login.
func provideLimiter(l *ratelimit.LoginLimiter) domain.LoginLimiter {
	return l
}

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(providePolicy),
	fx.Provide(provideLimiter),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
