package plan

import (
	"github.com/upeonet/mtandao/internal/plan/repository"
	"github.com/upeonet/mtandao/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
