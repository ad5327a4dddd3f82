package device

import (
	"github.com/upeonet/mtandao/internal/device/repository"
	"github.com/upeonet/mtandao/internal/device/service"
	"go.uber.org/fx"
)

var Module = fx.Module("device.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
