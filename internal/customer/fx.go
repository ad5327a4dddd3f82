package customer

import (
	"github.com/upeonet/mtandao/internal/customer/repository"
	"github.com/upeonet/mtandao/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
