package payment

import (
	"github.com/upeonet/mtandao/internal/payment/repository"
	"github.com/upeonet/mtandao/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
