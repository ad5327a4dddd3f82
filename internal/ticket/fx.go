package ticket

import (
	"github.com/upeonet/mtandao/internal/ticket/repository"
	"github.com/upeonet/mtandao/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
