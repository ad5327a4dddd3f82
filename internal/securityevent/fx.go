package securityevent

import (
	"github.com/upeonet/mtandao/internal/securityevent/service"
	"go.uber.org/fx"
)

var Module = fx.Module("securityevent.service",
	fx.Provide(service.New),
)
