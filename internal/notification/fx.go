package notification

import (
	"github.com/upeonet/mtandao/internal/notification/repository"
	"github.com/upeonet/mtandao/internal/notification/service"
	"github.com/upeonet/mtandao/internal/notification/sms"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(sms.NewClient),
	fx.Provide(service.New),
)
