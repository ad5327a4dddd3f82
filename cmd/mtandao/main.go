package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/config"
	"github.com/upeonet/mtandao/internal/logger"
	"github.com/upeonet/mtandao/internal/server"
	"github.com/upeonet/mtandao/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
