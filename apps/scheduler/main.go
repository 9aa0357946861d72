package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/audit"
	"github.com/smallbiznis/retailerp/internal/cache"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/customer"
	"github.com/smallbiznis/retailerp/internal/loyalty"
	"github.com/smallbiznis/retailerp/internal/observability"
	"github.com/smallbiznis/retailerp/internal/scheduler"
	"github.com/smallbiznis/retailerp/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,

		// Domain services required by the jobs
		audit.Module,
		customer.Module,
		loyalty.Module,

		// No server module!
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		panic(err)
	}
	return node
}
