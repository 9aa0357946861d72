package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/audit"
	"github.com/smallbiznis/retailerp/internal/cache"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/customer"
	"github.com/smallbiznis/retailerp/internal/invalidation"
	"github.com/smallbiznis/retailerp/internal/inventory"
	"github.com/smallbiznis/retailerp/internal/loyalty"
	"github.com/smallbiznis/retailerp/internal/migration"
	"github.com/smallbiznis/retailerp/internal/numbering"
	"github.com/smallbiznis/retailerp/internal/observability"
	"github.com/smallbiznis/retailerp/internal/order"
	"github.com/smallbiznis/retailerp/internal/server"
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
		invalidation.Module,
		migration.Module,

		// Checkout path and back office
		audit.Module,
		numbering.Module,
		inventory.Module,
		customer.Module,
		loyalty.Module,
		order.Module,

		// No scheduler here; apps/scheduler owns the jobs.
		server.Module,
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
