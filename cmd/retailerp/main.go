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
	"github.com/smallbiznis/retailerp/internal/scheduler"
	"github.com/smallbiznis/retailerp/internal/server"
	"github.com/smallbiznis/retailerp/pkg/db"
	"go.uber.org/fx"
)

// retailerp runs the HTTP API and the scheduled jobs in one process.
func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		invalidation.Module,
		migration.Module,

		// Domains
		audit.Module,
		numbering.Module,
		inventory.Module,
		customer.Module,
		loyalty.Module,
		order.Module,

		server.Module,
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
