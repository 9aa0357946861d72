package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := Migrate(conn, cfg.DBType); err != nil {
			return err
		}
		if err := seed.EnsureDefaults(context.Background(), conn, node); err != nil {
			return err
		}
		log.Named("migrations").Info("schema ready", zap.String("db_type", cfg.DBType))
		return nil
	}),
)
