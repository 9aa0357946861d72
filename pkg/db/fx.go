package db

import (
	"context"

	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the configured database with tracing and pool metrics attached.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dbCfg := ConfigFrom(cfg)
	dialector, err := Dialect(dbCfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(logger.DefaultGormLoggerConfig()),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbCfg.Name))); err != nil {
		return nil, err
	}
	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          dbCfg.Name,
		RefreshInterval: 15,
		StartServer:     false,
	})); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if dbCfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConn)
	}
	if dbCfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConn)
	}
	if dbCfg.Type == TypeSQLite {
		// sqlite allows one writer at a time.
		sqlDB.SetMaxOpenConns(1)
	}
	if dbCfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}
	if dbCfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(dbCfg.ConnMaxIdleTime)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("closing database connection")
			return sqlDB.Close()
		},
	})

	log.Info("database connected",
		zap.String("type", dbCfg.Type),
		zap.String("host", dbCfg.Host),
		zap.String("name", dbCfg.Name),
	)
	return conn, nil
}
