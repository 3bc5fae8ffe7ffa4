//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vms-server/services/report-api/internal/config"
	"vms-server/services/report-api/internal/domain/desk"
	"vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/infrastructure/analytics"
	"vms-server/services/report-api/internal/infrastructure/auth"
	"vms-server/services/report-api/internal/infrastructure/database"
	"vms-server/services/report-api/internal/infrastructure/logger"
	"vms-server/services/report-api/internal/infrastructure/render"
	cacherepo "vms-server/services/report-api/internal/infrastructure/repository/cache"
	deskrepo "vms-server/services/report-api/internal/infrastructure/repository/desk"
	reportrepo "vms-server/services/report-api/internal/infrastructure/repository/report"
	"vms-server/services/report-api/internal/infrastructure/sweeper"
	"vms-server/services/report-api/internal/interfaces/httpserver"
)

var reportSet = wire.NewSet(
	reportrepo.NewRepository,
	wire.Bind(new(report.Repository), new(*reportrepo.Repository)),
	cacherepo.NewRepository,
	wire.Bind(new(report.Cache), new(*cacherepo.Repository)),
	provideAnalyticsSource,
	wire.Bind(new(report.AnalyticsSource), new(*analytics.Source)),
	render.NewRenderer,
	wire.Bind(new(report.Renderer), new(*render.Renderer)),
	provideStorage,
	report.NewService,
)

var deskSet = wire.NewSet(
	deskrepo.NewRepository,
	wire.Bind(new(desk.Repository), new(*deskrepo.Repository)),
	desk.NewService,
)

// BuildApplication assembles the report API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		reportSet,
		deskSet,
		provideSweeper,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

// provideAnalyticsSource opens the read-only pool owned by the
// surveillance platform; it must never share the application DB.
func provideAnalyticsSource(cfg *config.Config) (*analytics.Source, error) {
	db, err := database.Connect(database.Config{
		DSN:             cfg.AnalyticsDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
		ReadOnly:        true,
	})
	if err != nil {
		return nil, err
	}
	return analytics.NewSource(db), nil
}

func provideSweeper(cfg *config.Config, repo report.Repository, cache report.Cache, log zerolog.Logger) *sweeper.Sweeper {
	return sweeper.NewSweeper(repo, cache, cfg.SweepInterval, log)
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DBPostgresqlWriteDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}
