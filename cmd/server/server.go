package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"vms-server/services/report-api/internal/config"
	"vms-server/services/report-api/internal/domain/desk"
	"vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/infrastructure/analytics"
	"vms-server/services/report-api/internal/infrastructure/auth"
	"vms-server/services/report-api/internal/infrastructure/database"
	"vms-server/services/report-api/internal/infrastructure/logger"
	"vms-server/services/report-api/internal/infrastructure/observability"
	"vms-server/services/report-api/internal/infrastructure/render"
	cacherepo "vms-server/services/report-api/internal/infrastructure/repository/cache"
	deskrepo "vms-server/services/report-api/internal/infrastructure/repository/desk"
	reportrepo "vms-server/services/report-api/internal/infrastructure/repository/report"
	"vms-server/services/report-api/internal/infrastructure/storage"
	"vms-server/services/report-api/internal/infrastructure/sweeper"
	"vms-server/services/report-api/internal/interfaces/httpserver"
)

// @title Report API
// @version 1.0
// @description Surveillance report generation service
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	sweeper    *sweeper.Sweeper
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, sw *sweeper.Sweeper, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		sweeper:    sw,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	go a.sweeper.Start(ctx)
	defer a.sweeper.Stop()
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	appDB, err := database.Connect(database.Config{
		DSN:             cfg.DBPostgresqlWriteDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect application database")
	}

	if err := database.AutoMigrate(ctx, appDB, log); err != nil {
		log.Fatal().Err(err).Msg("migrate application database")
	}

	// The analytics pool is owned by the surveillance platform; it is
	// never migrated from here.
	analyticsDB, err := database.Connect(database.Config{
		DSN:             cfg.AnalyticsDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
		ReadOnly:        true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect analytics database")
	}

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	reportRepository := reportrepo.NewRepository(appDB)
	cacheRepository := cacherepo.NewRepository(appDB)
	deskRepository := deskrepo.NewRepository(appDB)
	analyticsSource := analytics.NewSource(analyticsDB)
	renderer := render.NewRenderer()

	reportService := report.NewService(cfg, reportRepository, cacheRepository, analyticsSource, storageClient, renderer, log)
	deskService := desk.NewService(deskRepository, log)

	retentionSweeper := sweeper.NewSweeper(reportRepository, cacheRepository, cfg.SweepInterval, log)

	httpServer := httpserver.New(cfg, log, reportService, deskService, authValidator)
	app := NewApplication(httpServer, retentionSweeper, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// provideStorage creates the appropriate storage backend based on configuration.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (report.Storage, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
