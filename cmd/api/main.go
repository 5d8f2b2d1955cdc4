package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Costeo-api/internal/application/costing"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Costeo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/Costeo-api/internal/interfaces/http"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, txRunner, closeStore, err := openStore(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar base de datos")
	}
	defer closeStore()

	// Caché de productos: opcional, solo si REDIS_ADDR está definido.
	redisClient, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché deshabilitada")
	}
	var productCache ports.ProductCache
	if redisClient != nil {
		defer redisClient.Close()
		productCache = cache.NewProductCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	}

	var (
		costingMetrics ports.CostingMetrics
		httpMetrics    *metrics.HTTP
		gatherer       prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		costingMetrics = metrics.NewCosting("costeo", prometheus.DefaultRegisterer)
		httpMetrics = metrics.NewHTTP("costeo", prometheus.DefaultRegisterer)
		gatherer = prometheus.DefaultGatherer
	}

	costingSvc := costing.NewService(costingMetrics, log.Component("costing"))
	ucLog := log.Component("usecase")
	ingredientUC := usecase.NewIngredientUseCase(repos, txRunner, costingSvc, productCache, ucLog)
	productUC := usecase.NewProductUseCase(repos, txRunner, costingSvc, productCache, infrapdf.NewMarotoCostSheetGenerator(cfg.App.Name), ucLog)
	requirementUC := usecase.NewRequirementUseCase(repos, txRunner, ucLog)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	deps := httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		IngredientUC:  ingredientUC,
		ProductUC:     productUC,
		RequirementUC: requirementUC,
		Log:           log.Component("http"),
		Gatherer:      gatherer,
		MetricsPath:   cfg.Metrics.Path,
		SwaggerFile:   cfg.HTTP.SwaggerFile,
	}
	if httpMetrics != nil {
		deps.HTTPMetrics = httpMetrics
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre el almacenamiento según DB_DRIVER y devuelve repositorios, transacciones y cierre.
func openStore(ctx context.Context, cfg config.DBConfig) (ports.Repositories, ports.TxRunner, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return ports.Repositories{}, nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return sqlite.NewRepositories(db), sqlite.NewTxRunner(db), closeFn, nil
	default:
		if cfg.Migrate {
			if err := postgres.Migrate(cfg.ConnectionString()); err != nil {
				return ports.Repositories{}, nil, nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return ports.Repositories{}, nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgres.NewRepositories(pool), postgres.NewTxRunner(pool), pool.Close, nil
	}
}
