package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/papeleria-api/internal/application/reports"
	"github.com/jhoicas/papeleria-api/internal/application/sales"
	"github.com/jhoicas/papeleria-api/internal/application/usecase"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/alert"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/cache"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/memory"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/papeleria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/papeleria-api/internal/interfaces/http"
	"github.com/jhoicas/papeleria-api/pkg/config"
	"github.com/jhoicas/papeleria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	stockMode, err := sales.ParseStockMode(cfg.Sales.StockMode)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de ventas")
	}
	loc, err := time.LoadLocation(cfg.Sales.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Sales.Timezone).Msg("zona horaria inválida")
	}

	var (
		repos      sales.Repos
		categories repository.CategoryRepository
		txRunner   sales.TxRunner
	)
	switch cfg.App.Storage {
	case "memory":
		store := memory.NewStore()
		repos = sales.Repos{Products: store.Products(), Sales: store.Sales(), LineItems: store.LineItems()}
		categories = store.Categories()
		if cfg.Sales.Transactional {
			log.Warn().Msg("SALES_TRANSACTIONAL se ignora con almacenamiento en memoria")
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.App.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		repos = postgres.SalesRepos(pool)
		categories = postgres.NewCategoryRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Caché del resumen: solo si hay REDIS_URL
	var summaryCache reports.SummaryCache
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		summaryCache = cache.NewRedisSummaryCache(rdb)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	summaryUC := reports.NewSummaryUseCase(
		repos.Products, repos.Sales, repos.LineItems,
		summaryCache, infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		reports.Config{
			LowStockThreshold: cfg.Reports.LowStockThreshold,
			Location:          loc,
			CacheTTL:          time.Duration(cfg.Reports.CacheTTLSeconds) * time.Second,
		},
		log.Component("reports"),
	)

	notifier := alert.Multi{alert.NewLogNotifier(log.Zerolog()), alert.RequestNotifier{}}
	orchestrator := sales.NewOrchestrator(repos, txRunner, session.ContextTenant{}, notifier, sales.Config{
		StockMode:           stockMode,
		VerifyStockOnCreate: cfg.Sales.VerifyStockOnCreate,
		Transactional:       cfg.Sales.Transactional,
		Location:            loc,
	}).
		WithRecorder(appMetrics).
		WithChangeListener(summaryUC).
		WithLogger(log.Component("sales"))

	productUC := usecase.NewProductUseCase(repos.Products, repos.LineItems, summaryUC)
	categoryUC := usecase.NewCategoryUseCase(categories, repos.Products)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Papelería API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpLog := log.Component("http")
	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:      orchestrator,
		Reports:    summaryUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		Metrics:    appMetrics,
		Gatherer:   registry,
		Logger:     &httpLog,
		JWTSecret:  cfg.JWT.Secret,
	})

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
