package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/papeleria-api/internal/application/reports"
	"github.com/jhoicas/papeleria-api/internal/application/sales"
	"github.com/jhoicas/papeleria-api/internal/application/usecase"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales      *sales.Orchestrator
	Reports    *reports.SummaryUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	Metrics    *metrics.Metrics    // opcional
	Gatherer   prometheus.Gatherer // opcional: expone /metrics
	Logger     *zerolog.Logger     // opcional: log de peticiones
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		app.Use(RequestLogger(*deps.Logger))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), AlertsMiddleware())
	anyRole := RequireRole(RoleAdmin, RoleVendedor)
	adminOnly := RequireRole(RoleAdmin)

	// Ventas
	salesGroup := api.Group("/sales", anyRole)
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Delete)

	// Productos: lectura para todos, escritura solo admin
	products := api.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categorías
	categories := api.Group("/categories", anyRole)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Reportes
	reportsGroup := api.Group("/reports", anyRole)
	reportHandler := NewReportHandler(deps.Reports)
	reportsGroup.Get("/summary", reportHandler.Summary)
	reportsGroup.Get("/summary.pdf", reportHandler.SummaryPDF)
}
