// Package reports contiene el agregador de reportes del punto de venta.
package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

const (
	bestSellersTop           = 5
	DefaultLowStockThreshold = 10
	// DeletedProductLabel nombre mostrado cuando el producto vendido ya no existe.
	DeletedProductLabel = "Producto eliminado"
)

// openEnd límite superior de los períodos: "desde X" no tiene fin, incluye fechas futuras.
var openEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Config parámetros del agregador.
type Config struct {
	LowStockThreshold int
	Location          *time.Location
	CacheTTL          time.Duration
}

// SummaryUseCase calcula el resumen: ventas de hoy, 7 y 30 días, más vendidos,
// stock bajo y total de productos.
type SummaryUseCase struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	lineItems repository.SaleLineItemRepository
	cache     SummaryCache
	pdf       PDFRenderer
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time

	// generaciones por tenant: Invalidate la incrementa y Summary no deja en caché un
	// resumen calculado con una generación vieja. Solo cubre este proceso; entre
	// réplicas queda la ventana del TTL.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewSummaryUseCase construye el caso de uso. cache y pdf pueden ser nil.
func NewSummaryUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	lineItems repository.SaleLineItemRepository,
	cache SummaryCache,
	pdf PDFRenderer,
	cfg Config,
	log zerolog.Logger,
) *SummaryUseCase {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultLowStockThreshold
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &SummaryUseCase{
		products:  products,
		sales:     sales,
		lineItems: lineItems,
		cache:     cache,
		pdf:       pdf,
		cfg:       cfg,
		log:       log.With().Str("component", "reports").Logger(),
		now:       time.Now,
		gens:      make(map[string]uint64),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SummaryUseCase) WithClock(now func() time.Time) *SummaryUseCase {
	uc.now = now
	return uc
}

// Summary devuelve el resumen del tenant, desde caché si hay una entrada vigente.
func (uc *SummaryUseCase) Summary(ctx context.Context, tenantID string) (*dto.ReportSummaryDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, tenantID)
		if err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("reportes: caché no disponible")
		} else if ok {
			return cached, nil
		}
	}

	gen := uc.generation(tenantID)
	summary, err := uc.compute(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && uc.cfg.CacheTTL > 0 {
		uc.store(ctx, tenantID, gen, summary)
	}
	return summary, nil
}

// store guarda el resumen salvo que una invalidación haya ocurrido durante el cálculo.
// La segunda comprobación cubre la invalidación que cae entre la primera y el Set.
func (uc *SummaryUseCase) store(ctx context.Context, tenantID string, gen uint64, summary *dto.ReportSummaryDTO) {
	if uc.generation(tenantID) != gen {
		return
	}
	if err := uc.cache.Set(ctx, tenantID, summary, uc.cfg.CacheTTL); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("reportes: no se pudo guardar en caché")
		return
	}
	if uc.generation(tenantID) != gen {
		uc.dropCached(ctx, tenantID)
	}
}

func (uc *SummaryUseCase) generation(tenantID string) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.gens[tenantID]
}

// SummaryPDF genera el PDF del resumen.
func (uc *SummaryUseCase) SummaryPDF(ctx context.Context, tenantID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("reportes: generador PDF no configurado")
	}
	summary, err := uc.Summary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RenderSummary(ctx, summary)
}

// Invalidate descarta el resumen cacheado del tenant. Se llama tras cada cambio de ventas o productos.
func (uc *SummaryUseCase) Invalidate(ctx context.Context, tenantID string) {
	uc.mu.Lock()
	uc.gens[tenantID]++
	uc.mu.Unlock()
	if uc.cache == nil {
		return
	}
	uc.dropCached(ctx, tenantID)
}

func (uc *SummaryUseCase) dropCached(ctx context.Context, tenantID string) {
	if err := uc.cache.Invalidate(ctx, tenantID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("reportes: no se pudo invalidar la caché")
	}
}

// compute lanza las seis lecturas en paralelo:
//  1. ventas de hoy          (fecha == hoy)
//  2. ventas de la semana    (fecha >= hoy-7d)
//  3. ventas del mes         (fecha >= hoy-30d)
//  4. todas las líneas       → más vendidos
//  5. stock bajo             (stock <= umbral)
//  6. total de productos
func (uc *SummaryUseCase) compute(ctx context.Context, tenantID string) (*dto.ReportSummaryDTO, error) {
	now := uc.now()
	today := entity.CalendarDay(now.In(uc.cfg.Location))
	weekFrom := today.AddDate(0, 0, -7)
	monthFrom := today.AddDate(0, 0, -30)

	var (
		todaySales, weekSales, monthSales []*entity.Sale
		items                             []*entity.SaleLineItem
		lowStock                          []*entity.Product
		productCount                      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		todaySales, err = uc.sales.ListByDateRange(gctx, tenantID, today, today)
		return wrap("ventas de hoy", err)
	})
	g.Go(func() (err error) {
		weekSales, err = uc.sales.ListByDateRange(gctx, tenantID, weekFrom, openEnd)
		return wrap("ventas de la semana", err)
	})
	g.Go(func() (err error) {
		monthSales, err = uc.sales.ListByDateRange(gctx, tenantID, monthFrom, openEnd)
		return wrap("ventas del mes", err)
	})
	g.Go(func() (err error) {
		items, err = uc.lineItems.ListByTenant(gctx, tenantID)
		return wrap("detalle de ventas", err)
	})
	g.Go(func() (err error) {
		lowStock, err = uc.products.ListLowStock(gctx, tenantID, uc.cfg.LowStockThreshold)
		return wrap("stock bajo", err)
	})
	g.Go(func() (err error) {
		productCount, err = uc.products.Count(gctx, tenantID)
		return wrap("total de productos", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bestSellers, err := uc.resolveNames(ctx, tenantID, BestSellers(items, bestSellersTop))
	if err != nil {
		return nil, err
	}

	low := make([]dto.LowStockDTO, 0, len(lowStock))
	for _, p := range lowStock {
		low = append(low, dto.LowStockDTO{ProductID: p.ID, Name: p.Name, Stock: p.Stock})
	}

	return &dto.ReportSummaryDTO{
		Today:             today.Format(entity.DateLayout),
		SalesToday:        periodTotal(today, todaySales),
		SalesWeek:         periodTotal(weekFrom, weekSales),
		SalesMonth:        periodTotal(monthFrom, monthSales),
		BestSellers:       bestSellers,
		LowStock:          low,
		LowStockThreshold: uc.cfg.LowStockThreshold,
		TotalProducts:     productCount,
		GeneratedAt:       now,
	}, nil
}

// resolveNames busca el nombre de cada producto en paralelo.
func (uc *SummaryUseCase) resolveNames(ctx context.Context, tenantID string, top []dto.BestSellerDTO) ([]dto.BestSellerDTO, error) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range top {
		i := i
		g.Go(func() error {
			p, err := uc.products.GetByID(gctx, tenantID, top[i].ProductID)
			if err != nil {
				return wrap("nombre de producto", err)
			}
			if p == nil {
				top[i].ProductName = DeletedProductLabel
			} else {
				top[i].ProductName = p.Name
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return top, nil
}

// BestSellers agrupa las líneas por producto, suma cantidades y devuelve los n primeros
// en orden descendente. Los empates conservan el orden de primera aparición.
func BestSellers(items []*entity.SaleLineItem, n int) []dto.BestSellerDTO {
	index := make(map[string]int)
	agg := make([]dto.BestSellerDTO, 0)
	for _, it := range items {
		i, ok := index[it.ProductID]
		if !ok {
			i = len(agg)
			index[it.ProductID] = i
			agg = append(agg, dto.BestSellerDTO{ProductID: it.ProductID})
		}
		agg[i].Quantity += it.Quantity
	}
	sort.SliceStable(agg, func(i, j int) bool { return agg[i].Quantity > agg[j].Quantity })
	if len(agg) > n {
		agg = agg[:n]
	}
	return agg
}

func periodTotal(from time.Time, list []*entity.Sale) dto.PeriodTotalDTO {
	total := decimal.Zero
	for _, s := range list {
		total = total.Add(s.Total)
	}
	return dto.PeriodTotalDTO{From: from.Format(entity.DateLayout), Total: total, Count: len(list)}
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("reportes: %s: %w", what, err)
	}
	return nil
}
