package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/application/reports"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/memory"
)

const tenant = "t-1"

var today = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return entity.CalendarDay(today).AddDate(0, 0, offset)
}

type seeder struct {
	t     *testing.T
	store *memory.Store
	seq   int
}

func (s *seeder) product(id, name string, stock int) {
	require.NoError(s.t, s.store.Products().Create(context.Background(), &entity.Product{
		ID: id, TenantID: tenant, Name: name, Stock: stock,
	}))
}

// sale crea una venta con fecha today+offset; created_at avanza con cada llamada.
func (s *seeder) sale(offset int, total string, items ...*entity.SaleLineItem) {
	s.seq++
	id := "s-" + string(rune('a'+s.seq))
	ctx := context.Background()
	require.NoError(s.t, s.store.Sales().Create(ctx, &entity.Sale{
		ID: id, TenantID: tenant, Date: day(offset), Total: decimal.RequireFromString(total),
		CreatedAt: today.Add(time.Duration(s.seq) * time.Minute),
	}))
	for i, it := range items {
		it.ID = id + "-" + string(rune('0'+i))
		it.TenantID = tenant
		it.SaleID = id
	}
	require.NoError(s.t, s.store.LineItems().CreateBatch(ctx, items))
}

func li(productID string, qty int) *entity.SaleLineItem {
	return &entity.SaleLineItem{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(1)}
}

func newUseCase(store *memory.Store, cache reports.SummaryCache) *reports.SummaryUseCase {
	return reports.NewSummaryUseCase(store.Products(), store.Sales(), store.LineItems(), cache, nil,
		reports.Config{CacheTTL: time.Minute}, zerolog.Nop()).
		WithClock(func() time.Time { return today })
}

func TestSummary_PeriodsAndLowStock(t *testing.T) {
	store := memory.NewStore()
	s := &seeder{t: t, store: store}
	s.product("p-a", "Cuaderno", 50)
	s.product("p-b", "Lápiz", 3)
	s.product("p-c", "Borrador", 10)
	s.product("p-d", "Regla", 11)

	s.sale(0, "10.00", li("p-a", 1))
	s.sale(-3, "20.00", li("p-a", 1))
	s.sale(-7, "5.00", li("p-a", 1))
	s.sale(-20, "7.50", li("p-a", 1))
	s.sale(-31, "100.00", li("p-a", 1))

	got, err := newUseCase(store, nil).Summary(context.Background(), tenant)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-10", got.Today)
	assert.True(t, decimal.RequireFromString("10.00").Equal(got.SalesToday.Total))
	assert.Equal(t, 1, got.SalesToday.Count)
	assert.True(t, decimal.RequireFromString("35.00").Equal(got.SalesWeek.Total), "hoy-7d es inclusivo")
	assert.True(t, decimal.RequireFromString("42.50").Equal(got.SalesMonth.Total))
	assert.Equal(t, "2024-04-10", got.SalesMonth.From)

	require.Len(t, got.LowStock, 2)
	assert.Equal(t, "p-b", got.LowStock[0].ProductID)
	assert.Equal(t, "p-c", got.LowStock[1].ProductID)
	assert.Equal(t, 4, got.TotalProducts)
}

func TestSummary_BestSellersTopFiveWithDeletedProduct(t *testing.T) {
	store := memory.NewStore()
	s := &seeder{t: t, store: store}
	for _, id := range []string{"p-a", "p-b", "p-c", "p-d", "p-e"} {
		s.product(id, "Producto "+id, 100)
	}
	s.sale(0, "1", li("p-a", 2), li("p-b", 5))
	s.sale(0, "1", li("p-c", 5), li("p-ghost", 9))
	s.sale(0, "1", li("p-d", 1), li("p-e", 3), li("p-a", 2))

	got, err := newUseCase(store, nil).Summary(context.Background(), tenant)
	require.NoError(t, err)

	require.Len(t, got.BestSellers, 5)
	assert.Equal(t, dto.BestSellerDTO{ProductID: "p-ghost", ProductName: reports.DeletedProductLabel, Quantity: 9}, got.BestSellers[0])
	// empate en 5: p-b aparece antes que p-c
	assert.Equal(t, "p-b", got.BestSellers[1].ProductID)
	assert.Equal(t, "p-c", got.BestSellers[2].ProductID)
	assert.Equal(t, "p-a", got.BestSellers[3].ProductID)
	assert.Equal(t, 4, got.BestSellers[3].Quantity)
	assert.Equal(t, "p-e", got.BestSellers[4].ProductID)
}

func TestBestSellers_Empty(t *testing.T) {
	assert.Empty(t, reports.BestSellers(nil, 5))
}

type fakeCache struct {
	stored      map[string]*dto.ReportSummaryDTO
	getErr      error
	invalidated []string
}

func (f *fakeCache) Get(_ context.Context, tenantID string) (*dto.ReportSummaryDTO, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	s, ok := f.stored[tenantID]
	return s, ok, nil
}

func (f *fakeCache) Set(_ context.Context, tenantID string, s *dto.ReportSummaryDTO, _ time.Duration) error {
	f.stored[tenantID] = s
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, tenantID string) error {
	delete(f.stored, tenantID)
	f.invalidated = append(f.invalidated, tenantID)
	return nil
}

func TestSummary_UsesCacheUntilInvalidated(t *testing.T) {
	store := memory.NewStore()
	s := &seeder{t: t, store: store}
	s.product("p-a", "Cuaderno", 50)
	cache := &fakeCache{stored: map[string]*dto.ReportSummaryDTO{}}
	uc := newUseCase(store, cache)

	first, err := uc.Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalProducts)

	s.product("p-b", "Lápiz", 50)
	cached, err := uc.Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.TotalProducts, "sirve desde caché")

	uc.Invalidate(context.Background(), tenant)
	fresh, err := uc.Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TotalProducts)
	assert.Equal(t, []string{tenant}, cache.invalidated)
}

// countHook ejecuta onCount la primera vez que el agregador cuenta productos.
type countHook struct {
	repository.ProductRepository
	onCount func()
}

func (c *countHook) Count(ctx context.Context, tenantID string) (int, error) {
	if c.onCount != nil {
		c.onCount()
		c.onCount = nil
	}
	return c.ProductRepository.Count(ctx, tenantID)
}

// setHook ejecuta beforeSet justo antes de escribir la primera entrada.
type setHook struct {
	*fakeCache
	beforeSet func()
}

func (c *setHook) Set(ctx context.Context, tenantID string, s *dto.ReportSummaryDTO, ttl time.Duration) error {
	if c.beforeSet != nil {
		c.beforeSet()
		c.beforeSet = nil
	}
	return c.fakeCache.Set(ctx, tenantID, s, ttl)
}

func TestSummary_InvalidationDuringComputeIsNotCached(t *testing.T) {
	store := memory.NewStore()
	s := &seeder{t: t, store: store}
	s.product("p-a", "Cuaderno", 50)
	cache := &fakeCache{stored: map[string]*dto.ReportSummaryDTO{}}
	products := &countHook{ProductRepository: store.Products()}
	uc := reports.NewSummaryUseCase(products, store.Sales(), store.LineItems(), cache, nil,
		reports.Config{CacheTTL: time.Minute}, zerolog.Nop()).
		WithClock(func() time.Time { return today })
	products.onCount = func() { uc.Invalidate(context.Background(), tenant) }

	_, err := uc.Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.NotContains(t, cache.stored, tenant, "un resumen calculado antes de la invalidación no se guarda")

	_, err = uc.Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.Contains(t, cache.stored, tenant)
}

func TestSummary_InvalidationRacingSetDropsEntry(t *testing.T) {
	store := memory.NewStore()
	cache := &setHook{fakeCache: &fakeCache{stored: map[string]*dto.ReportSummaryDTO{}}}
	uc := reports.NewSummaryUseCase(store.Products(), store.Sales(), store.LineItems(), cache, nil,
		reports.Config{CacheTTL: time.Minute}, zerolog.Nop()).
		WithClock(func() time.Time { return today })
	// la invalidación borra antes de que el Set escriba
	cache.beforeSet = func() { uc.Invalidate(context.Background(), tenant) }

	_, err := uc.Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.NotContains(t, cache.stored, tenant)
	assert.Equal(t, []string{tenant, tenant}, cache.invalidated)
}

func TestSummary_CacheErrorFallsBackToStore(t *testing.T) {
	store := memory.NewStore()
	cache := &fakeCache{stored: map[string]*dto.ReportSummaryDTO{}, getErr: errors.New("redis caído")}

	got, err := newUseCase(store, cache).Summary(context.Background(), tenant)
	require.NoError(t, err)
	assert.Zero(t, got.TotalProducts)
}

func TestSummaryPDF_WithoutRenderer(t *testing.T) {
	_, err := newUseCase(memory.NewStore(), nil).SummaryPDF(context.Background(), tenant)
	assert.Error(t, err)
}
