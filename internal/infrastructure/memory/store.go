// Package memory implementa los repositorios en memoria (APP_STORAGE=memory y tests).
// Cada llamada es atómica por sí sola; no hay transacciones entre llamadas.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// Store guarda productos, categorías, ventas y líneas detrás de un único mutex.
type Store struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	sales      map[string]*entity.Sale
	lineItems  []*entity.SaleLineItem
	writes     int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		sales:      make(map[string]*entity.Sale),
	}
}

// Writes devuelve el número de escrituras aceptadas desde la creación.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Categories devuelve el repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Sales devuelve el repositorio de cabeceras de venta.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// LineItems devuelve el repositorio de líneas de venta.
func (s *Store) LineItems() *LineItemRepo { return &LineItemRepo{s: s} }

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneSale(v *entity.Sale) *entity.Sale {
	c := *v
	c.Items = nil
	return &c
}

func cloneItem(it *entity.SaleLineItem) *entity.SaleLineItem {
	c := *it
	return &c
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

// ── productos ─────────────────────────────────────────────────────────────────

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = cloneProduct(p)
	r.s.writes++
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.TenantID != p.TenantID {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = cloneProduct(p)
	r.s.writes++
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[id]
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	for _, it := range r.s.lineItems {
		if it.TenantID == tenantID && it.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.products, id)
	r.s.writes++
	return nil
}

func (r *ProductRepo) tenantProducts(tenantID string) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.tenantProducts(tenantID)
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *ProductRepo) ListLowStock(ctx context.Context, tenantID string, threshold int) ([]*entity.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0)
	for _, p := range r.tenantProducts(tenantID) {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ProductRepo) Count(ctx context.Context, tenantID string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.tenantProducts(tenantID)), nil
}

func (r *ProductRepo) CountByCategory(ctx context.Context, tenantID, categoryID string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepo) GetStock(ctx context.Context, tenantID, id string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return 0, domain.ErrNotFound
	}
	return p.Stock, nil
}

func (r *ProductRepo) SetStock(ctx context.Context, tenantID, id string, stock int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	r.s.writes++
	return nil
}

func (r *ProductRepo) AddStock(ctx context.Context, tenantID, id string, delta int) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return 0, domain.ErrNotFound
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	r.s.writes++
	return p.Stock, nil
}

// ── categorías ────────────────────────────────────────────────────────────────

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct{ s *Store }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.categories {
		if cur.TenantID == c.TenantID && cur.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	r.s.writes++
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Category, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0)
	for _, c := range r.s.categories {
		if c.TenantID == tenantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, tenantID, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	r.s.writes++
	return nil
}

// ── ventas ────────────────────────────────────────────────────────────────────

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ s *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, v *entity.Sale) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[v.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sales[v.ID] = cloneSale(v)
	r.s.writes++
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.sales[id]
	if !ok || v.TenantID != tenantID {
		return nil, nil
	}
	return cloneSale(v), nil
}

func (r *SaleRepo) Update(ctx context.Context, v *entity.Sale) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sales[v.ID]
	if !ok || cur.TenantID != v.TenantID {
		return domain.ErrNotFound
	}
	cur.Date = v.Date
	cur.Total = v.Total
	r.s.writes++
	return nil
}

// Delete elimina la cabecera y, como el ON DELETE CASCADE de postgres, sus líneas.
func (r *SaleRepo) Delete(ctx context.Context, tenantID, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sales[id]
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.sales, id)
	kept := r.s.lineItems[:0]
	for _, it := range r.s.lineItems {
		if it.SaleID != id {
			kept = append(kept, it)
		}
	}
	r.s.lineItems = kept
	r.s.writes++
	return nil
}

func (r *SaleRepo) tenantSales(tenantID string) []*entity.Sale {
	out := make([]*entity.Sale, 0)
	for _, v := range r.s.sales {
		if v.TenantID == tenantID {
			out = append(out, cloneSale(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *SaleRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Sale, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.tenantSales(tenantID), limit, offset), nil
}

func (r *SaleRepo) Count(ctx context.Context, tenantID string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.tenantSales(tenantID)), nil
}

func (r *SaleRepo) ListByDateRange(ctx context.Context, tenantID string, from, to time.Time) ([]*entity.Sale, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fromKey, toKey := from.Format(entity.DateLayout), to.Format(entity.DateLayout)
	out := make([]*entity.Sale, 0)
	for _, v := range r.tenantSales(tenantID) {
		key := v.Date.Format(entity.DateLayout)
		if key >= fromKey && key <= toKey {
			out = append(out, v)
		}
	}
	return out, nil
}

// ── líneas de venta ───────────────────────────────────────────────────────────

// LineItemRepo implementa repository.SaleLineItemRepository.
type LineItemRepo struct{ s *Store }

var _ repository.SaleLineItemRepository = (*LineItemRepo)(nil)

// CreateBatch inserta todas las líneas o ninguna.
func (r *LineItemRepo) CreateBatch(ctx context.Context, items []*entity.SaleLineItem) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		if _, ok := r.s.sales[it.SaleID]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, it := range items {
		r.s.lineItems = append(r.s.lineItems, cloneItem(it))
	}
	r.s.writes++
	return nil
}

func (r *LineItemRepo) ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.SaleLineItem, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.SaleLineItem, 0)
	for _, it := range r.s.lineItems {
		if it.TenantID == tenantID && it.SaleID == saleID {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *LineItemRepo) DeleteBySale(ctx context.Context, tenantID, saleID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.lineItems[:0]
	for _, it := range r.s.lineItems {
		if !(it.TenantID == tenantID && it.SaleID == saleID) {
			kept = append(kept, it)
		}
	}
	r.s.lineItems = kept
	r.s.writes++
	return nil
}

func (r *LineItemRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.SaleLineItem, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order := make(map[string]time.Time, len(r.s.sales))
	for id, v := range r.s.sales {
		order[id] = v.CreatedAt
	}
	out := make([]*entity.SaleLineItem, 0)
	for _, it := range r.s.lineItems {
		if it.TenantID == tenantID {
			out = append(out, cloneItem(it))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].SaleID].Before(order[out[j].SaleID])
	})
	return out, nil
}

func (r *LineItemRepo) CountByProduct(ctx context.Context, tenantID, productID string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, it := range r.s.lineItems {
		if it.TenantID == tenantID && it.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
