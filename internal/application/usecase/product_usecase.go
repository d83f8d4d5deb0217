package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// ChangeListener recibe aviso cuando cambian datos que alimentan los reportes.
type ChangeListener interface {
	Invalidate(ctx context.Context, tenantID string)
}

// ProductUseCase casos de uso CRUD para productos. El stock se fija al crear y se
// corrige con Update (reabastecimiento manual); las ventas lo ajustan vía el ledger.
type ProductUseCase struct {
	repo      repository.ProductRepository
	lineItems repository.SaleLineItemRepository
	listeners []ChangeListener
}

// NewProductUseCase construye el caso de uso. lineItems bloquea el borrado de
// productos vendidos.
func NewProductUseCase(repo repository.ProductRepository, lineItems repository.SaleLineItemRepository, listeners ...ChangeListener) *ProductUseCase {
	return &ProductUseCase{repo: repo, lineItems: lineItems, listeners: listeners}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.NewValidationError("stock", "no puede ser negativo")
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.changed(ctx, tenantID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. nil, nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. nil, nil si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "requerido")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.NewValidationError("stock", "no puede ser negativo")
		}
		product.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.changed(ctx, tenantID)
	return toProductResponse(product), nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page = page.Normalized()
	list, err := uc.repo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page, total),
	}, nil
}

// Delete elimina un producto; domain.ErrConflict mientras alguna venta lo incluya,
// porque editar o anular esa venta repone su stock.
func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, id string) error {
	n, err := uc.lineItems.CountByProduct(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	uc.changed(ctx, tenantID)
	return nil
}

func (uc *ProductUseCase) changed(ctx context.Context, tenantID string) {
	for _, l := range uc.listeners {
		l.Invalidate(ctx, tenantID)
	}
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	if !p.Equal(p.Round(2)) {
		return domain.NewValidationError("price", "máximo dos decimales")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
