package repository

import (
	"context"

	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las operaciones están acotadas al tenant indicado.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, tenantID, id string) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve productos con stock <= threshold ordenados por stock ascendente.
	ListLowStock(ctx context.Context, tenantID string, threshold int) ([]*entity.Product, error)
	Count(ctx context.Context, tenantID string) (int, error)
	CountByCategory(ctx context.Context, tenantID, categoryID string) (int, error)

	// GetStock y SetStock devuelven domain.ErrNotFound si el producto no existe en el tenant.
	GetStock(ctx context.Context, tenantID, id string) (int, error)
	SetStock(ctx context.Context, tenantID, id string, stock int) error
	// AddStock suma delta en una sola sentencia y devuelve el stock resultante.
	AddStock(ctx context.Context, tenantID, id string, delta int) (int, error)
}
