package repository

import (
	"context"

	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// SaleLineItemRepository define el puerto de persistencia para las líneas de venta.
type SaleLineItemRepository interface {
	// CreateBatch inserta el conjunto completo en una sola llamada.
	CreateBatch(ctx context.Context, items []*entity.SaleLineItem) error
	// ListBySale respeta el orden de inserción.
	ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.SaleLineItem, error)
	DeleteBySale(ctx context.Context, tenantID, saleID string) error
	// ListByTenant devuelve todas las líneas del tenant ordenadas por created_at de la venta y luego por orden de inserción.
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.SaleLineItem, error)
	// CountByProduct líneas del tenant que referencian el producto.
	CountByProduct(ctx context.Context, tenantID, productID string) (int, error)
}
