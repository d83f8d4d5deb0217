package repository

import (
	"context"
	"time"

	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para la cabecera de venta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve nil, nil si la venta no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	// Update actualiza fecha y total. domain.ErrNotFound si no existe.
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, tenantID, id string) error
	// ListByTenant ordena por created_at descendente.
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Sale, error)
	Count(ctx context.Context, tenantID string) (int, error)
	// ListByDateRange devuelve ventas con from <= fecha <= to (días calendario).
	ListByDateRange(ctx context.Context, tenantID string, from, to time.Time) ([]*entity.Sale, error)
}
