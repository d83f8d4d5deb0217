package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// HeaderRecorder persiste la cabecera (fecha y total) de una venta.
type HeaderRecorder struct {
	sales repository.SaleRepository
}

// NewHeaderRecorder construye el recorder.
func NewHeaderRecorder(sales repository.SaleRepository) *HeaderRecorder {
	return &HeaderRecorder{sales: sales}
}

// InsertHeader crea la cabecera; asigna ID si viene vacío.
func (h *HeaderRecorder) InsertHeader(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if err := h.sales.Create(ctx, sale); err != nil {
		return fmt.Errorf("insertar venta: %w", err)
	}
	return nil
}

// GetHeader devuelve la cabecera o domain.ErrNotFound si no pertenece al tenant.
func (h *HeaderRecorder) GetHeader(ctx context.Context, tenantID, saleID string) (*entity.Sale, error) {
	sale, err := h.sales.GetByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// UpdateHeader actualiza fecha y total.
func (h *HeaderRecorder) UpdateHeader(ctx context.Context, sale *entity.Sale) error {
	if err := h.sales.Update(ctx, sale); err != nil {
		return fmt.Errorf("actualizar venta: %w", err)
	}
	return nil
}

// DeleteHeader elimina la cabecera.
func (h *HeaderRecorder) DeleteHeader(ctx context.Context, tenantID, saleID string) error {
	if err := h.sales.Delete(ctx, tenantID, saleID); err != nil {
		return fmt.Errorf("eliminar venta: %w", err)
	}
	return nil
}
