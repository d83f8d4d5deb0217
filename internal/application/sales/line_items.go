package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// LineItemRecorder persiste y elimina el conjunto de líneas de una venta.
// Las líneas siempre se reemplazan como conjunto completo.
type LineItemRecorder struct {
	items repository.SaleLineItemRepository
}

// NewLineItemRecorder construye el recorder.
func NewLineItemRecorder(items repository.SaleLineItemRepository) *LineItemRecorder {
	return &LineItemRecorder{items: items}
}

// InsertLineItems inserta el conjunto para saleID, asignando ID, tenant y venta a cada línea.
func (r *LineItemRecorder) InsertLineItems(ctx context.Context, tenantID, saleID string, items []*entity.SaleLineItem) error {
	for _, it := range items {
		it.ID = uuid.New().String()
		it.TenantID = tenantID
		it.SaleID = saleID
	}
	if err := r.items.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("insertar detalle de venta: %w", err)
	}
	return nil
}

// ReplaceLineItems borra las líneas existentes y luego inserta las nuevas.
// No es atómico: si falla la inserción la venta queda sin líneas.
func (r *LineItemRecorder) ReplaceLineItems(ctx context.Context, tenantID, saleID string, items []*entity.SaleLineItem) error {
	if err := r.DeleteLineItems(ctx, tenantID, saleID); err != nil {
		return err
	}
	return r.InsertLineItems(ctx, tenantID, saleID, items)
}

// ListLineItems devuelve las líneas de la venta.
func (r *LineItemRecorder) ListLineItems(ctx context.Context, tenantID, saleID string) ([]*entity.SaleLineItem, error) {
	items, err := r.items.ListBySale(ctx, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar detalle de venta: %w", err)
	}
	return items, nil
}

// DeleteLineItems elimina todas las líneas de la venta.
func (r *LineItemRecorder) DeleteLineItems(ctx context.Context, tenantID, saleID string) error {
	if err := r.items.DeleteBySale(ctx, tenantID, saleID); err != nil {
		return fmt.Errorf("eliminar detalle de venta: %w", err)
	}
	return nil
}
