package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// GetSale devuelve la venta con su detalle. domain.ErrNotFound si no pertenece al tenant.
func (o *Orchestrator) GetSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	tenantID, err := o.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	sale, err := NewHeaderRecorder(o.repos.Sales).GetHeader(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	items, err := NewLineItemRecorder(o.repos.LineItems).ListLineItems(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

// ListSales lista cabeceras del tenant (más recientes primero) y el total de ventas.
func (o *Orchestrator) ListSales(ctx context.Context, page dto.PageRequest) ([]*entity.Sale, int, error) {
	tenantID, err := o.tenantID(ctx)
	if err != nil {
		return nil, 0, err
	}
	page = page.Normalized()
	list, err := o.repos.Sales.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listar ventas: %w", err)
	}
	total, err := o.repos.Sales.Count(ctx, tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("contar ventas: %w", err)
	}
	return list, total, nil
}

// ToResponse arma la respuesta resolviendo el nombre de cada producto.
// Un producto borrado aparece sin nombre.
func (o *Orchestrator) ToResponse(ctx context.Context, sale *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:        sale.ID,
		Date:      sale.Date.Format(entity.DateLayout),
		Total:     sale.Total,
		CreatedAt: sale.CreatedAt,
		Items:     make([]dto.SaleItemResponse, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		item := dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		}
		if p, err := o.repos.Products.GetByID(ctx, sale.TenantID, it.ProductID); err == nil && p != nil {
			item.ProductName = p.Name
		}
		out.Items = append(out.Items, item)
	}
	return out
}
