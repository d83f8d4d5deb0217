package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

var _ repository.SaleLineItemRepository = (*SaleLineItemRepo)(nil)

// SaleLineItemRepo persiste el detalle de venta (tabla sale_line_items).
type SaleLineItemRepo struct {
	q Querier
}

// NewSaleLineItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleLineItemRepository(q Querier) *SaleLineItemRepo {
	return &SaleLineItemRepo{q: q}
}

// CreateBatch inserta todas las líneas en un solo INSERT multi-fila: entran todas o ninguna.
func (r *SaleLineItemRepo) CreateBatch(ctx context.Context, items []*entity.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO sale_line_items (id, tenant_id, sale_id, producto_id, cantidad, precio_unitario) VALUES `)
	args := make([]any, 0, len(items)*6)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, it.ID, it.TenantID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice)
	}
	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert sale line items: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert sale line items: %w", err)
	}
	return nil
}

func scanLineItems(rows pgx.Rows) ([]*entity.SaleLineItem, error) {
	defer rows.Close()
	var list []*entity.SaleLineItem
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(&it.ID, &it.TenantID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *SaleLineItemRepo) ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.SaleLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, sale_id, producto_id, cantidad, precio_unitario
		FROM sale_line_items WHERE tenant_id = $1 AND sale_id = $2 ORDER BY seq`,
		tenantID, saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sale line items: %w", err)
	}
	list, err := scanLineItems(rows)
	if err != nil {
		return nil, fmt.Errorf("scan sale line items: %w", err)
	}
	return list, nil
}

func (r *SaleLineItemRepo) DeleteBySale(ctx context.Context, tenantID, saleID string) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM sale_line_items WHERE tenant_id = $1 AND sale_id = $2`, tenantID, saleID,
	); err != nil {
		return fmt.Errorf("delete sale line items: %w", err)
	}
	return nil
}

// ListByTenant todas las líneas del tenant en orden de venta (created_at) y de inserción.
func (r *SaleLineItemRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.SaleLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT li.id, li.tenant_id, li.sale_id, li.producto_id, li.cantidad, li.precio_unitario
		FROM sale_line_items li
		JOIN sales s ON s.id = li.sale_id
		WHERE li.tenant_id = $1
		ORDER BY s.created_at, li.seq`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tenant line items: %w", err)
	}
	list, err := scanLineItems(rows)
	if err != nil {
		return nil, fmt.Errorf("scan tenant line items: %w", err)
	}
	return list, nil
}

// CountByProduct líneas del tenant que referencian el producto.
func (r *SaleLineItemRepo) CountByProduct(ctx context.Context, tenantID, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sale_line_items WHERE tenant_id = $1 AND producto_id = $2`, tenantID, productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count line items by product: %w", err)
	}
	return n, nil
}
