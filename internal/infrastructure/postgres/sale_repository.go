package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persiste la cabecera de venta (tabla sales).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, tenant_id, fecha, total, created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.TenantID, &s.Date, &s.Total, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSales(rows pgx.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Create inserta la cabecera. fecha se guarda como día calendario.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, tenant_id, fecha, total, created_at) VALUES ($1, $2, $3::date, $4, $5)`,
		s.ID, s.TenantID, s.Date.Format(entity.DateLayout), s.Total, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera; nil, nil si no existe en el tenant.
func (r *SaleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// Update actualiza fecha y total.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET fecha = $3::date, total = $4 WHERE tenant_id = $1 AND id = $2`,
		s.TenantID, s.ID, s.Date.Format(entity.DateLayout), s.Total,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cabecera (las líneas restantes caen por ON DELETE CASCADE).
func (r *SaleRepo) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant más recientes primero.
func (r *SaleRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list, err := collectSales(rows)
	if err != nil {
		return nil, fmt.Errorf("scan sales: %w", err)
	}
	return list, nil
}

func (r *SaleRepo) Count(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// ListByDateRange ventas con from <= fecha <= to.
func (r *SaleRepo) ListByDateRange(ctx context.Context, tenantID string, from, to time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales
		 WHERE tenant_id = $1 AND fecha BETWEEN $2::date AND $3::date
		 ORDER BY created_at DESC, id DESC`,
		tenantID, from.Format(entity.DateLayout), to.Format(entity.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list sales by date: %w", err)
	}
	list, err := collectSales(rows)
	if err != nil {
		return nil, fmt.Errorf("scan sales: %w", err)
	}
	return list, nil
}
