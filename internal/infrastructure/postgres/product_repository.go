package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, nombre, descripcion, precio, stock, COALESCE(categoria_id, ''), created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, nombre, descripcion, precio, stock, categoria_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.Name, p.Description, p.Price, p.Stock, nullableID(p.CategoryID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("category_id", "la categoría no existe")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID dentro del tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza datos y stock del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET nombre = $3, descripcion = $4, precio = $5, stock = $6, categoria_id = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.TenantID, p.ID, p.Name, p.Description, p.Price, p.Stock, nullableID(p.CategoryID), p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("category_id", "la categoría no existe")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. domain.ErrConflict si alguna venta lo referencia.
func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista productos del tenant por nombre con paginación.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY nombre, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	return list, nil
}

// ListLowStock productos con stock <= threshold, menor stock primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, tenantID string, threshold int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND stock <= $2 ORDER BY stock, nombre`
	rows, err := r.q.Query(ctx, query, tenantID, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("scan low stock: %w", err)
	}
	return list, nil
}

// Count total de productos del tenant.
func (r *ProductRepo) Count(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountByCategory productos que referencian la categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, tenantID, categoryID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE tenant_id = $1 AND categoria_id = $2`, tenantID, categoryID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// GetStock lee el contador de stock.
func (r *ProductRepo) GetStock(ctx context.Context, tenantID, id string) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `SELECT stock FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return stock, nil
}

// SetStock escribe el contador con el valor calculado por quien llama.
func (r *ProductRepo) SetStock(ctx context.Context, tenantID, id string, stock int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`, tenantID, id, stock,
	)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddStock suma delta en una sola sentencia y devuelve el resultado.
func (r *ProductRepo) AddStock(ctx context.Context, tenantID, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock + $3, updated_at = now() WHERE tenant_id = $1 AND id = $2 RETURNING stock`,
		tenantID, id, delta,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("add stock: %w", err)
	}
	return stock, nil
}
