package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/papeleria-api/internal/application/sales"
)

var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSales inicia una transacción, ejecuta fn con los repos de venta atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunSales(ctx context.Context, fn func(repos sales.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := sales.Repos{
		Products:  NewProductRepository(tx),
		Sales:     NewSaleRepository(tx),
		LineItems: NewSaleLineItemRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SalesRepos devuelve los repos de venta sobre el pool (sin transacción).
func SalesRepos(pool *pgxpool.Pool) sales.Repos {
	return sales.Repos{
		Products:  NewProductRepository(pool),
		Sales:     NewSaleRepository(pool),
		LineItems: NewSaleLineItemRepository(pool),
	}
}
