package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// StockMode define cómo AdjustStock escribe el contador.
type StockMode string

const (
	// StockModeReadWrite lee el stock y escribe current+delta en dos llamadas.
	// Dos ajustes concurrentes sobre el mismo producto pueden pisarse (last writer wins).
	StockModeReadWrite StockMode = "read_write"
	// StockModeAtomic suma delta en una sola sentencia del almacén.
	StockModeAtomic StockMode = "atomic"
)

// ParseStockMode valida el modo configurado. Vacío equivale a read_write.
func ParseStockMode(s string) (StockMode, error) {
	switch StockMode(s) {
	case "", StockModeReadWrite:
		return StockModeReadWrite, nil
	case StockModeAtomic:
		return StockModeAtomic, nil
	}
	return "", fmt.Errorf("modo de stock desconocido: %q", s)
}

// StockLedger lee y ajusta el contador de stock de un producto dentro de un tenant.
type StockLedger struct {
	products repository.ProductRepository
	mode     StockMode
}

// NewStockLedger construye el ledger sobre el repositorio de productos.
func NewStockLedger(products repository.ProductRepository, mode StockMode) *StockLedger {
	if mode == "" {
		mode = StockModeReadWrite
	}
	return &StockLedger{products: products, mode: mode}
}

// ReadStock devuelve el stock actual. domain.ErrNotFound si el producto no está en el tenant.
func (l *StockLedger) ReadStock(ctx context.Context, tenantID, productID string) (int, error) {
	stock, err := l.products.GetStock(ctx, tenantID, productID)
	if err != nil {
		return 0, fmt.Errorf("leer stock de %s: %w", productID, err)
	}
	return stock, nil
}

// AdjustStock suma delta al stock y devuelve el valor escrito. No rechaza resultados negativos:
// verificar suficiencia es responsabilidad de quien llama.
func (l *StockLedger) AdjustStock(ctx context.Context, tenantID, productID string, delta int) (int, error) {
	if l.mode == StockModeAtomic {
		stock, err := l.products.AddStock(ctx, tenantID, productID, delta)
		if err != nil {
			return 0, fmt.Errorf("ajustar stock de %s: %w", productID, err)
		}
		return stock, nil
	}

	current, err := l.ReadStock(ctx, tenantID, productID)
	if err != nil {
		return 0, err
	}
	next := current + delta
	if err := l.products.SetStock(ctx, tenantID, productID, next); err != nil {
		return 0, fmt.Errorf("escribir stock de %s: %w", productID, err)
	}
	return next, nil
}
