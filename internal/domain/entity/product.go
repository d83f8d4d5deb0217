package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la papelería.
// Stock es un contador entero por producto; las ventas lo modifican vía el ledger de stock.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta vigente
	Stock       int
	CategoryID  string // vacío si no tiene categoría
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
