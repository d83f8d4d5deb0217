package entity

import "github.com/shopspring/decimal"

// SaleLineItem representa una línea de una venta.
// UnitPrice es una foto del precio al momento de la venta, independiente del precio actual del producto.
type SaleLineItem struct {
	ID        string
	TenantID  string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal devuelve Quantity * UnitPrice.
func (i *SaleLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumTotal suma los subtotales de las líneas.
func SumTotal(items []*SaleLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
