package sales

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// maxAmount es el mayor importe que cabe en NUMERIC(12,2).
var maxAmount = decimal.RequireFromString("9999999999.99")

// normalizeCart convierte las líneas propuestas en líneas de venta.
// Las líneas sin cantidad o sin precio se descartan en silencio; el resto debe ser válido
// y el conjunto resultante no puede quedar vacío.
func normalizeCart(in []dto.SaleItemRequest) ([]*entity.SaleLineItem, error) {
	seen := make(map[string]bool, len(in))
	total := decimal.Zero
	items := make([]*entity.SaleLineItem, 0, len(in))
	for _, req := range in {
		if req.Quantity == nil || req.UnitPrice == nil {
			continue
		}
		productID := strings.TrimSpace(req.ProductID)
		if productID == "" {
			return nil, domain.NewValidationError("product_id", "requerido")
		}
		if *req.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if *req.Quantity > math.MaxInt32 {
			return nil, domain.NewValidationError("quantity", "cantidad demasiado grande")
		}
		price := *req.UnitPrice
		if price.IsNegative() {
			return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
		}
		if !price.Equal(price.Round(2)) {
			return nil, domain.NewValidationError("unit_price", "máximo dos decimales")
		}
		if price.GreaterThan(maxAmount) {
			return nil, domain.NewValidationError("unit_price", "importe fuera de rango")
		}
		if seen[productID] {
			return nil, domain.NewValidationError("items", "el producto "+productID+" está repetido")
		}
		seen[productID] = true
		subtotal := price.Mul(decimal.NewFromInt(int64(*req.Quantity)))
		if subtotal.GreaterThan(maxAmount) {
			return nil, domain.NewValidationError("items", "el subtotal de "+productID+" excede el máximo")
		}
		total = total.Add(subtotal)
		items = append(items, &entity.SaleLineItem{
			ProductID: productID,
			Quantity:  *req.Quantity,
			UnitPrice: price,
		})
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "agrega al menos un producto")
	}
	if total.GreaterThan(maxAmount) {
		return nil, domain.NewValidationError("total", "el total excede el máximo")
	}
	return items, nil
}

// parseSaleDate valida la fecha opcional de una edición. nil significa conservar la actual.
func parseSaleDate(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil, domain.NewValidationError("date", "la fecha es obligatoria")
	}
	d, err := time.ParseInLocation(entity.DateLayout, s, loc)
	if err != nil {
		return nil, domain.NewValidationError("date", "formato esperado YYYY-MM-DD")
	}
	return &d, nil
}
