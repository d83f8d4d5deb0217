package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de la fecha (día calendario) de una venta.
const DateLayout = "2006-01-02"

// Sale representa la cabecera de una venta.
// Total siempre es la suma de Quantity*UnitPrice de sus líneas tras una escritura exitosa.
type Sale struct {
	ID        string
	TenantID  string
	Date      time.Time // solo día; hora en 00:00
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []*SaleLineItem // se llena solo en lecturas que lo piden
}

// CalendarDay trunca t al día calendario en su propia zona horaria.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
