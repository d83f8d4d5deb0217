// Package money formatea importes para mensajes y reportes.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Spanish)

// Format devuelve el importe con dos decimales y separadores en español, ej: "$15,00".
func Format(amount decimal.Decimal) string {
	f := amount.Round(2).InexactFloat64()
	return printer.Sprintf("$%v", number.Decimal(f, number.Scale(2)))
}
