package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/papeleria-api/pkg/money"
)

func TestFormat_DosDecimalesConComa(t *testing.T) {
	assert.Equal(t, "$15,00", money.Format(decimal.NewFromInt(15)))
	assert.Equal(t, "$2,50", money.Format(decimal.RequireFromString("2.5")))
}
