package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/papeleria-api/internal/domain"
)

func TestInsufficientStockError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("editar venta: %w", &domain.InsufficientStockError{
		ProductID: "p-1", ProductName: "Cuaderno", Available: 2, Requested: 5,
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, "stock insuficiente para Cuaderno: disponible 2, solicitado 5", ise.Error())
}

func TestPartialFailureError_UnwrapsCause(t *testing.T) {
	cause := errors.New("conexión cerrada")
	err := &domain.PartialFailureError{Operation: "create", Step: "inserting_line_items", SaleID: "s-1", Err: cause}

	assert.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "inserting_line_items")
}

func TestValidationError_MatchesInvalidInput(t *testing.T) {
	err := domain.NewValidationError("items", "el carrito está vacío")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "items: el carrito está vacío", err.Error())
}
