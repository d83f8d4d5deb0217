package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNoActiveTenant    = errors.New("no hay tenant activo")
	ErrPartialFailure    = errors.New("la operación quedó incompleta")
)

// ValidationError rechazo de entrada antes de cualquier escritura.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientStockError indica qué producto no alcanza para la cantidad pedida.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", name, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PartialFailureError describe una operación de venta que falló después de haber
// escrito algo. Step es el paso en que se detuvo; lo ya escrito no se repara
// salvo que RolledBack sea true (modo transaccional).
type PartialFailureError struct {
	Operation  string
	Step       string
	SaleID     string
	ProductID  string
	RolledBack bool
	Err        error
}

func (e *PartialFailureError) Error() string {
	msg := fmt.Sprintf("%s de venta %s falló en %s", e.Operation, e.SaleID, e.Step)
	if e.ProductID != "" {
		msg += " (producto " + e.ProductID + ")"
	}
	if e.RolledBack {
		msg += ", cambios revertidos"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrPartialFailure).
func (e *PartialFailureError) Is(target error) bool { return target == ErrPartialFailure }
