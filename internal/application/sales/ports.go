package sales

import (
	"context"
	"time"

	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// Repos agrupa los repositorios que toca el protocolo de venta.
type Repos struct {
	Products  repository.ProductRepository
	Sales     repository.SaleRepository
	LineItems repository.SaleLineItemRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repos atados a ella.
// Lo implementa postgres.TxRunner; solo se usa con Config.Transactional.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(repos Repos) error) error
}

// directRunner ejecuta fn con los repos base: cada llamada se confirma por separado.
type directRunner struct {
	repos Repos
}

func (r directRunner) RunSales(_ context.Context, fn func(repos Repos) error) error {
	return fn(r.repos)
}

// Recorder recibe el resultado de cada operación (métricas).
type Recorder interface {
	ObserveSaleOperation(operation, outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSaleOperation(string, string, time.Duration) {}

// ChangeListener recibe el tenant cuyas ventas cambiaron.
type ChangeListener interface {
	Invalidate(ctx context.Context, tenantID string)
}
