// Package sales implementa el protocolo de venta: cabecera, líneas y stock se escriben
// como llamadas independientes al almacén, con compensación manual donde existe.
package sales

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/application/ports"
	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/pkg/money"
)

// Config ajusta el comportamiento del orquestador.
type Config struct {
	StockMode StockMode
	// VerifyStockOnCreate verifica suficiencia antes de crear. Por defecto la creación no verifica
	// (solo la edición lo hace) y el stock puede quedar negativo.
	VerifyStockOnCreate bool
	// Transactional ejecuta cada operación dentro de una sola transacción del TxRunner.
	Transactional bool
	// Location zona horaria para calcular "hoy". nil = UTC.
	Location *time.Location
}

// Orchestrator secuencia cabecera, líneas y stock para crear, editar y eliminar ventas.
type Orchestrator struct {
	repos    Repos
	runner   TxRunner
	tenants  ports.TenantContext
	notifier ports.Notifier
	cfg      Config
	recorder Recorder
	onChange []ChangeListener
	log      zerolog.Logger
	now      func() time.Time
}

// NewOrchestrator construye el orquestador. txRunner puede ser nil si Transactional es false.
func NewOrchestrator(
	repos Repos,
	txRunner TxRunner,
	tenants ports.TenantContext,
	notifier ports.Notifier,
	cfg Config,
) *Orchestrator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StockMode == "" {
		cfg.StockMode = StockModeReadWrite
	}
	var runner TxRunner = directRunner{repos: repos}
	if cfg.Transactional && txRunner != nil {
		runner = txRunner
	} else {
		cfg.Transactional = false
	}
	if notifier == nil {
		notifier = ports.NotifierFunc(func(context.Context, entity.AlertKind, string, string) {})
	}
	return &Orchestrator{
		repos:    repos,
		runner:   runner,
		tenants:  tenants,
		notifier: notifier,
		cfg:      cfg,
		recorder: noopRecorder{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
}

// WithRecorder registra métricas por operación.
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithChangeListener avisa a l tras cada operación que escribió algo (p. ej. invalidar reportes).
func (o *Orchestrator) WithChangeListener(l ChangeListener) *Orchestrator {
	if l != nil {
		o.onChange = append(o.onChange, l)
	}
	return o
}

// WithLogger registra los pasos de cada operación.
func (o *Orchestrator) WithLogger(l zerolog.Logger) *Orchestrator {
	o.log = l.With().Str("component", "sales").Logger()
	return o
}

// WithClock reemplaza el reloj (tests).
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// ── Create ────────────────────────────────────────────────────────────────────

// CreateSale registra una venta nueva desde el carrito:
//  1. valida el carrito (vacío → ValidationError sin escrituras)
//  2. inserta la cabecera con total y fecha de hoy
//  3. inserta las líneas
//  4. descuenta el stock de cada línea, en orden
//
// Un fallo en 3 o 4 deja lo ya escrito y se informa como PartialFailureError.
func (o *Orchestrator) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	start := time.Now()
	sale, err := o.createSale(ctx, in)
	o.finish(ctx, OpCreate, start, err, sale)
	return sale, err
}

func (o *Orchestrator) createSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	tenantID, err := o.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := normalizeCart(in.Items)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	err = o.run(ctx, func(r Repos) error {
		ledger := NewStockLedger(r.Products, o.cfg.StockMode)
		headers := NewHeaderRecorder(r.Sales)
		lineItems := NewLineItemRecorder(r.LineItems)

		if o.cfg.VerifyStockOnCreate {
			o.trace(OpCreate, StepVerifyingStock, "")
			if err := verifyStock(ctx, ledger, r.Products, tenantID, items); err != nil {
				return err
			}
		}

		now := o.now()
		sale = &entity.Sale{
			TenantID:  tenantID,
			Date:      entity.CalendarDay(now.In(o.cfg.Location)),
			Total:     entity.SumTotal(items),
			CreatedAt: now,
		}
		o.trace(OpCreate, StepInsertingHeader, "")
		if err := headers.InsertHeader(ctx, sale); err != nil {
			return err
		}

		o.trace(OpCreate, StepInsertingLineItems, sale.ID)
		if err := lineItems.InsertLineItems(ctx, tenantID, sale.ID, items); err != nil {
			return partial(OpCreate, StepInsertingLineItems, sale.ID, "", err)
		}

		o.trace(OpCreate, StepAdjustingStock, sale.ID)
		for _, it := range items {
			if _, err := ledger.AdjustStock(ctx, tenantID, it.ProductID, -it.Quantity); err != nil {
				return partial(OpCreate, StepAdjustingStock, sale.ID, it.ProductID, err)
			}
		}
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ── Edit ──────────────────────────────────────────────────────────────────────

// EditSale reemplaza fecha y líneas de una venta existente:
//  1. devuelve al stock las cantidades originales (todas antes de seguir)
//  2. verifica stock >= cantidad nueva para cada línea; si falla, vuelve a descontar
//     las cantidades originales y devuelve InsufficientStockError
//  3. actualiza la cabecera con el total recalculado
//  4. reemplaza las líneas (borrar y luego insertar)
//  5. descuenta las cantidades nuevas
//
// Un fallo en 3–5 no se compensa: el stock puede quedar restaurado sin volver a descontarse.
func (o *Orchestrator) EditSale(ctx context.Context, saleID string, in dto.UpdateSaleRequest) (*entity.Sale, error) {
	start := time.Now()
	sale, err := o.editSale(ctx, saleID, in)
	o.finish(ctx, OpEdit, start, err, sale)
	return sale, err
}

func (o *Orchestrator) editSale(ctx context.Context, saleID string, in dto.UpdateSaleRequest) (*entity.Sale, error) {
	tenantID, err := o.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	date, err := parseSaleDate(in.Date, o.cfg.Location)
	if err != nil {
		return nil, err
	}
	items, err := normalizeCart(in.Items)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	err = o.run(ctx, func(r Repos) error {
		ledger := NewStockLedger(r.Products, o.cfg.StockMode)
		headers := NewHeaderRecorder(r.Sales)
		lineItems := NewLineItemRecorder(r.LineItems)

		var err error
		sale, err = headers.GetHeader(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		original, err := lineItems.ListLineItems(ctx, tenantID, saleID)
		if err != nil {
			return err
		}

		o.trace(OpEdit, StepRestoringOldStock, saleID)
		for i, it := range original {
			if _, err := ledger.AdjustStock(ctx, tenantID, it.ProductID, it.Quantity); err != nil {
				if i == 0 {
					return err
				}
				return partial(OpEdit, StepRestoringOldStock, saleID, it.ProductID, err)
			}
		}

		o.trace(OpEdit, StepVerifyingNewStock, saleID)
		if verr := verifyStock(ctx, ledger, r.Products, tenantID, items); verr != nil {
			o.trace(OpEdit, StepRevertingRestore, saleID)
			if pid, rerr := revertRestore(ctx, ledger, tenantID, original); rerr != nil {
				return partial(OpEdit, StepRevertingRestore, saleID, pid, errors.Join(verr, rerr))
			}
			return verr
		}

		if date != nil {
			sale.Date = *date
		}
		sale.Total = entity.SumTotal(items)
		o.trace(OpEdit, StepUpdatingHeader, saleID)
		if err := headers.UpdateHeader(ctx, sale); err != nil {
			return partial(OpEdit, StepUpdatingHeader, saleID, "", err)
		}

		o.trace(OpEdit, StepReplacingLineItems, saleID)
		if err := lineItems.ReplaceLineItems(ctx, tenantID, saleID, items); err != nil {
			return partial(OpEdit, StepReplacingLineItems, saleID, "", err)
		}

		o.trace(OpEdit, StepDeductingNewStock, saleID)
		for _, it := range items {
			if _, err := ledger.AdjustStock(ctx, tenantID, it.ProductID, -it.Quantity); err != nil {
				return partial(OpEdit, StepDeductingNewStock, saleID, it.ProductID, err)
			}
		}
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// revertRestore vuelve a descontar las cantidades originales en orden inverso.
// Devuelve el producto donde falló, si falla.
func revertRestore(ctx context.Context, ledger *StockLedger, tenantID string, original []*entity.SaleLineItem) (string, error) {
	for i := len(original) - 1; i >= 0; i-- {
		it := original[i]
		if _, err := ledger.AdjustStock(ctx, tenantID, it.ProductID, -it.Quantity); err != nil {
			return it.ProductID, err
		}
	}
	return "", nil
}

// ── Delete ────────────────────────────────────────────────────────────────────

// DeleteSale devuelve al stock las cantidades de la venta, borra sus líneas y luego la cabecera.
// Un fallo a mitad de camino deja el estado intermedio (PartialFailureError).
func (o *Orchestrator) DeleteSale(ctx context.Context, saleID string) error {
	start := time.Now()
	err := o.deleteSale(ctx, saleID)
	o.finish(ctx, OpDelete, start, err, nil)
	return err
}

func (o *Orchestrator) deleteSale(ctx context.Context, saleID string) error {
	tenantID, err := o.tenantID(ctx)
	if err != nil {
		return err
	}
	return o.run(ctx, func(r Repos) error {
		ledger := NewStockLedger(r.Products, o.cfg.StockMode)
		headers := NewHeaderRecorder(r.Sales)
		lineItems := NewLineItemRecorder(r.LineItems)

		if _, err := headers.GetHeader(ctx, tenantID, saleID); err != nil {
			return err
		}
		items, err := lineItems.ListLineItems(ctx, tenantID, saleID)
		if err != nil {
			return err
		}

		o.trace(OpDelete, StepRestoringStock, saleID)
		for i, it := range items {
			if _, err := ledger.AdjustStock(ctx, tenantID, it.ProductID, it.Quantity); err != nil {
				if i == 0 {
					return err
				}
				return partial(OpDelete, StepRestoringStock, saleID, it.ProductID, err)
			}
		}

		o.trace(OpDelete, StepDeletingLineItems, saleID)
		if err := lineItems.DeleteLineItems(ctx, tenantID, saleID); err != nil {
			return partial(OpDelete, StepDeletingLineItems, saleID, "", err)
		}

		o.trace(OpDelete, StepDeletingHeader, saleID)
		if err := headers.DeleteHeader(ctx, tenantID, saleID); err != nil {
			return partial(OpDelete, StepDeletingHeader, saleID, "", err)
		}
		return nil
	})
}

// ── helpers ───────────────────────────────────────────────────────────────────

// verifyStock comprueba stock >= cantidad para cada línea, en orden.
func verifyStock(ctx context.Context, ledger *StockLedger, products productNamer, tenantID string, items []*entity.SaleLineItem) error {
	for _, it := range items {
		available, err := ledger.ReadStock(ctx, tenantID, it.ProductID)
		if err != nil {
			return err
		}
		if available < it.Quantity {
			name := ""
			if p, err := products.GetByID(ctx, tenantID, it.ProductID); err == nil && p != nil {
				name = p.Name
			}
			return &domain.InsufficientStockError{
				ProductID:   it.ProductID,
				ProductName: name,
				Available:   available,
				Requested:   it.Quantity,
			}
		}
	}
	return nil
}

type productNamer interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
}

func partial(op, step, saleID, productID string, err error) error {
	return &domain.PartialFailureError{
		Operation: op,
		Step:      step,
		SaleID:    saleID,
		ProductID: productID,
		Err:       err,
	}
}

func (o *Orchestrator) tenantID(ctx context.Context) (string, error) {
	if o.tenants == nil {
		return "", domain.ErrNoActiveTenant
	}
	id, ok := o.tenants.CurrentTenantID(ctx)
	if !ok || id == "" {
		return "", domain.ErrNoActiveTenant
	}
	return id, nil
}

// run ejecuta fn con el runner configurado. En modo transaccional un fallo parcial
// se revierte completo y se marca RolledBack.
func (o *Orchestrator) run(ctx context.Context, fn func(r Repos) error) error {
	err := o.runner.RunSales(ctx, fn)
	if err != nil && o.cfg.Transactional {
		var pfe *domain.PartialFailureError
		if errors.As(err, &pfe) {
			pfe.RolledBack = true
		}
	}
	return err
}

func (o *Orchestrator) trace(op, step, saleID string) {
	o.log.Debug().Str("op", op).Str("step", step).Str("sale_id", saleID).Msg("venta: paso")
}

// finish registra el resultado, notifica al usuario y deja traza.
func (o *Orchestrator) finish(ctx context.Context, op string, start time.Time, err error, sale *entity.Sale) {
	outcome := Outcome(err)
	o.recorder.ObserveSaleOperation(op, outcome, time.Since(start))

	// un fallo parcial también deja escrituras
	if err == nil || outcome == OutcomePartialFailure {
		if tenantID, terr := o.tenantID(ctx); terr == nil {
			for _, l := range o.onChange {
				l.Invalidate(ctx, tenantID)
			}
		}
	}

	if err == nil {
		msg := successMessages[op]
		if sale != nil {
			msg += ". Total: " + money.Format(sale.Total)
		}
		o.notifier.Notify(ctx, entity.AlertSuccess, "Éxito", msg)
		o.log.Info().Str("op", op).Str("step", StepDone).Msg("venta: operación completada")
		return
	}

	switch outcome {
	case OutcomeInsufficientStock:
		o.notifier.Notify(ctx, entity.AlertWarning, "Stock insuficiente", err.Error())
	case OutcomePartialFailure:
		o.notifier.Notify(ctx, entity.AlertError, "Venta inconsistente",
			errorPrefixes[op]+err.Error()+". Revise la venta y el stock de sus productos.")
	default:
		o.notifier.Notify(ctx, entity.AlertError, "Error", errorPrefixes[op]+err.Error())
	}

	ev := o.log.Warn()
	if outcome == OutcomePartialFailure || outcome == OutcomeError {
		ev = o.log.Error()
	}
	ev.Err(err).Str("op", op).Str("outcome", outcome).Msg("venta: operación fallida")
}

var successMessages = map[string]string{
	OpCreate: "Venta registrada correctamente",
	OpEdit:   "Venta actualizada correctamente",
	OpDelete: "Venta eliminada correctamente",
}

var errorPrefixes = map[string]string{
	OpCreate: "No se pudo procesar la venta: ",
	OpEdit:   "No se pudo actualizar la venta: ",
	OpDelete: "No se pudo eliminar la venta: ",
}

// Outcome clasifica un error del orquestador para métricas y respuestas.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrPartialFailure):
		return OutcomePartialFailure
	case errors.Is(err, domain.ErrNoActiveTenant):
		return OutcomeNoActiveTenant
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeValidation
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	}
	return OutcomeError
}
