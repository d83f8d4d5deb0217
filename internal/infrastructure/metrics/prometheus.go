// Package metrics expone métricas Prometheus de las operaciones de venta y del HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/papeleria-api/internal/application/sales"
)

// Metrics agrupa los collectors de la aplicación.
type Metrics struct {
	saleOps      *prometheus.CounterVec
	saleDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
}

var _ sales.Recorder = (*Metrics)(nil)

// New registra los collectors en reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		saleOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "papeleria",
			Name:      "sale_operations_total",
			Help:      "Operaciones de venta por tipo y resultado.",
		}, []string{"operation", "outcome"}),
		saleDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "papeleria",
			Name:      "sale_operation_duration_seconds",
			Help:      "Duración de las operaciones de venta.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "papeleria",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveSaleOperation implementa sales.Recorder.
func (m *Metrics) ObserveSaleOperation(operation, outcome string, elapsed time.Duration) {
	m.saleOps.WithLabelValues(operation, outcome).Inc()
	m.saleDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Middleware cuenta peticiones por ruta registrada (no por path, para acotar cardinalidad).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.httpRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}
