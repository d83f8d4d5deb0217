package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/papeleria-api/internal/infrastructure/metrics"
)

func TestObserveSaleOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveSaleOperation("create", "success", 10*time.Millisecond)
	m.ObserveSaleOperation("create", "success", 5*time.Millisecond)
	m.ObserveSaleOperation("edit", "insufficient_stock", time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "papeleria_sale_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por combinación operation/outcome")
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/sales/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/sales/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	n, err := testutil.GatherAndCount(reg, "papeleria_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
