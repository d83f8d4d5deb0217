package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/papeleria-api/internal/application/reports"
	"github.com/jhoicas/papeleria-api/internal/application/sales"
	"github.com/jhoicas/papeleria-api/internal/application/usecase"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/alert"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/memory"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/metrics"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/session"
	apphttp "github.com/jhoicas/papeleria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/papeleria-api/pkg/jwt"
)

type apiHarness struct {
	app   *fiber.App
	store *memory.Store
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	store := memory.NewStore()
	summary := reports.NewSummaryUseCase(
		store.Products(), store.Sales(), store.LineItems(),
		nil, pdf.NewMarotoPDFGenerator("Papelería de prueba"),
		reports.Config{}, zerolog.Nop(),
	)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	orch := sales.NewOrchestrator(
		sales.Repos{Products: store.Products(), Sales: store.Sales(), LineItems: store.LineItems()},
		nil, session.ContextTenant{}, alert.RequestNotifier{}, sales.Config{},
	).WithRecorder(m).WithChangeListener(summary)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sales:      orch,
		Reports:    summary,
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.LineItems(), summary),
		CategoryUC: usecase.NewCategoryUseCase(store.Categories(), store.Products()),
		Metrics:    m,
		Gatherer:   reg,
		JWTSecret:  testJWTSecret,
	})
	return &apiHarness{app: app, store: store}
}

func bearer(t *testing.T, tenantID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, tenantID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call envía la petición y decodifica el body JSON (si lo hay).
func (h *apiHarness) call(t *testing.T, method, path, auth string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (h *apiHarness) createProduct(t *testing.T, auth, name string, stock int) string {
	t.Helper()
	status, body := h.call(t, http.MethodPost, "/api/products", auth, map[string]interface{}{
		"name": name, "price": "2500", "stock": stock,
	})
	require.Equal(t, http.StatusCreated, status, "crear producto: %v", body)
	return body["id"].(string)
}

func (h *apiHarness) stockOf(t *testing.T, auth, productID string) int {
	t.Helper()
	status, body := h.call(t, http.MethodGet, "/api/products/"+productID, auth, nil)
	require.Equal(t, http.StatusOK, status)
	return int(body["stock"].(float64))
}

func firstAlertKind(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	alerts, ok := body["alerts"].([]interface{})
	require.True(t, ok, "la respuesta debe traer alertas: %v", body)
	require.Len(t, alerts, 1)
	return alerts[0].(map[string]interface{})["kind"].(string)
}

func TestSalesAPI_Lifecycle(t *testing.T) {
	h := newAPIHarness(t)
	admin := bearer(t, "papeleria-centro", "admin")
	seller := bearer(t, "papeleria-centro", "vendedor")
	pid := h.createProduct(t, admin, "Cuaderno", 10)

	status, body := h.call(t, http.MethodPost, "/api/sales", seller, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": pid, "quantity": 3, "unit_price": "2500"}},
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	assert.Equal(t, "success", firstAlertKind(t, body))
	sale := body["sale"].(map[string]interface{})
	saleID := sale["id"].(string)
	assert.Equal(t, "7500", sale["total"])
	items := sale["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Cuaderno", items[0].(map[string]interface{})["product_name"])
	assert.Equal(t, 7, h.stockOf(t, seller, pid))

	// 3 devueltas + 20 pedidas no alcanzan: se revierte y el stock queda igual
	status, body = h.call(t, http.MethodPut, "/api/sales/"+saleID, seller, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": pid, "quantity": 20, "unit_price": "2500"}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "warning", firstAlertKind(t, body))
	assert.Equal(t, 7, h.stockOf(t, seller, pid))

	status, body = h.call(t, http.MethodPut, "/api/sales/"+saleID, seller, map[string]interface{}{
		"date":  "2024-05-01",
		"items": []map[string]interface{}{{"product_id": pid, "quantity": 5, "unit_price": "2000"}},
	})
	require.Equal(t, http.StatusOK, status, "%v", body)
	sale = body["sale"].(map[string]interface{})
	assert.Equal(t, "2024-05-01", sale["date"])
	assert.Equal(t, "10000", sale["total"])
	assert.Equal(t, 5, h.stockOf(t, seller, pid))

	status, _ = h.call(t, http.MethodDelete, "/api/sales/"+saleID, seller, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = h.call(t, http.MethodDelete, "/api/sales/"+saleID, admin, nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "success", firstAlertKind(t, body))
	assert.Equal(t, 10, h.stockOf(t, seller, pid))

	status, body = h.call(t, http.MethodGet, "/api/sales/"+saleID, seller, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestSalesAPI_EmptyCartIsValidationError(t *testing.T) {
	h := newAPIHarness(t)
	seller := bearer(t, "papeleria-centro", "vendedor")

	status, body := h.call(t, http.MethodPost, "/api/sales", seller, map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Equal(t, "error", firstAlertKind(t, body))
	assert.Zero(t, h.store.Writes())
}

func TestSalesAPI_InvalidBody(t *testing.T) {
	h := newAPIHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "papeleria-centro", "vendedor"))
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INVALID_BODY")
}

func TestSalesAPI_TenantIsolation(t *testing.T) {
	h := newAPIHarness(t)
	adminA := bearer(t, "tenant-a", "admin")
	sellerA := bearer(t, "tenant-a", "vendedor")
	sellerB := bearer(t, "tenant-b", "vendedor")
	adminB := bearer(t, "tenant-b", "admin")
	pid := h.createProduct(t, adminA, "Lápiz", 5)

	status, body := h.call(t, http.MethodPost, "/api/sales", sellerA, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": pid, "quantity": 1, "unit_price": "800"}},
	})
	require.Equal(t, http.StatusCreated, status)
	saleID := body["sale"].(map[string]interface{})["id"].(string)

	status, _ = h.call(t, http.MethodGet, "/api/sales/"+saleID, sellerB, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.call(t, http.MethodDelete, "/api/sales/"+saleID, adminB, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = h.call(t, http.MethodGet, "/api/sales", sellerB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, body = h.call(t, http.MethodGet, "/api/sales", sellerA, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)
}

func TestProductsAPI_SellerCannotWrite(t *testing.T) {
	h := newAPIHarness(t)
	seller := bearer(t, "papeleria-centro", "vendedor")

	status, body := h.call(t, http.MethodPost, "/api/products", seller, map[string]interface{}{"name": "Borrador", "price": "500"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestProductsAPI_ValidationTags(t *testing.T) {
	h := newAPIHarness(t)
	admin := bearer(t, "papeleria-centro", "admin")

	status, body := h.call(t, http.MethodPost, "/api/products", admin, map[string]interface{}{"name": "", "price": "500"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Contains(t, body["fields"], "Name")

	status, body = h.call(t, http.MethodPost, "/api/products", admin, map[string]interface{}{"name": "Regla", "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "Price")
}

func TestCategoriesAPI_DeleteInUseIsConflict(t *testing.T) {
	h := newAPIHarness(t)
	admin := bearer(t, "papeleria-centro", "admin")

	status, body := h.call(t, http.MethodPost, "/api/categories", admin, map[string]interface{}{"name": "Escritura"})
	require.Equal(t, http.StatusCreated, status)
	catID := body["id"].(string)

	status, _ = h.call(t, http.MethodPost, "/api/products", admin, map[string]interface{}{
		"name": "Esfero", "price": "1200", "stock": 4, "category_id": catID,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = h.call(t, http.MethodDelete, "/api/categories/"+catID, admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestProductsAPI_DeleteSoldProductIsConflict(t *testing.T) {
	h := newAPIHarness(t)
	admin := bearer(t, "papeleria-centro", "admin")
	pa := h.createProduct(t, admin, "Cuaderno", 10)
	pb := h.createProduct(t, admin, "Lápiz", 10)

	status, body := h.call(t, http.MethodPost, "/api/sales", admin, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": pa, "quantity": 3, "unit_price": "2500"},
			{"product_id": pb, "quantity": 2, "unit_price": "800"},
		},
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	saleID := body["sale"].(map[string]interface{})["id"].(string)

	status, body = h.call(t, http.MethodDelete, "/api/products/"+pb, admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	for i := 0; i < 3; i++ {
		h.call(t, http.MethodDelete, "/api/sales/"+saleID, admin, nil)
	}
	assert.Equal(t, 10, h.stockOf(t, admin, pa))
	assert.Equal(t, 10, h.stockOf(t, admin, pb))

	status, _ = h.call(t, http.MethodDelete, "/api/products/"+pb, admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestListAPI_PageBounds(t *testing.T) {
	h := newAPIHarness(t)
	admin := bearer(t, "papeleria-centro", "admin")
	h.createProduct(t, admin, "Cuaderno", 10)

	for _, path := range []string{"/api/sales?limit=500", "/api/products?limit=500", "/api/products?offset=-1"} {
		status, body := h.call(t, http.MethodGet, path, admin, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION", body["code"], path)
	}

	status, body := h.call(t, http.MethodGet, "/api/products?limit=abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", body["code"])

	status, body = h.call(t, http.MethodGet, "/api/products", admin, nil)
	require.Equal(t, http.StatusOK, status)
	page := body["page"].(map[string]interface{})
	assert.Equal(t, float64(20), page["limit"])
	assert.Equal(t, float64(1), page["total"])
}

func TestReportsAPI_SummaryAndPDF(t *testing.T) {
	h := newAPIHarness(t)
	admin := bearer(t, "papeleria-centro", "admin")
	pid := h.createProduct(t, admin, "Carpeta", 12)

	status, _ := h.call(t, http.MethodPost, "/api/sales", admin, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": pid, "quantity": 4, "unit_price": "3000"}},
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := h.call(t, http.MethodGet, "/api/reports/summary", admin, nil)
	require.Equal(t, http.StatusOK, status)
	today := body["sales_today"].(map[string]interface{})
	assert.Equal(t, "12000", today["total"])
	assert.Equal(t, float64(1), today["count"])
	assert.Equal(t, float64(1), body["total_products"])
	best := body["best_sellers"].([]interface{})
	require.Len(t, best, 1)
	assert.Equal(t, "Carpeta", best[0].(map[string]interface{})["product_name"])
	// 12 - 4 = 8, bajo el umbral por defecto
	assert.Len(t, body["low_stock"], 1)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/summary.pdf", nil)
	req.Header.Set("Authorization", admin)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newAPIHarness(t)
	seller := bearer(t, "papeleria-centro", "vendedor")
	h.call(t, http.MethodPost, "/api/sales", seller, map[string]interface{}{"items": []interface{}{}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `papeleria_sale_operations_total{operation="create",outcome="validation_error"} 1`)
	assert.Contains(t, string(raw), "papeleria_http_requests_total")
}
