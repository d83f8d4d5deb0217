package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/papeleria-api/internal/infrastructure/session"
	apphttp "github.com/jhoicas/papeleria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/papeleria-api/pkg/jwt"
)

const (
	testJWTSecret = "papeleria-secret-de-pruebas"
	testUserID    = "cajero-01"
	testIssuer    = "papeleria-api-test"
	testExpMin    = 60
)

func signed(t *testing.T, secret, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, "papeleria-centro", role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// Matriz de permisos sobre las rutas reales: el vendedor registra y edita ventas,
// solo el admin anula ventas o toca el catálogo.
func TestRouter_RolePermissions(t *testing.T) {
	h := newAPIHarness(t)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
		code   string
	}{
		{"vendedor no anula ventas", http.MethodDelete, "/api/sales/v-1", signed(t, testJWTSecret, apphttp.RoleVendedor, testExpMin), http.StatusForbidden, "FORBIDDEN"},
		{"admin llega al handler de anulación", http.MethodDelete, "/api/sales/v-1", signed(t, testJWTSecret, apphttp.RoleAdmin, testExpMin), http.StatusNotFound, "NOT_FOUND"},
		{"vendedor lista ventas", http.MethodGet, "/api/sales", signed(t, testJWTSecret, apphttp.RoleVendedor, testExpMin), http.StatusOK, ""},
		{"vendedor no borra productos", http.MethodDelete, "/api/products/p-1", signed(t, testJWTSecret, apphttp.RoleVendedor, testExpMin), http.StatusForbidden, "FORBIDDEN"},
		{"vendedor consulta el resumen", http.MethodGet, "/api/reports/summary", signed(t, testJWTSecret, apphttp.RoleVendedor, testExpMin), http.StatusOK, ""},
		{"rol ajeno al punto de venta", http.MethodGet, "/api/sales", signed(t, testJWTSecret, "contador", testExpMin), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", http.MethodGet, "/api/sales", signed(t, testJWTSecret, "", testExpMin), http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin Authorization", http.MethodGet, "/api/sales", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema Basic", http.MethodGet, "/api/sales", "Basic YWRtaW46YWRtaW4=", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otra clave", http.MethodGet, "/api/sales", signed(t, "otra-clave", apphttp.RoleAdmin, testExpMin), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token vencido", http.MethodGet, "/api/sales", signed(t, testJWTSecret, apphttp.RoleAdmin, -5), http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.call(t, tt.method, tt.path, tt.auth, nil)
			assert.Equal(t, tt.status, status, "%v", body)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestAuthMiddleware_ClaimsAndTenantContext(t *testing.T) {
	app := fiber.New()
	app.Get("/quien", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		active, ok := session.ContextTenant{}.CurrentTenantID(c.UserContext())
		return c.JSON(fiber.Map{
			"user":   apphttp.GetUserID(c),
			"tenant": apphttp.GetTenantID(c),
			"role":   apphttp.GetRole(c),
			"active": active,
			"ok":     ok,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/quien", nil)
	req.Header.Set("Authorization", signed(t, testJWTSecret, apphttp.RoleVendedor, testExpMin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, map[string]interface{}{
		"user":   testUserID,
		"tenant": "papeleria-centro",
		"role":   apphttp.RoleVendedor,
		"active": "papeleria-centro",
		"ok":     true,
	}, got)
}
