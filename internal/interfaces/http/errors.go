package http

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/alert"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (min, gt, etc).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// ValidationErrorResponse 400 con el tag que falló por campo.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// bindAndValidate parsea el body y aplica los tags validate. Si devuelve false
// la respuesta de error ya está escrita.
func bindAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		return false, writeValidation(c, err)
	}
	return true, nil
}

// writeValidation responde 400 VALIDATION con el tag que falló por campo.
func writeValidation(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
}

// errorBody cuerpo de error con las alertas que haya dejado la operación.
type errorBody struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	RolledBack *bool          `json:"rolled_back,omitempty"`
	Alerts     []dto.AlertDTO `json:"alerts,omitempty"`
}

// writeError traduce errores de dominio a status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	body := errorBody{Code: code, Message: err.Error(), Alerts: requestAlerts(c)}
	var pf *domain.PartialFailureError
	if errors.As(err, &pf) {
		rb := pf.RolledBack
		body.RolledBack = &rb
	}
	if status == fiber.StatusInternalServerError && code == "INTERNAL" {
		body.Message = "error interno"
	}
	return c.Status(status).JSON(body)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPartialFailure):
		return fiber.StatusInternalServerError, "PARTIAL_FAILURE"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNoActiveTenant):
		return fiber.StatusUnauthorized, "NO_ACTIVE_TENANT"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// requestAlerts alertas acumuladas por AlertsMiddleware.
func requestAlerts(c *fiber.Ctx) []dto.AlertDTO {
	col := alert.CollectorFrom(c.UserContext())
	if col == nil {
		return nil
	}
	list := col.Alerts()
	if len(list) == 0 {
		return nil
	}
	out := make([]dto.AlertDTO, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AlertDTO{Kind: string(a.Kind), Title: a.Title, Message: a.Message})
	}
	return out
}

func requireTenant(c *fiber.Ctx) (string, bool, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_TENANT", Message: "tenant_id requerido"})
	}
	return tenantID, true, nil
}
