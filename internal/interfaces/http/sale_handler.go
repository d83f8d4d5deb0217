package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/application/sales"
)

// SaleHandler expone el protocolo de venta (carrito, edición, anulación).
type SaleHandler struct {
	orch *sales.Orchestrator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(orch *sales.Orchestrator) *SaleHandler {
	return &SaleHandler{orch: orch}
}

// Create godoc
// @Summary      Registrar venta desde el carrito
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas del carrito"
// @Success      201   {object}  dto.SaleMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	sale, err := h.orch.CreateSale(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleMutationResponse{
		Sale:   h.orch.ToResponse(c.UserContext(), sale),
		Alerts: requestAlerts(c),
	})
}

// Update godoc
// @Summary      Editar venta (fecha y líneas)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Nueva fecha y líneas"
// @Success      200   {object}  dto.SaleMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateSaleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	sale, err := h.orch.EditSale(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SaleMutationResponse{
		Sale:   h.orch.ToResponse(c.UserContext(), sale),
		Alerts: requestAlerts(c),
	})
}

// Delete godoc
// @Summary      Anular venta y devolver el stock
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleDeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.orch.DeleteSale(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SaleDeleteResponse{ID: id, Alerts: requestAlerts(c)})
}

// GetByID godoc
// @Summary      Obtener venta con su detalle
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.orch.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.orch.ToResponse(c.UserContext(), sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20) maximum(100)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page, ok, err := pageFromQuery(c)
	if !ok {
		return err
	}
	list, total, err := h.orch.ListSales(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page, total),
	}
	for _, s := range list {
		out.Items = append(out.Items, h.orch.ToResponse(c.UserContext(), s))
	}
	return c.JSON(out)
}

// pageFromQuery lee ?limit=&offset= y los valida contra las etiquetas de dto.PageRequest.
// Si ok es false la respuesta 400 ya está escrita.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit y offset deben ser enteros"})
	}
	if err := validate.Struct(page); err != nil {
		return page, false, writeValidation(c, err)
	}
	return page.Normalized(), true, nil
}
