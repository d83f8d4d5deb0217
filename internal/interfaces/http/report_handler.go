package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/papeleria-api/internal/application/reports"
)

// ReportHandler resumen de ventas y stock.
type ReportHandler struct {
	uc *reports.SummaryUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.SummaryUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de ventas, más vendidos y stock bajo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportSummaryDTO
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	tenantID, ok, err := requireTenant(c)
	if !ok {
		return err
	}
	out, err := h.uc.Summary(c.UserContext(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	tenantID, ok, err := requireTenant(c)
	if !ok {
		return err
	}
	pdf, err := h.uc.SummaryPDF(c.UserContext(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="resumen-%s.pdf"`, tenantID))
	return c.Send(pdf)
}
