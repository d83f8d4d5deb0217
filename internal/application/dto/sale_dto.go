package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea propuesta de una venta. Una línea sin quantity o sin
// unit_price no se considera válida y se descarta.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales (carrito).
type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items"`
}

// UpdateSaleRequest body para PUT /api/sales/:id.
// Date (YYYY-MM-DD) es opcional; si se envía no puede estar vacía.
type UpdateSaleRequest struct {
	Date  *string           `json:"date,omitempty"`
	Items []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con su detalle.
type SaleResponse struct {
	ID        string             `json:"id"`
	Date      string             `json:"date"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []SaleItemResponse `json:"items"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AlertDTO notificación generada durante la petición.
type AlertDTO struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SaleMutationResponse respuesta de crear/editar: la venta más las alertas de la operación.
type SaleMutationResponse struct {
	Sale   SaleResponse `json:"sale"`
	Alerts []AlertDTO   `json:"alerts"`
}

// SaleDeleteResponse respuesta de DELETE /api/sales/:id.
type SaleDeleteResponse struct {
	ID     string     `json:"id"`
	Alerts []AlertDTO `json:"alerts"`
}
