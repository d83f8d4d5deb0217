package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotalDTO suma de ventas de un período.
type PeriodTotalDTO struct {
	From  string          `json:"from"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// BestSellerDTO producto con más unidades vendidas.
type BestSellerDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// LowStockDTO producto con stock en o bajo el umbral.
type LowStockDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// ReportSummaryDTO respuesta de GET /api/reports/summary.
type ReportSummaryDTO struct {
	Today             string          `json:"today"`
	SalesToday        PeriodTotalDTO  `json:"sales_today"`
	SalesWeek         PeriodTotalDTO  `json:"sales_week"`
	SalesMonth        PeriodTotalDTO  `json:"sales_month"`
	BestSellers       []BestSellerDTO `json:"best_sellers"`
	LowStock          []LowStockDTO   `json:"low_stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	TotalProducts     int             `json:"total_products"`
	GeneratedAt       time.Time       `json:"generated_at"`
}
