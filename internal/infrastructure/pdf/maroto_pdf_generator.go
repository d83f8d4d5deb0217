// Package pdf genera el reporte resumen del punto de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio   │  Fecha del reporte           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENTAS: Hoy | Últimos 7 días | Últimos 30 días              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MÁS VENDIDOS: # | Producto | Unidades                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STOCK BAJO: Producto | Stock                                │
//	│  FOOTER: total de productos + fecha de generación            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/application/reports"
	"github.com/jhoicas/papeleria-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	businessName string
}

var _ reports.PDFRenderer = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador; businessName va en el encabezado.
func NewMarotoPDFGenerator(businessName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{businessName: businessName}
}

// RenderSummary genera el PDF del resumen y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderSummary(_ context.Context, s *dto.ReportSummaryDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(periodsRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PRODUCTOS MÁS VENDIDOS"))
	m.AddRows(bestSellerRows(s.BestSellers)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle(fmt.Sprintf("STOCK BAJO (hasta %d unidades)", s.LowStockThreshold)))
	m.AddRows(lowStockRows(s.LowStock)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(name string, s *dto.ReportSummaryDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Reporte de ventas e inventario", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Fecha: "+s.Today, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3}),
		),
	)
}

func periodsRow(s *dto.ReportSummaryDTO) core.Row {
	cell := func(label string, p dto.PeriodTotalDTO) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Center, Top: 1}),
			text.New(money.Format(p.Total), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6}),
			text.New(strconv.Itoa(p.Count)+" ventas", props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 13}),
		)
	}
	return row.New(19).Add(
		cell("HOY", s.SalesToday),
		cell("ÚLTIMOS 7 DÍAS", s.SalesWeek),
		cell("ÚLTIMOS 30 DÍAS", s.SalesMonth),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func bestSellerRows(list []dto.BestSellerDTO) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow("Sin ventas registradas")}
	}
	rows := make([]core.Row, 0, len(list))
	for i, b := range list {
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1)+".", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(b.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(strconv.Itoa(b.Quantity)+" und.", props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func lowStockRows(list []dto.LowStockDTO) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow("Todos los productos tienen stock suficiente")}
	}
	rows := make([]core.Row, 0, len(list))
	for _, p := range list {
		stock := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if p.Stock <= 0 {
			stock.Color = colorAlert
			stock.Style = fontstyle.Bold
		}
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(strconv.Itoa(p.Stock), stock)),
		))
	}
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

func footerRow(s *dto.ReportSummaryDTO) core.Row {
	return row.New(8).Add(
		col.New(6).Add(text.New(
			fmt.Sprintf("Total de productos: %d", s.TotalProducts),
			props.Text{Size: 7, Color: colorGray, Top: 2},
		)),
		col.New(6).Add(text.New(
			"Generado: "+s.GeneratedAt.Format("02/01/2006 15:04"),
			props.Text{Size: 7, Color: colorGray, Align: align.Right, Top: 2},
		)),
	)
}
