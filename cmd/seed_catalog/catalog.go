package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type catalogRow struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Description string
}

// parseCatalog lee el CSV separado por ';'. Filas con nombre vacío se ignoran.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []catalogRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue // encabezado
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas, hay %d", line, len(rec))
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		// Excel en es-CO exporta la coma como separador decimal
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[1]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[1])
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("línea %d: precio negativo", line)
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, rec[2])
		}
		row := catalogRow{
			Name:     name,
			Price:    price.Round(2),
			Stock:    stock,
			Category: strings.TrimSpace(rec[3]),
		}
		if len(rec) > 4 {
			row.Description = strings.TrimSpace(rec[4])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeSeedSQL escribe categorías (idempotentes por nombre) y productos. Devuelve
// cuántas categorías distintas hubo.
func writeSeedSQL(w io.Writer, tenantID string, rows []catalogRow) (int, error) {
	seen := make(map[string]struct{})
	var cats []string
	for _, r := range rows {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; !ok {
			seen[r.Category] = struct{}{}
			cats = append(cats, r.Category)
		}
	}
	sort.Strings(cats)

	b := &strings.Builder{}
	fmt.Fprintf(b, "-- Catálogo inicial del tenant %s\n\n", tenantID)
	for _, c := range cats {
		fmt.Fprintf(b, "INSERT INTO categories (id, tenant_id, nombre) VALUES ('%s', '%s', '%s')\n",
			uuid.New().String(), escapeSQL(tenantID), escapeSQL(c))
		b.WriteString("ON CONFLICT (tenant_id, nombre) DO NOTHING;\n")
	}
	if len(cats) > 0 {
		b.WriteString("\n")
	}
	for _, r := range rows {
		category := "NULL"
		if r.Category != "" {
			category = fmt.Sprintf("(SELECT id FROM categories WHERE tenant_id = '%s' AND nombre = '%s')",
				escapeSQL(tenantID), escapeSQL(r.Category))
		}
		fmt.Fprintf(b, "INSERT INTO products (id, tenant_id, nombre, descripcion, precio, stock, categoria_id)\n")
		fmt.Fprintf(b, "VALUES ('%s', '%s', '%s', '%s', %s, %d, %s);\n",
			uuid.New().String(), escapeSQL(tenantID), escapeSQL(r.Name), escapeSQL(r.Description),
			r.Price.StringFixed(2), r.Stock, category)
	}
	_, err := io.WriteString(w, b.String())
	return len(cats), err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
