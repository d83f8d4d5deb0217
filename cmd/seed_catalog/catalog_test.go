package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sampleCSV = `nombre;precio;stock;categoria;descripcion
Cuaderno 100 hojas;4500;30;Cuadernos;Cuadriculado
Lápiz HB;800,50;120;Escritura;
;1000;1;Escritura;
Borrador D'Nata;600;0;;
`

func TestParseCatalog(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Cuaderno 100 hojas", rows[0].Name)
	assert.Equal(t, "4500", rows[0].Price.String())
	assert.Equal(t, 30, rows[0].Stock)
	assert.Equal(t, "Cuadriculado", rows[0].Description)
	assert.Equal(t, "800.5", rows[1].Price.String())
	assert.Equal(t, "", rows[2].Category)
}

func TestParseCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"precio":   "h\nCinta;abc;1;X\n",
		"negativo": "h\nCinta;-1;1;X\n",
		"stock":    "h\nCinta;100;-3;X\n",
		"columnas": "h\nCinta;100\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("h\nCompás metálico;9000;5;Geometría\n")
	require.NoError(t, err)

	rows, err := parseCatalog(transform.NewReader(strings.NewReader(encoded), charmap.Windows1252.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Compás metálico", rows[0].Name)
	assert.Equal(t, "Geometría", rows[0].Category)
}

func TestWriteSeedSQL(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	cats, err := writeSeedSQL(&buf, "papeleria-centro", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, cats)

	sql := buf.String()
	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO categories"))
	assert.Equal(t, 3, strings.Count(sql, "INSERT INTO products"))
	assert.Contains(t, sql, "'Borrador D''Nata'")
	assert.Contains(t, sql, "800.50, 120")
	assert.Contains(t, sql, "0, NULL);")
}
